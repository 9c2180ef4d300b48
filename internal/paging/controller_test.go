package paging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewport"
)

// fakeSource serves scripted pages keyed by cursor
type fakeSource struct {
	mu    sync.Mutex
	pages map[string]Page
	errs  []error
	calls int
}

func (f *fakeSource) FetchPage(_ context.Context, _ string, cursor string) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return Page{}, err
		}
	}
	page, exists := f.pages[cursor]
	if !exists {
		return Page{}, errors.New("no such page")
	}
	return page, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func rawItems(ids ...string) []model.RawDescriptor {
	out := make([]model.RawDescriptor, len(ids))
	for i, id := range ids {
		out[i] = model.RawDescriptor{ID: id, Kind: "image"}
	}
	return out
}

func seededCollection(ids ...string) *model.Collection {
	items := make([]*model.MediaDescriptor, len(ids))
	for i, id := range ids {
		items[i] = &model.MediaDescriptor{ID: id, Kind: model.KindImage}
	}
	return model.NewCollection("post-1", items...)
}

// pageWaiter funnels page-applied events into a channel
func pageWaiter(c *Controller) chan int {
	done := make(chan int, 4)
	c.SetPageCallback(func(added int, _ bool) { done <- added })
	return done
}

func awaitPage(t *testing.T, done chan int) int {
	t.Helper()
	select {
	case added := <-done:
		return added
	case <-time.After(2 * time.Second):
		t.Fatal("page was not applied in time")
		return 0
	}
}

func TestGhostPresentWhileMorePagesExist(t *testing.T) {
	col := seededCollection("a", "b")
	c := NewController(col, &fakeSource{}, viewport.NewLoader(50, 0.1), "p2", true, 1)

	ghosts := c.GhostIDs()
	require.Len(t, ghosts, 1)
	assert.True(t, IsGhostID(ghosts[0]))
	assert.True(t, c.HasMore())
}

func TestNoGhostsWhenExhausted(t *testing.T) {
	col := seededCollection("a", "b")
	c := NewController(col, &fakeSource{}, viewport.NewLoader(50, 0.1), "", false, 1)

	assert.Empty(t, c.GhostIDs())
	assert.False(t, c.HasMore())
}

func TestGhostVisibility_FetchesAndReplaces(t *testing.T) {
	source := &fakeSource{pages: map[string]Page{
		"p2": {Items: rawItems("c", "d", "e", "f", "g"), NextCursor: "p3"},
	}}
	loader := viewport.NewLoader(50, 0.1)
	col := seededCollection("a", "b")
	c := NewController(col, source, loader, "p2", true, 1)
	done := pageWaiter(c)

	// Route ghost visibility events back into the controller, the way the
	// gallery's visibility callback does.
	loader.SetVisibleCallback(func(id string) {
		if IsGhostID(id) {
			c.GhostVisible(context.Background(), id)
		}
	})

	ghostID := c.GhostIDs()[0]
	c.PlaceGhost(ghostID, viewport.Bounds{Top: 500, Height: 80})
	loader.SetViewport(0, 600)

	added := awaitPage(t, done)
	assert.Equal(t, 5, added)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, col.Order())

	// hasMore is still true, so a fresh ghost trails the list
	newGhosts := c.GhostIDs()
	require.Len(t, newGhosts, 1)
	assert.NotEqual(t, ghostID, newGhosts[0], "replaced ghost gets a fresh slot id")
	assert.True(t, c.HasMore())
}

func TestFinalPage_RemovesGhosts(t *testing.T) {
	source := &fakeSource{pages: map[string]Page{
		"p2": {Items: rawItems("c"), NextCursor: ""},
	}}
	col := seededCollection("a", "b")
	c := NewController(col, source, viewport.NewLoader(50, 0.1), "p2", true, 1)
	done := pageWaiter(c)

	c.RequestMore(context.Background())
	awaitPage(t, done)

	assert.False(t, c.HasMore())
	assert.Empty(t, c.GhostIDs(), "exhausted collection has zero ghosts")
	assert.Equal(t, 3, c.LoadedCount())
}

func TestAppend_NeverDisturbsExistingDescriptors(t *testing.T) {
	source := &fakeSource{pages: map[string]Page{
		"p2": {Items: rawItems("c"), NextCursor: ""},
	}}
	loader := viewport.NewLoader(50, 0.1)
	col := seededCollection("a", "b")
	c := NewController(col, source, loader, "p2", true, 1)
	done := pageWaiter(c)

	// Existing items have resolved viewport state before the page lands
	loader.Register("a", viewport.Bounds{Top: 0, Height: 100})
	loader.SetViewport(0, 600)
	require.True(t, loader.State("a").Visible)
	first, _ := col.At(0)
	require.Equal(t, 0, first.Position)

	c.RequestMore(context.Background())
	awaitPage(t, done)

	assert.True(t, loader.State("a").Visible, "page append leaves viewport state alone")
	assert.Equal(t, 0, first.Position, "page append leaves positions alone")
	assert.Equal(t, []string{"a", "b", "c"}, col.Order())
}

func TestFetchFailure_KeepsGhostAndRetries(t *testing.T) {
	source := &fakeSource{
		pages: map[string]Page{"p2": {Items: rawItems("c"), NextCursor: ""}},
		errs:  []error{errors.New("503")},
	}
	loader := viewport.NewLoader(50, 0.1)
	col := seededCollection("a", "b")
	c := NewController(col, source, loader, "p2", true, 1)
	pages := pageWaiter(c)

	failures := make(chan error, 1)
	c.SetErrorCallback(func(err error) { failures <- err })

	loader.SetVisibleCallback(func(id string) {
		if IsGhostID(id) {
			c.GhostVisible(context.Background(), id)
		}
	})

	ghostID := c.GhostIDs()[0]
	c.PlaceGhost(ghostID, viewport.Bounds{Top: 500, Height: 80})
	loader.SetViewport(0, 600)

	select {
	case err := <-failures:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a fetch failure")
	}

	// The ghost survives the failure and is not fetching
	assert.Equal(t, []string{ghostID}, c.GhostIDs())
	assert.False(t, c.IsLoadingMore())
	assert.True(t, c.HasMore())
	require.Equal(t, 1, source.callCount())

	// The re-armed ghost fires again on the next viewport evaluation
	loader.SetViewport(10, 600)
	added := awaitPage(t, pages)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"a", "b", "c"}, col.Order())
}

func TestRequestMore_GatedWhileLoading(t *testing.T) {
	gate := make(chan struct{})
	source := &gatedSource{gate: gate, page: Page{Items: rawItems("c"), NextCursor: ""}}
	col := seededCollection("a", "b")
	c := NewController(col, source, viewport.NewLoader(50, 0.1), "p2", true, 1)
	done := pageWaiter(c)

	c.RequestMore(context.Background())
	c.RequestMore(context.Background())
	c.RequestMore(context.Background())

	close(gate)
	awaitPage(t, done)

	assert.Equal(t, 1, source.callCount(), "concurrent triggers collapse into one fetch")
}

func TestMalformedDescriptorsAreDropped(t *testing.T) {
	source := &fakeSource{pages: map[string]Page{
		"p2": {Items: []model.RawDescriptor{
			{ID: "c", Kind: "image"},
			{Kind: "image"}, // missing id
			{ID: "d", Kind: "somethingelse"},
		}, NextCursor: ""},
	}}
	col := seededCollection("a")
	c := NewController(col, source, viewport.NewLoader(50, 0.1), "p2", true, 1)
	done := pageWaiter(c)

	c.RequestMore(context.Background())
	added := awaitPage(t, done)

	// The unsupported kind survives as a placeholder; only the id-less one
	// is dropped.
	assert.Equal(t, 2, added)
	d, exists := col.Get("d")
	require.True(t, exists)
	assert.Equal(t, model.KindUnsupported, d.Kind)
}

// gatedSource blocks each fetch until the gate opens
type gatedSource struct {
	mu    sync.Mutex
	gate  chan struct{}
	page  Page
	calls int
}

func (g *gatedSource) FetchPage(_ context.Context, _, _ string) (Page, error) {
	<-g.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.page, nil
}

func (g *gatedSource) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
