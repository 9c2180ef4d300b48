package paging

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewport"
)

// DefaultGhostCount is how many trailing placeholder slots follow the list
const DefaultGhostCount = 1

const ghostPrefix = "ghost-"

// Page is one batch of descriptors from the pagination source. An empty
// NextCursor means the collection is exhausted.
type Page struct {
	Items      []model.RawDescriptor
	NextCursor string
}

// Source is the pagination collaborator
type Source interface {
	FetchPage(ctx context.Context, collectionID, cursor string) (Page, error)
}

// IsGhostID reports whether a descriptor id names a ghost placeholder slot.
// Used by the UI's visibility callback to route ghost events here.
func IsGhostID(id string) bool {
	return strings.HasPrefix(id, ghostPrefix)
}

// Controller grows a collection by appending pages as the user scrolls
// toward its end.
type Controller struct {
	mu         sync.Mutex
	collection *model.Collection
	source     Source
	loader     *viewport.Loader

	cursor     string
	hasMore    bool
	loading    bool
	ghostCount int
	ghostSeq   int
	ghostIDs   []string
	ghostSubs  map[string]*viewport.Subscription
	ghostSpots map[string]viewport.Bounds

	onPage  func(added int, hasMore bool) // callback for UI updates
	onError func(err error)
}

// NewController creates a pagination controller. cursor and hasMore describe
// where the already-loaded collection left off.
func NewController(collection *model.Collection, source Source, loader *viewport.Loader, cursor string, hasMore bool, ghostCount int) *Controller {
	if ghostCount <= 0 {
		ghostCount = DefaultGhostCount
	}
	c := &Controller{
		collection: collection,
		source:     source,
		loader:     loader,
		cursor:     cursor,
		hasMore:    hasMore,
		ghostCount: ghostCount,
		ghostSubs:  make(map[string]*viewport.Subscription),
		ghostSpots: make(map[string]viewport.Bounds),
	}
	c.mu.Lock()
	c.refreshGhostsLocked()
	c.mu.Unlock()
	return c
}

// SetPageCallback sets the callback fired after a page is appended
func (c *Controller) SetPageCallback(callback func(added int, hasMore bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPage = callback
}

// SetErrorCallback sets the callback fired when a page fetch fails
func (c *Controller) SetErrorCallback(callback func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = callback
}

// HasMore reports whether further pages exist
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// IsLoadingMore reports whether a page fetch is in flight
func (c *Controller) IsLoadingMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadedCount returns the number of real descriptors loaded so far
func (c *Controller) LoadedCount() int {
	return c.collection.Len()
}

// GhostIDs returns the current trailing placeholder slot ids. Empty when the
// collection is exhausted.
func (c *Controller) GhostIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.ghostIDs))
	copy(out, c.ghostIDs)
	return out
}

// PlaceGhost registers a ghost slot's layout bounds with the viewport
// loader, exactly like a real item. Called by the UI after layout.
func (c *Controller) PlaceGhost(ghostID string, bounds viewport.Bounds) {
	c.mu.Lock()
	known := false
	for _, id := range c.ghostIDs {
		if id == ghostID {
			known = true
			break
		}
	}
	if !known {
		c.mu.Unlock()
		return
	}
	c.ghostSpots[ghostID] = bounds
	if sub, exists := c.ghostSubs[ghostID]; exists {
		c.mu.Unlock()
		c.loader.UpdateBounds(sub, bounds)
		return
	}
	c.mu.Unlock()

	sub := c.loader.Register(ghostID, bounds)

	c.mu.Lock()
	c.ghostSubs[ghostID] = sub
	c.mu.Unlock()
}

// GhostVisible handles a ghost slot entering the near-viewport band. Fetches
// the next page when one exists and no fetch is already running.
func (c *Controller) GhostVisible(ctx context.Context, ghostID string) {
	if !IsGhostID(ghostID) {
		return
	}
	c.requestPage(ctx)
}

// RequestMore is the manual load-more fallback shown after a failed fetch
func (c *Controller) RequestMore(ctx context.Context) {
	c.requestPage(ctx)
}

// requestPage starts a fetch unless exhausted or already loading
func (c *Controller) requestPage(ctx context.Context) {
	c.mu.Lock()
	if !c.hasMore || c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	cursor := c.cursor
	c.mu.Unlock()

	go c.fetch(ctx, cursor)
}

// fetch retrieves one page and reconciles it into the collection
func (c *Controller) fetch(ctx context.Context, cursor string) {
	page, err := c.source.FetchPage(ctx, c.collection.ID, cursor)

	c.mu.Lock()
	c.loading = false

	if err != nil {
		// The ghost stays; re-arm it so the next visibility evaluation or a
		// manual load-more can retry.
		rearm := c.takeGhostSubsLocked()
		callback := c.onError
		c.mu.Unlock()

		log.Printf("Page fetch failed for collection %s: %v", c.collection.ID, err)
		c.rearmGhosts(rearm)
		if callback != nil {
			callback(fmt.Errorf("page fetch for %s: %w", c.collection.ID, err))
		}
		return
	}

	items := make([]*model.MediaDescriptor, 0, len(page.Items))
	for _, raw := range page.Items {
		d, ingestErr := model.Ingest(raw)
		if ingestErr != nil {
			log.Printf("Dropping malformed descriptor in collection %s: %v", c.collection.ID, ingestErr)
			continue
		}
		items = append(items, d)
	}

	c.cursor = page.NextCursor
	c.hasMore = page.NextCursor != ""

	// Append only: prior descriptors, their viewport state, and any pending
	// reorder's index space stay untouched.
	added := c.collection.Append(items)

	c.retireGhostsLocked()
	c.refreshGhostsLocked()
	hasMore := c.hasMore
	callback := c.onPage
	c.mu.Unlock()

	if callback != nil {
		callback(added, hasMore)
	}
}

// refreshGhostsLocked allocates fresh ghost slot ids when more pages exist.
// Caller holds the lock.
func (c *Controller) refreshGhostsLocked() {
	if !c.hasMore || len(c.ghostIDs) > 0 {
		return
	}
	for i := 0; i < c.ghostCount; i++ {
		c.ghostSeq++
		c.ghostIDs = append(c.ghostIDs, fmt.Sprintf("%s%s-%d", ghostPrefix, c.collection.ID, c.ghostSeq))
	}
}

// retireGhostsLocked unregisters the current ghost slots. Caller holds the
// lock.
func (c *Controller) retireGhostsLocked() {
	for _, id := range c.ghostIDs {
		if sub, exists := c.ghostSubs[id]; exists {
			c.loader.Unregister(sub)
			delete(c.ghostSubs, id)
		}
		delete(c.ghostSpots, id)
	}
	c.ghostIDs = nil
}

// ghostSlot pairs a ghost id with its retired subscription and last bounds
type ghostSlot struct {
	id     string
	sub    *viewport.Subscription
	bounds viewport.Bounds
}

// takeGhostSubsLocked detaches the current ghost subscriptions for
// re-registration. Caller holds the lock.
func (c *Controller) takeGhostSubsLocked() []ghostSlot {
	slots := make([]ghostSlot, 0, len(c.ghostIDs))
	for _, id := range c.ghostIDs {
		sub, exists := c.ghostSubs[id]
		if !exists {
			continue
		}
		delete(c.ghostSubs, id)
		slots = append(slots, ghostSlot{id: id, sub: sub, bounds: c.ghostSpots[id]})
	}
	return slots
}

// rearmGhosts re-registers ghosts so their one-shot visibility can fire
// again after a failed fetch. Deferred registration waits for the next
// viewport evaluation, so a stalled source retries on scroll rather than
// immediately. Loader calls happen outside the controller lock.
func (c *Controller) rearmGhosts(slots []ghostSlot) {
	for _, slot := range slots {
		c.loader.Unregister(slot.sub)
		sub := c.loader.RegisterDeferred(slot.id, slot.bounds)

		c.mu.Lock()
		c.ghostSubs[slot.id] = sub
		c.mu.Unlock()
	}
}
