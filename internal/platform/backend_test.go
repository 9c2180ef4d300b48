package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
)

func seedBackend() *MemoryBackend {
	b := NewMemoryBackend()
	b.Seed("post-1", []model.RawDescriptor{
		{ID: "a", Kind: "image", SourceRef: "ref://a", ThumbnailRef: "ref://a-thumb"},
		{ID: "b", Kind: "video", SourceRef: "ref://b", ThumbnailRef: "ref://b-thumb"},
		{ID: "c", Kind: "image", SourceRef: "ref://c", ThumbnailRef: "ref://c-thumb", Locked: true},
		{ID: "d", Kind: "audio", SourceRef: "ref://d"},
	})
	return b
}

func TestResolve_Renditions(t *testing.T) {
	b := seedBackend()
	ctx := context.Background()

	ref, err := b.Resolve(ctx, "a", RenditionThumbnail)
	require.NoError(t, err)
	assert.Equal(t, "ref://a-thumb", ref)

	ref, err = b.Resolve(ctx, "a", RenditionMain)
	require.NoError(t, err)
	assert.Equal(t, "ref://a?rendition=main", ref)

	ref, err = b.Resolve(ctx, "a", ByQuality(75))
	require.NoError(t, err)
	assert.Equal(t, "ref://a?rendition=q75", ref)
}

func TestByQuality_Clamps(t *testing.T) {
	assert.Equal(t, Rendition("q1"), ByQuality(-5))
	assert.Equal(t, Rendition("q100"), ByQuality(400))
	assert.Equal(t, Rendition("q50"), ByQuality(50))
}

func TestResolve_Failures(t *testing.T) {
	b := seedBackend()
	ctx := context.Background()

	_, err := b.Resolve(ctx, "zzz", RenditionMain)
	assert.ErrorIs(t, err, ErrNotFound)

	// Locked items still show a thumbnail but refuse the full asset
	ref, err := b.Resolve(ctx, "c", RenditionThumbnail)
	require.NoError(t, err)
	assert.Equal(t, "ref://c-thumb", ref)

	_, err = b.Resolve(ctx, "c", RenditionDetail)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = b.Resolve(ctx, "d", RenditionMain)
	assert.ErrorIs(t, err, model.ErrUnsupportedMedia)
}

func TestSubmitOrder_AppliesPermutation(t *testing.T) {
	b := seedBackend()

	err := b.SubmitOrder(context.Background(), "post-1", []string{"d", "a", "c", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "c", "b"}, b.Order("post-1"))
}

func TestSubmitOrder_RejectsBadInput(t *testing.T) {
	b := seedBackend()

	assert.Error(t, b.SubmitOrder(context.Background(), "nope", []string{"a"}))
	assert.Error(t, b.SubmitOrder(context.Background(), "post-1", []string{"a", "zzz"}))
	assert.Error(t, b.SubmitOrder(context.Background(), "post-1", []string{"a", "a"}))

	// Rejected submissions leave the order untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, b.Order("post-1"))
}

func TestSubmitOrder_PartialPrefixKeepsTail(t *testing.T) {
	b := seedBackend()

	// Client has only paged in a and b; unseen ids follow the prefix
	err := b.SubmitOrder(context.Background(), "post-1", []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d"}, b.Order("post-1"))
}

func TestSubmitOrder_FailureInjection(t *testing.T) {
	b := seedBackend()
	b.FailNextSubmit(errors.New("409"))

	err := b.SubmitOrder(context.Background(), "post-1", []string{"b", "a", "c", "d"})
	assert.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, b.Order("post-1"))

	// Only the next call fails
	err = b.SubmitOrder(context.Background(), "post-1", []string{"b", "a", "c", "d"})
	assert.NoError(t, err)
}

func TestFetchPage_Windows(t *testing.T) {
	b := seedBackend()
	b.SetPageSize(3)
	ctx := context.Background()

	page, err := b.FetchPage(ctx, "post-1", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "a", page.Items[0].ID)
	assert.Equal(t, "3", page.NextCursor)

	page, err = b.FetchPage(ctx, "post-1", page.NextCursor)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "d", page.Items[0].ID)
	assert.Empty(t, page.NextCursor, "final page carries no cursor")
}

func TestFetchPage_Failures(t *testing.T) {
	b := seedBackend()
	ctx := context.Background()

	_, err := b.FetchPage(ctx, "nope", "")
	assert.Error(t, err)

	_, err = b.FetchPage(ctx, "post-1", "garbage")
	assert.Error(t, err)

	b.FailNextPage(errors.New("503"))
	_, err = b.FetchPage(ctx, "post-1", "")
	assert.Error(t, err)

	page, err := b.FetchPage(ctx, "post-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, page.Items)
}
