package platform

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/paging"
)

// DefaultPageSize is how many descriptors a backend page carries
const DefaultPageSize = 6

// serverItem is the backend's authoritative record for one media item
type serverItem struct {
	raw model.RawDescriptor
}

// MemoryBackend is an in-process stand-in for the remote services: it
// resolves renditions, stores authoritative collection order, and serves
// pages. Failure injection and simulated latency make it usable for both
// the demo app and tests.
type MemoryBackend struct {
	mu          sync.Mutex
	collections map[string][]string    // collection id -> ordered item ids
	items       map[string]*serverItem // item id -> record
	pageSize    int
	latency     time.Duration
	submitErrs  []error
	pageErrs    []error
}

// NewMemoryBackend creates an empty backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		collections: make(map[string][]string),
		items:       make(map[string]*serverItem),
		pageSize:    DefaultPageSize,
	}
}

// SetPageSize overrides the page window
func (b *MemoryBackend) SetPageSize(size int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if size > 0 {
		b.pageSize = size
	}
}

// SetLatency adds a simulated network delay to every call
func (b *MemoryBackend) SetLatency(latency time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latency = latency
}

// FailNextSubmit queues an error for the next order submission
func (b *MemoryBackend) FailNextSubmit(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitErrs = append(b.submitErrs, err)
}

// FailNextPage queues an error for the next page fetch
func (b *MemoryBackend) FailNextPage(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pageErrs = append(b.pageErrs, err)
}

// Seed loads a collection's items in server order
func (b *MemoryBackend) Seed(collectionID string, items []model.RawDescriptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, raw := range items {
		b.collections[collectionID] = append(b.collections[collectionID], raw.ID)
		b.items[raw.ID] = &serverItem{raw: raw}
	}
}

// Order returns the authoritative id order of a collection
func (b *MemoryBackend) Order(collectionID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	order := b.collections[collectionID]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Resolve implements Resolver. Thumbnails resolve even for locked items so
// the grid can show a covered preview; main and detail renditions do not.
func (b *MemoryBackend) Resolve(ctx context.Context, descriptorID string, rendition Rendition) (string, error) {
	b.wait(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	item, exists := b.items[descriptorID]
	if !exists {
		return "", fmt.Errorf("resolve %s: %w", descriptorID, ErrNotFound)
	}
	kind := model.MediaKind(item.raw.Kind)
	if !kind.Valid() {
		return "", fmt.Errorf("resolve %s: %w", descriptorID, model.ErrUnsupportedMedia)
	}

	if rendition == RenditionThumbnail {
		return item.raw.ThumbnailRef, nil
	}
	if item.raw.Locked {
		return "", fmt.Errorf("resolve %s: %w", descriptorID, ErrLocked)
	}
	return fmt.Sprintf("%s?rendition=%s", item.raw.SourceRef, rendition), nil
}

// SubmitOrder implements the persistence service. The submitted ids must be
// a permutation of the collection's current membership; anything else is
// rejected and the client rolls back.
func (b *MemoryBackend) SubmitOrder(ctx context.Context, collectionID string, orderedIDs []string) error {
	b.wait(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.submitErrs) > 0 {
		err := b.submitErrs[0]
		b.submitErrs = b.submitErrs[1:]
		if err != nil {
			return err
		}
	}

	current, exists := b.collections[collectionID]
	if !exists {
		return fmt.Errorf("submit order: unknown collection %s", collectionID)
	}

	members := make(map[string]bool, len(current))
	for _, id := range current {
		members[id] = true
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !members[id] {
			return fmt.Errorf("submit order: id %s not in collection %s", id, collectionID)
		}
		if seen[id] {
			return fmt.Errorf("submit order: duplicate id %s", id)
		}
		seen[id] = true
	}

	// Ids the client has not seen yet (later pages) keep their relative
	// order after the submitted prefix.
	next := make([]string, 0, len(current))
	next = append(next, orderedIDs...)
	for _, id := range current {
		if !seen[id] {
			next = append(next, id)
		}
	}
	b.collections[collectionID] = next
	return nil
}

// FetchPage implements the pagination source. Cursors are opaque to the
// client; here they are stringified offsets into the server order.
func (b *MemoryBackend) FetchPage(ctx context.Context, collectionID, cursor string) (paging.Page, error) {
	b.wait(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pageErrs) > 0 {
		err := b.pageErrs[0]
		b.pageErrs = b.pageErrs[1:]
		if err != nil {
			return paging.Page{}, err
		}
	}

	order, exists := b.collections[collectionID]
	if !exists {
		return paging.Page{}, fmt.Errorf("fetch page: unknown collection %s", collectionID)
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return paging.Page{}, fmt.Errorf("fetch page: bad cursor %q", cursor)
		}
		offset = parsed
	}
	if offset > len(order) {
		offset = len(order)
	}

	end := offset + b.pageSize
	if end > len(order) {
		end = len(order)
	}

	page := paging.Page{}
	for _, id := range order[offset:end] {
		page.Items = append(page.Items, b.items[id].raw)
	}
	if end < len(order) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

// wait applies the simulated latency, honoring context cancellation
func (b *MemoryBackend) wait(ctx context.Context) {
	b.mu.Lock()
	latency := b.latency
	b.mu.Unlock()
	if latency <= 0 {
		return
	}
	select {
	case <-time.After(latency):
	case <-ctx.Done():
	}
}
