package model

import (
	"fmt"
	"sync"
)

// Collection represents an ordered sequence of media descriptors belonging to
// a single post or gallery. Both the reorder engine and the pagination
// controller mutate it, so all access goes through the mutex. Pages are only
// ever appended after existing indices; reorders are applied as a full
// permutation of ids.
type Collection struct {
	ID string

	mu    sync.RWMutex
	items []*MediaDescriptor
	byID  map[string]*MediaDescriptor
}

// NewCollection creates a collection with the given initial items.
// Positions are renumbered densely from zero.
func NewCollection(id string, items ...*MediaDescriptor) *Collection {
	c := &Collection{
		ID:    id,
		items: make([]*MediaDescriptor, 0, len(items)),
		byID:  make(map[string]*MediaDescriptor),
	}
	for _, item := range items {
		if _, exists := c.byID[item.ID]; exists {
			continue
		}
		item.Position = len(c.items)
		c.items = append(c.items, item)
		c.byID[item.ID] = item
	}
	return c
}

// Len returns the number of descriptors in the collection
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the descriptor at the given index
func (c *Collection) At(index int) (*MediaDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.items) {
		return nil, false
	}
	return c.items[index], true
}

// Get returns the descriptor with the given id
func (c *Collection) Get(id string) (*MediaDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byID[id]
	return d, ok
}

// IndexOf returns the current index of the descriptor with the given id,
// or -1 if it is not part of the collection
func (c *Collection) IndexOf(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Order returns the current id ordering
func (c *Collection) Order() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.items))
	for i, item := range c.items {
		ids[i] = item.ID
	}
	return ids
}

// Snapshot returns a copy of the ordered descriptor slice. The descriptors
// themselves are shared, the slice is not.
func (c *Collection) Snapshot() []*MediaDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*MediaDescriptor, len(c.items))
	copy(out, c.items)
	return out
}

// Append adds new descriptors after all existing indices, continuing the
// dense position numbering. Descriptors with ids already present are skipped.
// Appending never reorders existing items, so a pending reorder transaction's
// index mapping stays valid.
func (c *Collection) Append(items []*MediaDescriptor) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, item := range items {
		if _, exists := c.byID[item.ID]; exists {
			continue
		}
		item.Position = len(c.items)
		c.items = append(c.items, item)
		c.byID[item.ID] = item
		added++
	}
	return added
}

// ApplyOrder rearranges the collection to match the given id sequence and
// renumbers positions densely. Ids must be distinct and currently present.
// Items not named (pages appended after the order was computed) keep their
// relative order at the tail.
func (c *Collection) ApplyOrder(ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(ids))
	ordered := make([]*MediaDescriptor, 0, len(c.items))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("apply order on %s: duplicate id %s", c.ID, id)
		}
		seen[id] = true
		item, exists := c.byID[id]
		if !exists {
			return fmt.Errorf("apply order on %s: unknown id %s", c.ID, id)
		}
		ordered = append(ordered, item)
	}

	// Carry unnamed tail items in their current relative order.
	for _, item := range c.items {
		if !seen[item.ID] {
			ordered = append(ordered, item)
		}
	}

	c.items = ordered
	for i, item := range c.items {
		item.Position = i
	}
	return nil
}
