package model

import "testing"

func makeDescriptors(ids ...string) []*MediaDescriptor {
	out := make([]*MediaDescriptor, len(ids))
	for i, id := range ids {
		out[i] = &MediaDescriptor{ID: id, Kind: KindImage}
	}
	return out
}

func TestNewCollection_NumbersPositionsDensely(t *testing.T) {
	c := NewCollection("post-1", makeDescriptors("a", "b", "c")...)

	if c.Len() != 3 {
		t.Fatalf("Expected 3 items, got %d", c.Len())
	}

	for i, id := range []string{"a", "b", "c"} {
		d, ok := c.At(i)
		if !ok {
			t.Fatalf("Expected item at index %d", i)
		}
		if d.ID != id {
			t.Errorf("Index %d: expected id %s, got %s", i, id, d.ID)
		}
		if d.Position != i {
			t.Errorf("Index %d: expected position %d, got %d", i, i, d.Position)
		}
	}
}

func TestCollection_AppendContinuesPositions(t *testing.T) {
	c := NewCollection("post-1", makeDescriptors("a", "b")...)

	added := c.Append(makeDescriptors("c", "d"))
	if added != 2 {
		t.Errorf("Expected 2 items added, got %d", added)
	}

	d, _ := c.At(3)
	if d.ID != "d" || d.Position != 3 {
		t.Errorf("Expected d at position 3, got %s at %d", d.ID, d.Position)
	}

	// Duplicate ids are skipped, existing items untouched
	added = c.Append(makeDescriptors("b", "e"))
	if added != 1 {
		t.Errorf("Expected 1 item added, got %d", added)
	}
	if c.IndexOf("b") != 1 {
		t.Errorf("Expected existing item b to keep index 1, got %d", c.IndexOf("b"))
	}
}

func TestCollection_ApplyOrder(t *testing.T) {
	c := NewCollection("post-1", makeDescriptors("a", "b", "c", "d")...)

	if err := c.ApplyOrder([]string{"a", "c", "b", "d"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	order := c.Order()
	expected := []string{"a", "c", "b", "d"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, order)
		}
	}

	for i := range expected {
		d, _ := c.At(i)
		if d.Position != i {
			t.Errorf("Expected dense position %d, got %d", i, d.Position)
		}
	}
}

func TestCollection_ApplyOrderRejectsBadIDs(t *testing.T) {
	c := NewCollection("post-1", makeDescriptors("a", "b")...)

	if err := c.ApplyOrder([]string{"a", "zzz"}); err == nil {
		t.Error("Expected error for unknown id, got nil")
	}
	if err := c.ApplyOrder([]string{"a", "a"}); err == nil {
		t.Error("Expected error for duplicate id, got nil")
	}

	// Failed applies leave the order untouched
	order := c.Order()
	if order[0] != "a" || order[1] != "b" {
		t.Errorf("Expected original order preserved, got %v", order)
	}
}

func TestCollection_ApplyOrderKeepsUnnamedTail(t *testing.T) {
	c := NewCollection("post-1", makeDescriptors("a", "b", "c")...)

	// A page arrived after the order snapshot was taken; d and e are not in
	// the id list and must keep their relative order at the tail.
	c.Append(makeDescriptors("d", "e"))

	if err := c.ApplyOrder([]string{"c", "a", "b"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	order := c.Order()
	expected := []string{"c", "a", "b", "d", "e"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, order)
		}
	}
}
