package reorder

// Package reorder implements optimistic drag-and-drop reordering of media
// collections. A drop applies the new order locally at once and opens a
// transaction against the persistence service; success commits it, failure
// rolls the collection back to the last server-confirmed order. At most one
// transaction may be pending per collection, so conflicting optimistic
// states can never stack up.
