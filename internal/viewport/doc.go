package viewport

// Package viewport implements the visibility scheduler deciding when an
// off-screen media element becomes eligible to fetch. A single shared Loader
// serves every element in the gallery; elements register their content-space
// bounds and receive a one-shot "became visible" event when they intersect
// the near-viewport margin. The loader also tracks per-descriptor load
// stages with monotonic transitions.
