package viewer

// Package viewer implements the full-screen viewing session: a single focused
// media item navigated within its collection, with the zoom/pan/crop gesture
// transform and the slideshow auto-advance timer. One Session exists per open
// viewer; closing it or changing the focused item's identity resets all
// transient state. Generation tokens let stale async completions be detected
// and dropped after teardown.
