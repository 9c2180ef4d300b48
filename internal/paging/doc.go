package paging

// Package paging implements infinite scroll for media collections. Trailing
// ghost placeholder slots register with the viewport loader like real items;
// when a ghost scrolls near the viewport and more pages exist, the next page
// is fetched and appended. A failed fetch keeps the ghost armed so scrolling
// (or a manual load-more) can retry.
