package ui

// Package ui contains the Fyne-based user interface for the gallery. It wires
// scroll position into the viewport loader, renders tiles through the reveal
// ramp, and hosts the full-screen viewer overlay with zoom, crop, slideshow
// and reorder controls. All UI strings are localized via Localization.
