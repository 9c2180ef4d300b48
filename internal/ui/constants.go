package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings  = "⚙"
	IconPlay      = "▶"
	IconPause     = "⏸"
	IconClose     = "×"
	IconError     = "❌"
	IconLocked    = "🔒"
	IconVideo     = "🎬"
	IconImage     = "🖼"
	IconUp        = "↑"
	IconDown      = "↓"
	IconZoomIn    = "+"
	IconZoomOut   = "−"
	IconCrop      = "✂"
	IconSlideshow = "▶▶"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (gallery tiles)
const (
	TileMinWidth  float32 = 320
	TileHeight    float32 = 240
	TileSpacing   float32 = 8
	GhostHeight   float32 = 120
	BadgeWidth    float32 = 36
	PercentWidth  float32 = 48
	ThumbWidth    int     = 320
	ThumbHeight   int     = 220
	ViewerImageW  int     = 640
	ViewerImageH  int     = 480
	WindowWidth   float32 = 420
	WindowHeight  float32 = 720
	ViewerMinSize float32 = 360
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)
