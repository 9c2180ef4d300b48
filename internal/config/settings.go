package config

import (
	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyPrefetchMargin   = "prefetch_margin_px"
	KeyVisibleThreshold = "visible_threshold"
	KeyGhostCount       = "ghost_slot_count"
	KeyRevealIntervalMs = "reveal_interval_ms"
	KeySlideshowSpeedMs = "slideshow_speed_ms"
	KeyMaxZoom          = "max_zoom"
	KeyEagerLoading     = "eager_loading"
	KeyLanguage         = "language"
)

// Default values
const (
	DefaultPrefetchMargin   = 80
	DefaultVisibleThreshold = 0.1
	DefaultGhostCount       = 1
	DefaultRevealIntervalMs = 180
	DefaultSlideshowSpeedMs = 3000
	DefaultMaxZoom          = 8.0
	DefaultLanguage         = "en"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetPrefetchMargin returns the near-viewport margin in pixels
func (s *Settings) GetPrefetchMargin() int {
	value := s.app.Preferences().Int(KeyPrefetchMargin)
	if value <= 0 {
		s.SetPrefetchMargin(DefaultPrefetchMargin)
		return DefaultPrefetchMargin
	}
	return value
}

// SetPrefetchMargin sets the near-viewport margin in pixels
func (s *Settings) SetPrefetchMargin(px int) {
	if px < 0 {
		px = 0
	}
	if px > 400 {
		px = 400
	}
	s.app.Preferences().SetInt(KeyPrefetchMargin, px)
}

// GetVisibleThreshold returns the intersection fraction that marks an
// element visible
func (s *Settings) GetVisibleThreshold() float64 {
	value := s.app.Preferences().Float(KeyVisibleThreshold)
	if value <= 0 || value > 1 {
		s.SetVisibleThreshold(DefaultVisibleThreshold)
		return DefaultVisibleThreshold
	}
	return value
}

// SetVisibleThreshold sets the intersection fraction
func (s *Settings) SetVisibleThreshold(threshold float64) {
	if threshold <= 0 {
		threshold = DefaultVisibleThreshold
	}
	if threshold > 1 {
		threshold = 1
	}
	s.app.Preferences().SetFloat(KeyVisibleThreshold, threshold)
}

// GetGhostCount returns how many trailing placeholder slots to keep
func (s *Settings) GetGhostCount() int {
	value := s.app.Preferences().Int(KeyGhostCount)
	if value <= 0 {
		s.SetGhostCount(DefaultGhostCount)
		return DefaultGhostCount
	}
	return value
}

// SetGhostCount sets the trailing placeholder slot count
func (s *Settings) SetGhostCount(count int) {
	if count < 1 {
		count = 1
	}
	if count > 4 {
		count = 4
	}
	s.app.Preferences().SetInt(KeyGhostCount, count)
}

// GetRevealIntervalMs returns the tick spacing of the progressive reveal
func (s *Settings) GetRevealIntervalMs() int {
	value := s.app.Preferences().Int(KeyRevealIntervalMs)
	if value <= 0 {
		s.SetRevealIntervalMs(DefaultRevealIntervalMs)
		return DefaultRevealIntervalMs
	}
	return value
}

// SetRevealIntervalMs sets the reveal tick spacing
func (s *Settings) SetRevealIntervalMs(ms int) {
	if ms < 50 {
		ms = 50
	}
	if ms > 1000 {
		ms = 1000
	}
	s.app.Preferences().SetInt(KeyRevealIntervalMs, ms)
}

// GetSlideshowSpeedMs returns the saved slideshow dwell time
func (s *Settings) GetSlideshowSpeedMs() int {
	value := s.app.Preferences().Int(KeySlideshowSpeedMs)
	if value <= 0 {
		s.SetSlideshowSpeedMs(DefaultSlideshowSpeedMs)
		return DefaultSlideshowSpeedMs
	}
	return value
}

// SetSlideshowSpeedMs saves the slideshow dwell time
func (s *Settings) SetSlideshowSpeedMs(ms int) {
	if ms < 3000 {
		ms = 3000
	}
	if ms > 60000 {
		ms = 60000
	}
	s.app.Preferences().SetInt(KeySlideshowSpeedMs, ms)
}

// GetMaxZoom returns the zoom ceiling for the viewer
func (s *Settings) GetMaxZoom() float64 {
	value := s.app.Preferences().Float(KeyMaxZoom)
	if value < 1 {
		s.SetMaxZoom(DefaultMaxZoom)
		return DefaultMaxZoom
	}
	return value
}

// SetMaxZoom sets the zoom ceiling
func (s *Settings) SetMaxZoom(zoom float64) {
	if zoom < 1 {
		zoom = 1
	}
	if zoom > 16 {
		zoom = 16
	}
	s.app.Preferences().SetFloat(KeyMaxZoom, zoom)
}

// GetEagerLoading returns whether lazy loading is bypassed entirely
func (s *Settings) GetEagerLoading() bool {
	return s.app.Preferences().BoolWithFallback(KeyEagerLoading, false)
}

// SetEagerLoading sets whether lazy loading is bypassed
func (s *Settings) SetEagerLoading(eager bool) {
	s.app.Preferences().SetBool(KeyEagerLoading, eager)
}

// GetLanguage returns the UI language code
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the UI language code
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}
