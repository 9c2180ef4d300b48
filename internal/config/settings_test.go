package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestPrefetchMargin(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if margin := settings.GetPrefetchMargin(); margin != DefaultPrefetchMargin {
		t.Errorf("Expected default margin %d, got %d", DefaultPrefetchMargin, margin)
	}

	// Test setting custom value
	settings.SetPrefetchMargin(120)
	if margin := settings.GetPrefetchMargin(); margin != 120 {
		t.Errorf("Expected margin 120, got %d", margin)
	}

	// Test boundary values
	settings.SetPrefetchMargin(9999) // Should be clamped to 400
	if settings.GetPrefetchMargin() != 400 {
		t.Error("Margin should be clamped to maximum 400")
	}
}

func TestVisibleThreshold(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if threshold := settings.GetVisibleThreshold(); threshold != DefaultVisibleThreshold {
		t.Errorf("Expected default threshold %v, got %v", DefaultVisibleThreshold, threshold)
	}

	settings.SetVisibleThreshold(0.5)
	if threshold := settings.GetVisibleThreshold(); threshold != 0.5 {
		t.Errorf("Expected threshold 0.5, got %v", threshold)
	}

	settings.SetVisibleThreshold(3.0) // Should be clamped to 1
	if settings.GetVisibleThreshold() != 1.0 {
		t.Error("Threshold should be clamped to maximum 1")
	}
}

func TestGhostCount(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if count := settings.GetGhostCount(); count != DefaultGhostCount {
		t.Errorf("Expected default ghost count %d, got %d", DefaultGhostCount, count)
	}

	settings.SetGhostCount(0) // Should be clamped to 1
	if settings.GetGhostCount() != 1 {
		t.Error("Ghost count should be clamped to minimum 1")
	}

	settings.SetGhostCount(10) // Should be clamped to 4
	if settings.GetGhostCount() != 4 {
		t.Error("Ghost count should be clamped to maximum 4")
	}
}

func TestRevealInterval(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if ms := settings.GetRevealIntervalMs(); ms != DefaultRevealIntervalMs {
		t.Errorf("Expected default interval %d, got %d", DefaultRevealIntervalMs, ms)
	}

	settings.SetRevealIntervalMs(10) // Should be clamped to 50
	if settings.GetRevealIntervalMs() != 50 {
		t.Error("Interval should be clamped to minimum 50")
	}
}

func TestSlideshowSpeed(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if ms := settings.GetSlideshowSpeedMs(); ms != DefaultSlideshowSpeedMs {
		t.Errorf("Expected default speed %d, got %d", DefaultSlideshowSpeedMs, ms)
	}

	settings.SetSlideshowSpeedMs(100) // Should be clamped to 3000
	if settings.GetSlideshowSpeedMs() != 3000 {
		t.Error("Speed should be clamped to minimum 3000")
	}

	settings.SetSlideshowSpeedMs(120000) // Should be clamped to 60000
	if settings.GetSlideshowSpeedMs() != 60000 {
		t.Error("Speed should be clamped to maximum 60000")
	}
}

func TestMaxZoom(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if zoom := settings.GetMaxZoom(); zoom != DefaultMaxZoom {
		t.Errorf("Expected default max zoom %v, got %v", DefaultMaxZoom, zoom)
	}

	settings.SetMaxZoom(0.5) // Should be clamped to 1
	if settings.GetMaxZoom() != 1.0 {
		t.Error("Max zoom should be clamped to minimum 1")
	}

	settings.SetMaxZoom(100) // Should be clamped to 16
	if settings.GetMaxZoom() != 16.0 {
		t.Error("Max zoom should be clamped to maximum 16")
	}
}

func TestEagerLoading(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetEagerLoading() {
		t.Error("Eager loading should default to false")
	}

	settings.SetEagerLoading(true)
	if !settings.GetEagerLoading() {
		t.Error("Expected eager loading to be enabled")
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %q, got %q", DefaultLanguage, lang)
	}

	settings.SetLanguage("ru")
	if lang := settings.GetLanguage(); lang != "ru" {
		t.Errorf("Expected language ru, got %q", lang)
	}
}
