package config

// Package config manages persistent application settings backed by Fyne
// preferences: lazy-loading tuning, reveal pacing, slideshow speed, zoom
// limits and UI language. All getters clamp stored values into safe ranges.
