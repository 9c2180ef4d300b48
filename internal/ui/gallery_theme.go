package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GalleryTheme defines a dark, media-first theme with compact paddings so
// thumbnails get the most screen space.
type GalleryTheme struct{}

// NewGalleryTheme creates a new gallery theme
func NewGalleryTheme() fyne.Theme {
	return &GalleryTheme{}
}

// Color returns theme colors
func (t *GalleryTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255} // Green for committed reorders
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255} // Red for failed loads
	case theme.ColorNamePrimary:
		return color.RGBA{R: 130, G: 90, B: 220, A: 255} // Violet accent
	case theme.ColorNameBackground:
		// Media galleries read best on near-black in both variants
		return color.RGBA{R: 16, G: 16, B: 18, A: 255}
	case theme.ColorNameForeground:
		return color.RGBA{R: 235, G: 235, B: 238, A: 255}
	}

	// Use default colors for everything else
	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *GalleryTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *GalleryTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *GalleryTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3 // Reduced from default 4
	case theme.SizeNameInnerPadding:
		return 6 // Reduced from default 8
	case theme.SizeNameScrollBar:
		return 12 // Reduced from default 16
	case theme.SizeNameText:
		return 13 // Reduced from default 14
	case theme.SizeNameHeadingText:
		return 16 // Reduced from default 18
	case theme.SizeNameCaptionText:
		return 10 // Reduced from default 11
	}

	// Use default theme for everything else
	return theme.DefaultTheme().Size(name)
}
