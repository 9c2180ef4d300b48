package viewer

// Zoom limits for image media. Video is never zoomable and stays at 1.
const (
	MinZoom = 1.0
	MaxZoom = 8.0
)

// CropRect is a committed crop selection in element-local coordinates
type CropRect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Transform is the current display transform of the focused item
type Transform struct {
	Zoom float64
	PanX float64
	PanY float64
	Crop *CropRect
}

// identityTransform returns the default transform applied on focus changes
func identityTransform() Transform {
	return Transform{Zoom: MinZoom}
}

// clampZoom bounds a zoom value to the configured range
func clampZoom(zoom, max float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > max {
		return max
	}
	return zoom
}

// normalizeRect builds a positive-size rect from two drag corners
func normalizeRect(x1, y1, x2, y2 float32) CropRect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return CropRect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
