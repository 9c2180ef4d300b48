package ui

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// BlurImage approximates a gaussian blur by scaling the image down and back
// up with a bilinear kernel. The radius maps to the downscale factor, so a
// larger radius loses more detail. A radius of zero returns the source as-is.
func BlurImage(src image.Image, radius float32) image.Image {
	if radius <= 0 {
		return src
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return src
	}

	factor := int(radius)
	if factor < 2 {
		factor = 2
	}
	smallW := width / factor
	smallH := height / factor
	if smallW < 1 {
		smallW = 1
	}
	if smallH < 1 {
		smallH = 1
	}

	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), src, bounds, xdraw.Src, nil)

	blurred := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(blurred, blurred.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return blurred
}

// PlaceholderImage renders a flat stand-in for media that has not resolved
// yet. The fill color is derived from the descriptor id so adjacent tiles are
// distinguishable while they load.
func PlaceholderImage(descriptorID string, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderColor(descriptorID)), image.Point{}, draw.Src)
	return img
}

// NeutralPlaceholder is the muted fill used for ghost slots and unsupported
// media where no identity-derived color is wanted.
func NeutralPlaceholder(width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 58, G: 58, B: 62, A: 255}), image.Point{}, draw.Src)
	return img
}

// placeholderColor hashes an id into a muted, stable tile color
func placeholderColor(id string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()

	// Keep channels in a mid band so text badges stay readable on top
	r := uint8(80 + (sum>>16)&0x5f)
	g := uint8(80 + (sum>>8)&0x5f)
	b := uint8(80 + sum&0x5f)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
