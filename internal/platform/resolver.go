package platform

import (
	"context"
	"errors"
	"fmt"
)

// Rendition names the asset variant requested from the resolver
type Rendition string

const (
	// RenditionThumbnail is the small grid preview
	RenditionThumbnail Rendition = "thumbnail"

	// RenditionMain is the standard full-screen asset
	RenditionMain Rendition = "main"

	// RenditionDetail is the highest-quality asset, fetched for deep zoom
	RenditionDetail Rendition = "detail"
)

var (
	// ErrNotFound means the id resolves to no known media
	ErrNotFound = errors.New("media not found")

	// ErrLocked means the media exists but its source is not resolvable
	// for this viewer
	ErrLocked = errors.New("media is locked")
)

// ByQuality builds a rendition for an explicit quality percentage
func ByQuality(quality int) Rendition {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return Rendition(fmt.Sprintf("q%d", quality))
}

// Resolver is the media resolution service collaborator. The engine caches
// locator strings and load-stage flags, never asset bytes.
type Resolver interface {
	Resolve(ctx context.Context, descriptorID string, rendition Rendition) (string, error)
}
