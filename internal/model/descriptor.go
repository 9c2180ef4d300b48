package model

import (
	"errors"
	"fmt"
	"strings"
)

// MediaKind represents the kind of a media item
type MediaKind string

const (
	// KindImage is a still image
	KindImage MediaKind = "image"

	// KindVideo is a video clip
	KindVideo MediaKind = "video"

	// KindUnsupported marks a descriptor whose kind could not be resolved
	// at ingestion. The UI renders a neutral placeholder for it; the
	// resolver refuses to resolve it.
	KindUnsupported MediaKind = "unsupported"
)

// ErrUnsupportedMedia is returned when an unsupported descriptor's asset is
// requested. Unsupported items never fail ingestion; they render as neutral
// placeholders instead.
var ErrUnsupportedMedia = errors.New("unsupported media kind")

// Default dimensions assumed when a descriptor arrives without any.
// Portrait 4:5, the dominant aspect in the feed.
const (
	DefaultPortraitWidth  = 1080
	DefaultPortraitHeight = 1350
)

// String returns the string representation of MediaKind
func (mk MediaKind) String() string {
	return string(mk)
}

// Valid returns true if the kind is one the viewer can render
func (mk MediaKind) Valid() bool {
	return mk == KindImage || mk == KindVideo
}

// Zoomable returns true if the kind supports zoom and crop in the viewer
func (mk MediaKind) Zoomable() bool {
	return mk == KindImage
}

// MediaDescriptor represents a single media item: stable identity plus
// display metadata. The descriptor never carries asset bytes, only opaque
// locators resolved by the media resolution service.
type MediaDescriptor struct {
	ID           string
	Kind         MediaKind
	SourceRef    string // opaque locator for the full asset
	ThumbnailRef string // opaque locator for the grid thumbnail
	Width        int
	Height       int
	Locked       bool // locked items keep identity but resolve no source
	Position     int  // authoritative order within the owning collection
	Title        string
}

// RawDescriptor is the untyped shape delivered by the pagination source
// before ingestion normalizes it.
type RawDescriptor struct {
	ID           string
	Kind         string
	SourceRef    string
	ThumbnailRef string
	Width        int
	Height       int
	Locked       bool
	Title        string
}

// Ingest validates and normalizes a raw descriptor exactly once, so callers
// never re-probe optional fields downstream. Unknown dimensions get the
// portrait default; an unresolvable kind is tagged KindUnsupported with its
// locators dropped, keeping the item renderable as a placeholder.
func Ingest(raw RawDescriptor) (*MediaDescriptor, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("ingest: missing descriptor id")
	}

	d := &MediaDescriptor{
		ID:           raw.ID,
		Kind:         MediaKind(strings.ToLower(raw.Kind)),
		SourceRef:    raw.SourceRef,
		ThumbnailRef: raw.ThumbnailRef,
		Width:        raw.Width,
		Height:       raw.Height,
		Locked:       raw.Locked,
		Title:        raw.Title,
	}

	if !d.Kind.Valid() {
		d.Kind = KindUnsupported
		d.SourceRef = ""
		d.ThumbnailRef = ""
	}

	if d.Width <= 0 || d.Height <= 0 {
		d.Width = DefaultPortraitWidth
		d.Height = DefaultPortraitHeight
	}

	return d, nil
}

// GetDisplayTitle returns the title or a kind-based fallback for the UI
func (md *MediaDescriptor) GetDisplayTitle() string {
	if md.Title != "" {
		return md.Title
	}
	if md.Kind == KindVideo {
		return "Video"
	}
	return "Photo"
}

// AspectRatio returns width/height for layout sizing
func (md *MediaDescriptor) AspectRatio() float32 {
	if md.Height == 0 {
		return 1
	}
	return float32(md.Width) / float32(md.Height)
}
