package ui

import (
	"fmt"
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/reveal"
)

// MediaTile represents one gallery cell. It renders a descriptor through the
// reveal ramp, or a neutral ghost placeholder when no descriptor exists yet.
type MediaTile struct {
	widget.BaseWidget

	descriptor   *model.MediaDescriptor
	ghostID      string
	localization *Localization

	baseImage   image.Image
	revealStage reveal.Stage
	loadStage   model.LoadStage

	// UI components
	thumbnail    *canvas.Image
	titleLabel   *widget.Label
	statusLabel  *widget.Label
	percentLabel *widget.Label
	moveUpBtn    *widget.Button
	moveDownBtn  *widget.Button

	// Callbacks
	onOpen  func(descriptorID string)
	onRetry func(descriptorID string)
	onMove  func(descriptorID string, delta int)
}

// NewMediaTile creates a tile for a loaded-in descriptor
func NewMediaTile(descriptor *model.MediaDescriptor, localization *Localization) *MediaTile {
	if descriptor == nil {
		log.Printf("Warning: NewMediaTile called with nil descriptor")
		descriptor = &model.MediaDescriptor{ID: "missing", Kind: model.KindUnsupported}
	}

	t := &MediaTile{
		descriptor:   descriptor,
		localization: localization,
		baseImage:    PlaceholderImage(descriptor.ID, ThumbWidth, ThumbHeight),
		loadStage:    model.StageNotRequested,
	}
	t.ExtendBaseWidget(t)
	t.createUI()
	t.updateFromState()
	return t
}

// NewGhostTile creates a trailing placeholder slot tile
func NewGhostTile(ghostID string, localization *Localization) *MediaTile {
	t := &MediaTile{
		ghostID:      ghostID,
		localization: localization,
		baseImage:    NeutralPlaceholder(ThumbWidth, ThumbHeight/2),
		loadStage:    model.StageNotRequested,
	}
	t.ExtendBaseWidget(t)
	t.createUI()
	t.updateFromState()
	return t
}

// ID returns the descriptor id, or the ghost slot id for a ghost tile
func (t *MediaTile) ID() string {
	if t.descriptor != nil {
		return t.descriptor.ID
	}
	return t.ghostID
}

// IsGhost reports whether this tile is a placeholder slot
func (t *MediaTile) IsGhost() bool {
	return t.descriptor == nil
}

// SetCallbacks sets the tile action callbacks
func (t *MediaTile) SetCallbacks(
	onOpen func(descriptorID string),
	onRetry func(descriptorID string),
	onMove func(descriptorID string, delta int),
) {
	t.onOpen = onOpen
	t.onRetry = onRetry
	t.onMove = onMove
}

// SetRevealStage applies one step of the reveal ramp to the thumbnail
func (t *MediaTile) SetRevealStage(stage reveal.Stage) {
	t.revealStage = stage
	t.updateFromState()
	t.Refresh()
}

// SetLoadStage updates the tile for a new load stage
func (t *MediaTile) SetLoadStage(stage model.LoadStage) {
	t.loadStage = stage
	t.updateFromState()
	t.Refresh()
}

// SetMoveEnabled toggles the reorder affordances. Both are disabled while
// another reorder is still being persisted.
func (t *MediaTile) SetMoveEnabled(up, down bool) {
	if up {
		t.moveUpBtn.Enable()
	} else {
		t.moveUpBtn.Disable()
	}
	if down {
		t.moveDownBtn.Enable()
	} else {
		t.moveDownBtn.Disable()
	}
}

// Tapped opens the viewer, or retries a failed load
func (t *MediaTile) Tapped(_ *fyne.PointEvent) {
	if t.IsGhost() {
		return
	}
	if t.loadStage == model.StageFailed {
		if t.onRetry != nil {
			t.onRetry(t.descriptor.ID)
		}
		return
	}
	if t.onOpen != nil {
		t.onOpen(t.descriptor.ID)
	}
}

// createUI creates the UI components
func (t *MediaTile) createUI() {
	t.thumbnail = canvas.NewImageFromImage(t.baseImage)
	t.thumbnail.FillMode = canvas.ImageFillContain
	t.thumbnail.SetMinSize(fyne.NewSize(TileMinWidth, t.tileHeight()-40))

	t.titleLabel = widget.NewLabel("")
	t.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	t.titleLabel.Truncation = fyne.TextTruncateEllipsis

	t.statusLabel = widget.NewLabel("")
	t.statusLabel.Alignment = fyne.TextAlignTrailing

	t.percentLabel = widget.NewLabel("")
	t.percentLabel.Alignment = fyne.TextAlignTrailing
	t.percentLabel.TextStyle = fyne.TextStyle{Monospace: true}

	t.moveUpBtn = widget.NewButton(IconUp, func() {
		if t.onMove != nil && t.descriptor != nil {
			t.onMove(t.descriptor.ID, -1)
		}
	})
	t.moveUpBtn.Importance = widget.LowImportance

	t.moveDownBtn = widget.NewButton(IconDown, func() {
		if t.onMove != nil && t.descriptor != nil {
			t.onMove(t.descriptor.ID, 1)
		}
	})
	t.moveDownBtn.Importance = widget.LowImportance

	if t.IsGhost() {
		t.moveUpBtn.Hide()
		t.moveDownBtn.Hide()
	}
}

// updateFromState refreshes labels and the blurred thumbnail
func (t *MediaTile) updateFromState() {
	if t.IsGhost() {
		t.titleLabel.SetText(t.localization.GetText(KeyLoading))
		t.statusLabel.SetText("")
		t.percentLabel.SetText("")
		t.thumbnail.Image = t.baseImage
		t.thumbnail.Refresh()
		return
	}

	t.titleLabel.SetText(t.descriptor.GetDisplayTitle())

	badge := ""
	switch {
	case t.descriptor.Kind == model.KindUnsupported:
		badge = t.localization.GetText(KeyUnsupported)
	case t.descriptor.Locked:
		badge = IconLocked + " " + t.localization.GetText(KeyLockedMedia)
	case t.descriptor.Kind == model.KindVideo:
		badge = IconVideo
	}

	switch t.loadStage {
	case model.StageFailed:
		t.statusLabel.Importance = widget.DangerImportance
		t.statusLabel.SetText(IconError + " " + t.localization.GetText(KeyTapToRetry))
		t.percentLabel.SetText("")
	case model.StageLoaded:
		t.statusLabel.Importance = widget.MediumImportance
		t.statusLabel.SetText(badge)
		t.percentLabel.SetText("")
	default:
		t.statusLabel.Importance = widget.MediumImportance
		t.statusLabel.SetText(badge)
		if t.revealStage.Percent > 0 && t.revealStage.Percent < 100 {
			t.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, t.revealStage.Percent))
		} else {
			t.percentLabel.SetText("")
		}
	}

	// Unsupported media keeps a neutral fill, never the identity color
	if t.descriptor.Kind == model.KindUnsupported {
		t.thumbnail.Image = NeutralPlaceholder(ThumbWidth, ThumbHeight)
	} else {
		t.thumbnail.Image = BlurImage(t.baseImage, t.revealStage.BlurRadius)
	}
	t.thumbnail.Refresh()
}

// tileHeight returns the tile's layout height
func (t *MediaTile) tileHeight() float32 {
	if t.IsGhost() {
		return GhostHeight
	}
	return TileHeight
}

// CreateRenderer creates the widget renderer
func (t *MediaTile) CreateRenderer() fyne.WidgetRenderer {
	return &mediaTileRenderer{tile: t}
}

// mediaTileRenderer renders the media tile widget
type mediaTileRenderer struct {
	tile   *MediaTile
	layout *fyne.Container
}

// Layout arranges the components
func (r *mediaTileRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *mediaTileRenderer) MinSize() fyne.Size {
	return fyne.NewSize(TileMinWidth, r.tile.tileHeight())
}

// Refresh refreshes the renderer
func (r *mediaTileRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *mediaTileRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *mediaTileRenderer) Destroy() {}

// createLayout creates the main layout
func (r *mediaTileRenderer) createLayout() {
	t := r.tile

	infoRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(t.percentLabel, t.statusLabel, t.moveUpBtn, t.moveDownBtn),
		t.titleLabel,
	)

	r.layout = container.NewBorder(nil, infoRow, nil, nil, t.thumbnail)
}
