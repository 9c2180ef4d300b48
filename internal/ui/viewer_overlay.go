package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewer"
)

// Zoom step applied per button press or keyboard zoom
const zoomStep = 1.25

// ViewerOverlay is the full-screen detail view over the gallery. It renders
// the focused media with the session's transform applied and hosts the
// slideshow, crop and navigation controls.
type ViewerOverlay struct {
	session      *viewer.Session
	localization *Localization

	content *fyne.Container

	// Image surface
	image       *canvas.Image
	imageHolder *fyne.Container
	surface     *viewerSurface

	// Chrome
	titleLabel   *widget.Label
	counterLabel *widget.Label
	slideshowBtn *widget.Button
	speedSlider  *widget.Slider
	cropBtn      *widget.Button
	videoDoneBtn *widget.Button
	itemCount    int

	// Drag state
	dragging  bool
	lastDragX float32
	lastDragY float32

	onClose func()
}

// NewViewerOverlay creates the overlay for an open viewer session
func NewViewerOverlay(session *viewer.Session, itemCount int, localization *Localization, onClose func()) *ViewerOverlay {
	ov := &ViewerOverlay{
		session:      session,
		localization: localization,
		itemCount:    itemCount,
		onClose:      onClose,
	}

	ov.createUI()

	session.SetFocusCallback(ov.onFocusChanged)
	session.SetTransformCallback(ov.onTransformChanged)
	session.SetSlideshowCallback(ov.onSlideshowChanged)

	// Render the initial focus
	if focused, index := session.Focused(); focused != nil {
		ov.onFocusChanged(index, focused)
	}
	return ov
}

// Container returns the overlay's root canvas object
func (ov *ViewerOverlay) Container() fyne.CanvasObject {
	return ov.content
}

// Close tears the session down and removes the overlay
func (ov *ViewerOverlay) Close() {
	ov.session.Close()
	if ov.onClose != nil {
		ov.onClose()
	}
}

// HandleKey routes keyboard input while the overlay is open
func (ov *ViewerOverlay) HandleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeyLeft:
		ov.session.Prev()
	case fyne.KeyRight:
		ov.session.Next()
	case fyne.KeySpace:
		ov.session.ToggleSlideshow()
	case fyne.KeyEscape:
		ov.Close()
	case fyne.KeyPlus, fyne.KeyEqual:
		ov.session.ZoomBy(zoomStep)
	case fyne.KeyMinus:
		ov.session.ZoomBy(1 / zoomStep)
	case fyne.KeyC:
		ov.session.SetCropMode(!ov.session.IsCropping())
	case fyne.KeyR, fyne.Key0:
		ov.session.ResetTransform()
	}
}

// createUI creates the overlay layout
func (ov *ViewerOverlay) createUI() {
	ov.image = canvas.NewImageFromImage(NeutralPlaceholder(ViewerImageW, ViewerImageH))
	ov.image.FillMode = canvas.ImageFillContain
	ov.imageHolder = container.NewWithoutLayout(ov.image)
	ov.surface = newViewerSurface(ov, ov.imageHolder)

	ov.titleLabel = widget.NewLabel("")
	ov.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ov.titleLabel.Truncation = fyne.TextTruncateEllipsis

	ov.counterLabel = widget.NewLabel("")
	ov.counterLabel.TextStyle = fyne.TextStyle{Monospace: true}

	closeBtn := widget.NewButton(IconClose, ov.Close)
	closeBtn.Importance = widget.LowImportance

	prevBtn := widget.NewButton("◀", ov.session.Prev)
	nextBtn := widget.NewButton("▶", ov.session.Next)

	zoomInBtn := widget.NewButton(IconZoomIn, func() { ov.session.ZoomBy(zoomStep) })
	zoomOutBtn := widget.NewButton(IconZoomOut, func() { ov.session.ZoomBy(1 / zoomStep) })
	resetBtn := widget.NewButton(ov.localization.GetText(KeyResetView), ov.session.ResetTransform)

	ov.cropBtn = widget.NewButton(IconCrop+" "+ov.localization.GetText(KeyCrop), func() {
		ov.session.SetCropMode(!ov.session.IsCropping())
	})

	ov.slideshowBtn = widget.NewButton(IconSlideshow+" "+ov.localization.GetText(KeySlideshow), ov.session.ToggleSlideshow)

	// The slider runs over the log-scale positions, not raw milliseconds
	ov.speedSlider = widget.NewSlider(0, 100)
	ov.speedSlider.Step = 1
	ov.speedSlider.Value = float64(viewer.SliderForSpeed(ov.session.SlideshowSpeedMs()))
	ov.speedSlider.OnChanged = func(position float64) {
		ov.session.SetSlideshowSpeed(viewer.SpeedForSlider(int(position)))
	}

	// Stand-in for the player's end-of-stream event
	ov.videoDoneBtn = widget.NewButton(ov.localization.GetText(KeyVideoFinished), ov.session.VideoEnded)
	ov.videoDoneBtn.Hide()

	topBar := container.NewBorder(nil, nil, ov.counterLabel, closeBtn, ov.titleLabel)
	controls := container.NewHBox(
		prevBtn, nextBtn,
		zoomOutBtn, zoomInBtn,
		ov.cropBtn, resetBtn,
		ov.slideshowBtn,
		ov.videoDoneBtn,
	)
	bottomBar := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel(ov.localization.GetText(KeySlideshowSpeed)), nil, ov.speedSlider),
		container.NewCenter(controls),
	)

	ov.content = container.NewBorder(topBar, bottomBar, nil, nil, ov.surface)
}

// onFocusChanged re-renders the overlay for a newly focused item
func (ov *ViewerOverlay) onFocusChanged(index int, descriptor *model.MediaDescriptor) {
	log.Printf("Viewer focus changed: index=%d id=%s kind=%s", index, descriptor.ID, descriptor.Kind)

	ov.titleLabel.SetText(descriptor.GetDisplayTitle())
	ov.counterLabel.SetText(fmt.Sprintf("%d/%d", index+1, ov.itemCount))

	if descriptor.Kind == model.KindUnsupported {
		ov.image.Image = NeutralPlaceholder(ViewerImageW, ViewerImageH)
	} else {
		ov.image.Image = PlaceholderImage(descriptor.ID, ViewerImageW, ViewerImageH)
	}
	ov.image.Refresh()

	if descriptor.Kind == model.KindVideo {
		ov.videoDoneBtn.Show()
	} else {
		ov.videoDoneBtn.Hide()
	}

	ov.onTransformChanged(ov.session.Transform())
}

// onTransformChanged applies zoom and pan to the image surface
func (ov *ViewerOverlay) onTransformChanged(tf viewer.Transform) {
	area := ov.surface.Size()
	if area.Width <= 0 || area.Height <= 0 {
		area = fyne.NewSize(ViewerMinSize, ViewerMinSize)
	}

	width := area.Width * float32(tf.Zoom)
	height := area.Height * float32(tf.Zoom)
	ov.image.Resize(fyne.NewSize(width, height))
	ov.image.Move(fyne.NewPos(
		(area.Width-width)/2+float32(tf.PanX),
		(area.Height-height)/2+float32(tf.PanY),
	))
	ov.imageHolder.Refresh()
}

// onSlideshowChanged updates the slideshow toggle state
func (ov *ViewerOverlay) onSlideshowChanged(active bool) {
	if active {
		ov.slideshowBtn.SetText(IconPause + " " + ov.localization.GetText(KeySlideshow))
	} else {
		ov.slideshowBtn.SetText(IconSlideshow + " " + ov.localization.GetText(KeySlideshow))
	}
}

// handleGesture maps viewer surface gestures to session operations
func (ov *ViewerOverlay) handleGesture(gesture GestureType) {
	switch gesture {
	case GestureSwipeLeft:
		ov.session.Next()
	case GestureSwipeRight:
		ov.session.Prev()
	case GestureSwipeDown:
		ov.Close()
	case GestureLongPress:
		ov.session.ResetTransform()
	}
}

// viewerSurface is the interactive image area. Drags pan the zoomed image or
// sketch a crop region; touch swipes navigate.
type viewerSurface struct {
	widget.BaseWidget

	overlay        *ViewerOverlay
	content        fyne.CanvasObject
	gestureHandler *GestureHandler
}

func newViewerSurface(overlay *ViewerOverlay, content fyne.CanvasObject) *viewerSurface {
	s := &viewerSurface{
		overlay: overlay,
		content: content,
	}
	s.gestureHandler = NewGestureHandler(overlay.handleGesture)
	s.ExtendBaseWidget(s)
	return s
}

// Dragged pans the image, or extends the crop selection in crop mode
func (s *viewerSurface) Dragged(event *fyne.DragEvent) {
	ov := s.overlay
	if ov.session.IsCropping() {
		if !ov.dragging {
			ov.dragging = true
			ov.session.BeginCrop(event.Position.X, event.Position.Y)
		} else {
			ov.session.UpdateCrop(event.Position.X, event.Position.Y)
		}
		return
	}

	if !ov.dragging {
		ov.dragging = true
		ov.session.BeginPanDrag()
	}
	ov.session.PanBy(float64(event.Dragged.DX), float64(event.Dragged.DY))
}

// DragEnd commits the crop or ends the pan
func (s *viewerSurface) DragEnd() {
	ov := s.overlay
	if !ov.dragging {
		return
	}
	ov.dragging = false

	if ov.session.IsCropping() {
		if rect, ok := ov.session.EndCrop(); ok {
			log.Printf("Crop committed: x=%.0f y=%.0f w=%.0f h=%.0f", rect.X, rect.Y, rect.Width, rect.Height)
		}
		return
	}
	ov.session.EndPanDrag()
}

// TouchDown handles touch down events
func (s *viewerSurface) TouchDown(event *mobile.TouchEvent) {
	s.gestureHandler.TouchDown(event)
}

// TouchUp handles touch up events
func (s *viewerSurface) TouchUp(event *mobile.TouchEvent) {
	s.gestureHandler.TouchUp(event)
}

// TouchCancel handles touch cancel events
func (s *viewerSurface) TouchCancel(event *mobile.TouchEvent) {
	s.gestureHandler.TouchCancel(event)
}

// CreateRenderer creates the widget renderer
func (s *viewerSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}
