package viewer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
)

// Session is the state of one open full-screen viewer. It is created when
// the user opens a media item and torn down on close; nothing about zoom,
// pan, crop, or slideshow survives across sessions or across focus changes
// within a session.
type Session struct {
	mu         sync.Mutex
	collection *model.Collection
	focused    int
	generation string
	closed     bool
	maxZoom    float64

	transform Transform
	cropping  bool
	cropDrag  bool
	cropX1    float32
	cropY1    float32
	cropX2    float32
	cropY2    float32
	panDrag   bool

	// slideshow state, see slideshow.go
	ssActive     bool
	ssSpeedMs    int
	ssWaitVideo  bool
	ssTimerToken uint64

	onFocusChanged     func(index int, d *model.MediaDescriptor) // callback for UI updates
	onTransformChanged func(Transform)
	onSlideshowChanged func(active bool)
}

// NewSession opens a viewer focused on the given index of a collection
func NewSession(collection *model.Collection, index int) (*Session, error) {
	if collection == nil || collection.Len() == 0 {
		return nil, fmt.Errorf("viewer: empty collection")
	}
	if index < 0 || index >= collection.Len() {
		return nil, fmt.Errorf("viewer: index %d out of range (0..%d)", index, collection.Len()-1)
	}
	return &Session{
		collection: collection,
		focused:    index,
		generation: generateToken(),
		maxZoom:    MaxZoom,
		transform:  identityTransform(),
		ssSpeedMs:  DefaultSlideshowSpeedMs,
	}, nil
}

// SetMaxZoom overrides the zoom ceiling (from settings)
func (s *Session) SetMaxZoom(max float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max >= MinZoom {
		s.maxZoom = max
	}
}

// SetFocusCallback sets the callback fired when the focused item changes
func (s *Session) SetFocusCallback(callback func(index int, d *model.MediaDescriptor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFocusChanged = callback
}

// SetTransformCallback sets the callback fired when the transform changes
func (s *Session) SetTransformCallback(callback func(Transform)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTransformChanged = callback
}

// SetSlideshowCallback sets the callback fired when the slideshow toggles
func (s *Session) SetSlideshowCallback(callback func(active bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSlideshowChanged = callback
}

// Focused returns the currently focused descriptor and its index
func (s *Session) Focused() (*model.MediaDescriptor, int) {
	s.mu.Lock()
	index := s.focused
	s.mu.Unlock()
	d, _ := s.collection.At(index)
	return d, index
}

// Generation returns the identity token of the current focus. Async
// completions capture it and check IsStale before applying their result.
func (s *Session) Generation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// IsStale reports whether a captured generation token no longer matches the
// session, because the focus changed or the viewer closed.
func (s *Session) IsStale(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || token != s.generation
}

// IsClosed reports whether the session has been torn down
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Transform returns a snapshot of the current transform
func (s *Session) Transform() Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transform
}

// IsCropping reports whether crop mode is active
func (s *Session) IsCropping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cropping
}

// ZoomBy multiplies the zoom by factor, clamped to the configured range.
// Pan is rescaled by the zoom ratio so the visual center stays fixed. At
// minimum zoom the pan snaps back to the origin. Videos never zoom.
func (s *Session) ZoomBy(factor float64) {
	s.mu.Lock()
	if s.closed || factor <= 0 {
		s.mu.Unlock()
		return
	}
	d, _ := s.collection.At(s.focused)
	if d == nil || !d.Kind.Zoomable() || d.Locked {
		s.mu.Unlock()
		return
	}

	oldZoom := s.transform.Zoom
	newZoom := clampZoom(oldZoom*factor, s.maxZoom)
	if newZoom == oldZoom {
		s.mu.Unlock()
		return
	}

	s.transform.Zoom = newZoom
	if newZoom == MinZoom {
		s.transform.PanX = 0
		s.transform.PanY = 0
	} else {
		ratio := newZoom / oldZoom
		s.transform.PanX *= ratio
		s.transform.PanY *= ratio
	}

	callback := s.onTransformChanged
	snapshot := s.transform
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// BeginPanDrag marks the start of a pan drag gesture. Ignored in crop mode;
// a mouse-down there belongs to the crop handlers.
func (s *Session) BeginPanDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.cropping {
		return
	}
	s.panDrag = true
}

// EndPanDrag marks the end of a pan drag gesture
func (s *Session) EndPanDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panDrag = false
}

// PanBy offsets the view. Panning a non-zoomed item is a no-op so the image
// cannot be dragged off-center accidentally.
func (s *Session) PanBy(dx, dy float64) {
	s.mu.Lock()
	if s.closed || s.cropping || s.transform.Zoom <= MinZoom {
		s.mu.Unlock()
		return
	}
	s.transform.PanX += dx
	s.transform.PanY += dy

	callback := s.onTransformChanged
	snapshot := s.transform
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// SetCropMode enters or leaves crop mode. Crop and pan are mutually
// exclusive: entering crop clears any in-progress pan drag, leaving it
// discards an uncommitted drag rectangle. Video cannot be cropped.
func (s *Session) SetCropMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if enabled {
		d, _ := s.collection.At(s.focused)
		if d == nil || !d.Kind.Zoomable() || d.Locked {
			return
		}
		s.panDrag = false
	}
	s.cropping = enabled
	s.cropDrag = false
}

// BeginCrop starts tracking a crop rectangle from the given element-local
// point. No-op outside crop mode.
func (s *Session) BeginCrop(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.cropping {
		return
	}
	s.cropDrag = true
	s.cropX1, s.cropY1 = x, y
	s.cropX2, s.cropY2 = x, y
}

// UpdateCrop extends the in-progress crop rectangle to the given point
func (s *Session) UpdateCrop(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.cropDrag {
		return
	}
	s.cropX2, s.cropY2 = x, y
}

// EndCrop finishes the crop drag. The rectangle is committed only when both
// its width and height are non-zero; degenerate drags are discarded.
func (s *Session) EndCrop() (CropRect, bool) {
	s.mu.Lock()
	if s.closed || !s.cropDrag {
		s.mu.Unlock()
		return CropRect{}, false
	}
	s.cropDrag = false

	rect := normalizeRect(s.cropX1, s.cropY1, s.cropX2, s.cropY2)
	if rect.Width == 0 || rect.Height == 0 {
		s.mu.Unlock()
		return CropRect{}, false
	}

	s.transform.Crop = &rect
	callback := s.onTransformChanged
	snapshot := s.transform
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
	return rect, true
}

// ResetTransform returns zoom, pan, crop, and crop mode to defaults
func (s *Session) ResetTransform() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.resetTransformLocked()
	callback := s.onTransformChanged
	snapshot := s.transform
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// Next advances to the following item, wrapping past the end
func (s *Session) Next() {
	s.navigate(1)
}

// Prev moves to the preceding item, wrapping before the start
func (s *Session) Prev() {
	s.navigate(-1)
}

// Close tears the session down: the slideshow and any in-flight crop gesture
// are cancelled and every later operation or stale completion is a no-op.
// In-flight thumbnail fetches are deliberately left alone; they complete and
// warm the cache regardless.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cropDrag = false
	s.cropping = false
	s.panDrag = false
	s.generation = generateToken()
	wasActive := s.ssActive
	s.stopSlideshowLocked()
	callback := s.onSlideshowChanged
	s.mu.Unlock()

	if wasActive && callback != nil {
		callback(false)
	}
}

// navigate moves the focus by delta with modulo wrap
func (s *Session) navigate(delta int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	n := s.collection.Len()
	if n == 0 {
		s.mu.Unlock()
		return
	}
	next := ((s.focused+delta)%n + n) % n
	notify := s.focusLocked(next)
	s.mu.Unlock()
	notify()
}

// focusLocked switches focus to index: new generation token, transform and
// crop reset, slideshow dwell restarted for the new item. Returns a closure
// that fires callbacks outside the lock. Caller holds the lock.
func (s *Session) focusLocked(index int) func() {
	s.focused = index
	s.generation = generateToken()
	s.resetTransformLocked()

	if s.ssActive {
		// Manual navigation does not stop the slideshow, only restarts
		// the dwell for the new item.
		s.scheduleDwellLocked()
	}

	focusCallback := s.onFocusChanged
	transformCallback := s.onTransformChanged
	snapshot := s.transform
	d, _ := s.collection.At(index)

	return func() {
		if focusCallback != nil {
			focusCallback(index, d)
		}
		if transformCallback != nil {
			transformCallback(snapshot)
		}
	}
}

// resetTransformLocked resets gesture state. Caller holds the lock.
func (s *Session) resetTransformLocked() {
	s.transform = identityTransform()
	s.cropping = false
	s.cropDrag = false
	s.panDrag = false
}

// generateToken generates a unique generation token using UUID v7 for better
// uniqueness and time ordering
func generateToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf("gen-%d", time.Now().UnixNano())
	}
	return id.String()
}
