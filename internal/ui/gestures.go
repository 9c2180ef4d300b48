package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
)

// GestureType represents different types of gestures in the viewer
type GestureType int

const (
	GestureTap GestureType = iota
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
	GestureLongPress
)

// Gesture thresholds constants
const (
	DefaultSwipeThreshold    float32 = 50.0
	DefaultLongPressDuration         = 500 * time.Millisecond
)

// GestureHandler classifies raw touch events into viewer gestures. The
// overlay maps swipes to navigation and long press to a transform reset.
type GestureHandler struct {
	onGesture func(GestureType)

	// Touch tracking
	touchStartTime time.Time
	touchStartPos  fyne.Position
	touchEndPos    fyne.Position

	// Gesture thresholds
	swipeThreshold    float32
	longPressDuration time.Duration
}

// NewGestureHandler creates a new gesture handler
func NewGestureHandler(onGesture func(GestureType)) *GestureHandler {
	return &GestureHandler{
		onGesture:         onGesture,
		swipeThreshold:    DefaultSwipeThreshold,
		longPressDuration: DefaultLongPressDuration,
	}
}

// TouchDown handles touch down events for gesture detection
func (gh *GestureHandler) TouchDown(event *mobile.TouchEvent) {
	gh.touchStartTime = time.Now()
	gh.touchStartPos = event.Position
}

// TouchUp handles touch up events for gesture detection
func (gh *GestureHandler) TouchUp(event *mobile.TouchEvent) {
	gh.touchEndPos = event.Position
	duration := time.Since(gh.touchStartTime)

	// Calculate movement distance
	dx := gh.touchEndPos.X - gh.touchStartPos.X
	dy := gh.touchEndPos.Y - gh.touchStartPos.Y
	distance := float32(dx*dx + dy*dy)

	// Detect gesture type
	if duration < gh.longPressDuration && distance < gh.swipeThreshold {
		gh.triggerGesture(GestureTap)
	} else if duration >= gh.longPressDuration && distance < gh.swipeThreshold {
		gh.triggerGesture(GestureLongPress)
	} else if distance >= gh.swipeThreshold {
		gh.detectSwipeDirection(dx, dy)
	}
}

// TouchCancel handles touch cancel events
func (gh *GestureHandler) TouchCancel(event *mobile.TouchEvent) {
	// Reset tracking
	gh.touchStartTime = time.Time{}
}

// detectSwipeDirection determines the direction of a swipe gesture
func (gh *GestureHandler) detectSwipeDirection(dx, dy float32) {
	absDx := dx
	if absDx < 0 {
		absDx = -absDx
	}
	absDy := dy
	if absDy < 0 {
		absDy = -absDy
	}

	// Determine primary direction
	if absDx > absDy {
		if dx > 0 {
			gh.triggerGesture(GestureSwipeRight)
		} else {
			gh.triggerGesture(GestureSwipeLeft)
		}
	} else {
		if dy > 0 {
			gh.triggerGesture(GestureSwipeDown)
		} else {
			gh.triggerGesture(GestureSwipeUp)
		}
	}
}

// triggerGesture triggers a gesture callback
func (gh *GestureHandler) triggerGesture(gesture GestureType) {
	if gh.onGesture != nil {
		gh.onGesture(gesture)
	}
}
