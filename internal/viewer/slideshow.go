package viewer

import (
	"math"
	"time"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
)

// Slideshow speed bounds in milliseconds. The speed slider maps onto this
// range logarithmically so the low end stays finely adjustable.
const (
	MinSlideshowSpeedMs     = 3000
	MaxSlideshowSpeedMs     = 60000
	DefaultSlideshowSpeedMs = 3000
)

// SpeedForSlider converts a slider position in [0,100] to a dwell time in
// milliseconds on a logarithmic scale.
func SpeedForSlider(position int) int {
	if position <= 0 {
		return MinSlideshowSpeedMs
	}
	if position >= 100 {
		return MaxSlideshowSpeedMs
	}
	lnMin := math.Log(MinSlideshowSpeedMs)
	lnMax := math.Log(MaxSlideshowSpeedMs)
	return int(math.Round(math.Exp(lnMin + float64(position)/100*(lnMax-lnMin))))
}

// SliderForSpeed converts a dwell time back to its slider position
func SliderForSpeed(speedMs int) int {
	if speedMs <= MinSlideshowSpeedMs {
		return 0
	}
	if speedMs >= MaxSlideshowSpeedMs {
		return 100
	}
	lnMin := math.Log(MinSlideshowSpeedMs)
	lnMax := math.Log(MaxSlideshowSpeedMs)
	return int(math.Round((math.Log(float64(speedMs)) - lnMin) / (lnMax - lnMin) * 100))
}

// SlideshowActive reports whether the slideshow is running
func (s *Session) SlideshowActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ssActive
}

// SlideshowSpeedMs returns the configured dwell time for image items
func (s *Session) SlideshowSpeedMs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ssSpeedMs
}

// ToggleSlideshow flips the slideshow between Idle and Active. Leaving
// Active cancels any pending dwell timer or video-end wait immediately.
func (s *Session) ToggleSlideshow() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.ssActive {
		s.stopSlideshowLocked()
	} else {
		s.ssActive = true
		s.scheduleDwellLocked()
	}
	active := s.ssActive
	callback := s.onSlideshowChanged
	s.mu.Unlock()

	if callback != nil {
		callback(active)
	}
}

// SetSlideshowSpeed sets the image dwell time, clamped to the allowed range.
// A dwell currently counting down is restarted at the new speed.
func (s *Session) SetSlideshowSpeed(speedMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if speedMs < MinSlideshowSpeedMs {
		speedMs = MinSlideshowSpeedMs
	}
	if speedMs > MaxSlideshowSpeedMs {
		speedMs = MaxSlideshowSpeedMs
	}
	s.ssSpeedMs = speedMs
	if s.ssActive && !s.ssWaitVideo {
		s.scheduleDwellLocked()
	}
}

// VideoEnded reports that the focused video finished playing. While the
// slideshow waits on a video, playback duration governs the dwell, so this
// is the only event that advances past a video item.
func (s *Session) VideoEnded() {
	s.mu.Lock()
	if s.closed || !s.ssActive || !s.ssWaitVideo {
		s.mu.Unlock()
		return
	}
	s.ssWaitVideo = false
	notify := s.advanceLocked()
	s.mu.Unlock()
	notify()
}

// scheduleDwellLocked arms the dwell for the focused item: a timer for
// images, a video-end wait for videos. Any previously armed dwell is
// invalidated by bumping the timer token. Caller holds the lock.
func (s *Session) scheduleDwellLocked() {
	s.ssTimerToken++
	s.ssWaitVideo = false

	d, _ := s.collection.At(s.focused)
	if d != nil && d.Kind == model.KindVideo {
		s.ssWaitVideo = true
		return
	}

	token := s.ssTimerToken
	duration := time.Duration(s.ssSpeedMs) * time.Millisecond
	time.AfterFunc(duration, func() {
		s.dwellExpired(token)
	})
}

// dwellExpired fires when an image dwell timer elapses. The token check
// drops timers that were superseded by navigation, speed changes, toggling,
// or teardown.
func (s *Session) dwellExpired(token uint64) {
	s.mu.Lock()
	if s.closed || !s.ssActive || s.ssWaitVideo || token != s.ssTimerToken {
		s.mu.Unlock()
		return
	}
	notify := s.advanceLocked()
	s.mu.Unlock()
	notify()
}

// advanceLocked moves to the next item with modulo wrap. Caller holds the
// lock; the returned closure fires callbacks outside it.
func (s *Session) advanceLocked() func() {
	n := s.collection.Len()
	if n == 0 {
		return func() {}
	}
	return s.focusLocked((s.focused + 1) % n)
}

// stopSlideshowLocked leaves Active and cancels pending dwell. Caller holds
// the lock.
func (s *Session) stopSlideshowLocked() {
	s.ssActive = false
	s.ssWaitVideo = false
	s.ssTimerToken++
}
