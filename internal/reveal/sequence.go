package reveal

import (
	"sync"
	"time"
)

// DefaultInterval is the tick spacing of the synthetic ramp
const DefaultInterval = 180 * time.Millisecond

// Stage is one step of the quality ramp shown while an asset loads
type Stage struct {
	Percent    int     // 0 to 100
	BlurRadius float32 // display blur in px, 0 at full quality
}

// Stages is the fixed ramp. Percent rises, blur falls; the final stage is
// always full quality with no blur.
var Stages = []Stage{
	{Percent: 10, BlurRadius: 16},
	{Percent: 25, BlurRadius: 12},
	{Percent: 50, BlurRadius: 8},
	{Percent: 75, BlurRadius: 4},
	{Percent: 90, BlurRadius: 2},
	{Percent: 100, BlurRadius: 0},
}

// FinalStage is the terminal full-quality stage
func FinalStage() Stage {
	return Stages[len(Stages)-1]
}

// Sequence is a single reveal attempt for one descriptor. It is single-use:
// once finished or stopped it never emits again, and a retry creates a new
// Sequence.
type Sequence struct {
	mu           sync.Mutex
	descriptorID string
	index        int
	done         bool
	ticker       *time.Ticker
	quit         chan struct{}
	onStage      func(Stage) // callback for UI updates
}

// Start begins a synthetic reveal for the given descriptor, emitting stages
// on the given interval until the ramp completes or Finish/Stop is called.
func Start(descriptorID string, interval time.Duration, onStage func(Stage)) *Sequence {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Sequence{
		descriptorID: descriptorID,
		ticker:       time.NewTicker(interval),
		quit:         make(chan struct{}),
		onStage:      onStage,
	}
	go s.run()
	return s
}

// DescriptorID returns the descriptor this sequence reveals
func (s *Sequence) DescriptorID() string {
	return s.descriptorID
}

// IsDone returns true once the sequence has terminated
func (s *Sequence) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Finish terminates the ramp because the real asset finished loading.
// The final stage is emitted immediately and any in-flight synthetic tick
// is suppressed by the done guard, even if the real load beat the first
// tick. Safe to call more than once.
func (s *Sequence) Finish() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.finishLocked()
	callback := s.onStage
	s.mu.Unlock()

	if callback != nil {
		callback(FinalStage())
	}
}

// Stop abandons the sequence without emitting anything further. Used when
// the element unmounts mid-reveal.
func (s *Sequence) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.finishLocked()
}

// run drives the synthetic ticks
func (s *Sequence) run() {
	for {
		select {
		case <-s.ticker.C:
			if !s.tick() {
				return
			}
		case <-s.quit:
			return
		}
	}
}

// tick emits the next stage. Returns false once the ramp is exhausted.
func (s *Sequence) tick() bool {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return false
	}

	stage := Stages[s.index]
	s.index++
	last := s.index >= len(Stages)
	if last {
		s.finishLocked()
	}
	callback := s.onStage
	s.mu.Unlock()

	if callback != nil {
		callback(stage)
	}
	return !last
}

// finishLocked marks the sequence done and releases the timer resources.
// Caller holds the lock.
func (s *Sequence) finishLocked() {
	s.done = true
	s.ticker.Stop()
	close(s.quit)
}
