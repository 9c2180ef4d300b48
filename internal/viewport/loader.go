package viewport

import (
	"fmt"
	"sync"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
)

// Default tuning for the near-viewport activation band
const (
	DefaultMargin    float32 = 80.0
	DefaultThreshold float32 = 0.1
)

// Bounds describes an element's vertical extent in content coordinates.
// The gallery scrolls vertically, so one axis is enough to schedule loads.
type Bounds struct {
	Top    float32
	Height float32
}

// Subscription represents one registered element. It becomes inert after the
// element's visibility event has fired or after Unregister.
type Subscription struct {
	id           uint64
	descriptorID string
	bounds       Bounds
}

// DescriptorID returns the descriptor this subscription observes
func (s *Subscription) DescriptorID() string {
	return s.descriptorID
}

// State is the per-descriptor viewport state snapshot
type State struct {
	Visible bool
	Stage   model.LoadStage
}

// Loader schedules media loads based on element visibility. All elements in
// a gallery share one Loader rather than observing individually, which keeps
// resource usage flat as collections grow.
type Loader struct {
	mu        sync.Mutex
	margin    float32
	threshold float32
	eager     bool

	nextSubID uint64
	subs      map[uint64]*Subscription
	states    map[string]*State

	viewTop     float32
	viewHeight  float32
	hasViewport bool

	onVisible func(descriptorID string) // callback for UI updates
}

// NewLoader creates a visibility-driven loader. Margin expands the viewport
// band; threshold is the fraction of an element that must intersect it.
func NewLoader(margin, threshold float32) *Loader {
	if margin < 0 {
		margin = DefaultMargin
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Loader{
		margin:    margin,
		threshold: threshold,
		subs:      make(map[uint64]*Subscription),
		states:    make(map[string]*State),
	}
}

// NewEagerLoader creates a loader for platforms without visibility
// information. Every registered element is visible immediately; correctness
// over laziness.
func NewEagerLoader() *Loader {
	l := NewLoader(DefaultMargin, DefaultThreshold)
	l.eager = true
	return l
}

// SetVisibleCallback sets the callback fired when a descriptor first becomes
// visible. Fired at most once per registration.
func (l *Loader) SetVisibleCallback(callback func(descriptorID string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onVisible = callback
}

// Register starts observing an element. If the descriptor has already been
// resolved visible in this mount, the subscription is inert and no second
// event fires. In eager mode the element resolves immediately.
func (l *Loader) Register(descriptorID string, bounds Bounds) *Subscription {
	return l.register(descriptorID, bounds, true)
}

// RegisterDeferred observes an element without the immediate evaluation;
// it is only considered from the next viewport update. Used to re-arm ghost
// slots after a failed page fetch, so a stalled source is retried on scroll
// instead of in a tight loop.
func (l *Loader) RegisterDeferred(descriptorID string, bounds Bounds) *Subscription {
	return l.register(descriptorID, bounds, false)
}

func (l *Loader) register(descriptorID string, bounds Bounds, evaluate bool) *Subscription {
	l.mu.Lock()

	state, exists := l.states[descriptorID]
	if !exists {
		state = &State{Stage: model.StageNotRequested}
		l.states[descriptorID] = state
	}

	l.nextSubID++
	sub := &Subscription{
		id:           l.nextSubID,
		descriptorID: descriptorID,
		bounds:       bounds,
	}

	if state.Visible {
		// Already resolved; re-entering the viewport never re-triggers.
		l.mu.Unlock()
		return sub
	}

	l.subs[sub.id] = sub

	var fired []string
	if l.eager || (evaluate && l.hasViewport && l.intersects(bounds)) {
		fired = l.resolveLocked(sub)
	}
	callback := l.onVisible
	l.mu.Unlock()

	l.fire(callback, fired)
	return sub
}

// Unregister stops observing an element (unmount). The descriptor's state is
// dropped so a later remount starts a fresh activation cycle.
func (l *Loader) Unregister(sub *Subscription) {
	if sub == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs, sub.id)
	delete(l.states, sub.descriptorID)
}

// UpdateBounds moves an element (layout change) and re-evaluates it
func (l *Loader) UpdateBounds(sub *Subscription, bounds Bounds) {
	if sub == nil {
		return
	}
	l.mu.Lock()
	sub.bounds = bounds
	var fired []string
	if tracked, exists := l.subs[sub.id]; exists {
		tracked.bounds = bounds
		if l.hasViewport && l.intersects(bounds) {
			fired = l.resolveLocked(tracked)
		}
	}
	callback := l.onVisible
	l.mu.Unlock()

	l.fire(callback, fired)
}

// SetViewport updates the visible scroll window and re-evaluates all pending
// elements. Called from the gallery's scroll handler.
func (l *Loader) SetViewport(top, height float32) {
	l.mu.Lock()
	l.viewTop = top
	l.viewHeight = height
	l.hasViewport = true

	var fired []string
	for _, sub := range l.subs {
		if l.intersects(sub.bounds) {
			fired = append(fired, l.resolveLocked(sub)...)
		}
	}
	callback := l.onVisible
	l.mu.Unlock()

	l.fire(callback, fired)
}

// State returns a snapshot of a descriptor's viewport state
func (l *Loader) State(descriptorID string) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if state, exists := l.states[descriptorID]; exists {
		return *state
	}
	return State{Stage: model.StageNotRequested}
}

// Transition moves a descriptor's load stage forward, enforcing the
// monotonic stage order. Failed -> Requested is the only backward move.
func (l *Loader) Transition(descriptorID string, next model.LoadStage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, exists := l.states[descriptorID]
	if !exists {
		return fmt.Errorf("viewport: unknown descriptor %s", descriptorID)
	}
	if !state.Stage.CanTransition(next) {
		return fmt.Errorf("viewport: illegal stage transition %s -> %s for %s",
			state.Stage, next, descriptorID)
	}
	state.Stage = next
	return nil
}

// Retry returns a failed descriptor to Requested for a new load attempt
func (l *Loader) Retry(descriptorID string) error {
	return l.Transition(descriptorID, model.StageRequested)
}

// intersects reports whether the element overlaps the margin-expanded
// viewport by at least the configured threshold. Caller holds the lock.
func (l *Loader) intersects(b Bounds) bool {
	bandTop := l.viewTop - l.margin
	bandBottom := l.viewTop + l.viewHeight + l.margin

	top := b.Top
	bottom := b.Top + b.Height
	if b.Height <= 0 {
		return top >= bandTop && top <= bandBottom
	}

	overlapTop := top
	if bandTop > overlapTop {
		overlapTop = bandTop
	}
	overlapBottom := bottom
	if bandBottom < overlapBottom {
		overlapBottom = bandBottom
	}
	if overlapBottom <= overlapTop {
		return false
	}
	return (overlapBottom-overlapTop)/b.Height >= l.threshold
}

// resolveLocked marks a subscription's descriptor visible and retires the
// subscription. Returns the descriptor id to notify, or nothing if the
// descriptor was already resolved. Caller holds the lock.
func (l *Loader) resolveLocked(sub *Subscription) []string {
	delete(l.subs, sub.id)
	state := l.states[sub.descriptorID]
	if state == nil || state.Visible {
		return nil
	}
	state.Visible = true
	return []string{sub.descriptorID}
}

// fire invokes the visibility callback outside the lock
func (l *Loader) fire(callback func(string), ids []string) {
	if callback == nil {
		return
	}
	for _, id := range ids {
		callback(id)
	}
}
