package timeline

import (
	"context"
	"math"
	"sync"
	"time"
)

// SentinelYear is the cursor value reported before any steps are loaded. It
// sits outside the range of plausible calendar years.
const SentinelYear = math.MinInt32

// State names the playback engine's position in its lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StatePaused  State = "paused"
	StatePlaying State = "playing"
)

// Speed selects the wall-clock tick cadence.
type Speed string

const (
	SpeedNormal Speed = "normal"
	SpeedSlow   Speed = "slow"
)

const (
	defaultNormalInterval = 2 * time.Second
	defaultSlowInterval   = 4 * time.Second
)

// Intervals maps speeds to tick intervals. Slow must be strictly longer
// than Normal; the exact ratio is a UX parameter, not a correctness one.
type Intervals struct {
	Normal time.Duration
	Slow   time.Duration
}

func (i Intervals) normalized() Intervals {
	if i.Normal <= 0 {
		i.Normal = defaultNormalInterval
	}
	if i.Slow <= i.Normal {
		i.Slow = 2 * i.Normal
	}
	return i
}

// Snapshot is a consistent view of playback state for read-only consumers.
type Snapshot struct {
	State   State
	Index   int
	Year    int
	Playing bool
	Speed   Speed
	Steps   []int
}

// Engine advances a year cursor through a sorted step sequence on a fixed
// cadence. All transitions are serialized through one mutex; the timer
// goroutine holds a generation token captured at schedule time so that a
// tick racing a pause, seek, or reload is dropped instead of mutating
// replaced state.
type Engine struct {
	mu        sync.Mutex
	steps     []int
	index     int
	playing   bool
	speed     Speed
	gen       uint64
	cancel    context.CancelFunc
	intervals Intervals
}

// Option customizes engine construction.
type Option func(*Engine)

// WithIntervals overrides the tick intervals (tests use very short ones).
func WithIntervals(intervals Intervals) Option {
	return func(e *Engine) {
		e.intervals = intervals
	}
}

// NewEngine constructs an idle playback engine.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{speed: SpeedNormal}
	for _, opt := range opts {
		opt(engine)
	}
	engine.intervals = engine.intervals.normalized()
	return engine
}

// Load replaces the step sequence. Non-empty steps start playback from the
// first step immediately (autoplay on load); empty steps leave the engine
// idle. Any pending tick from the previous sequence is invalidated before
// the new one becomes visible.
func (e *Engine) Load(steps []int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
	if len(steps) == 0 {
		e.steps = nil
		e.index = 0
		e.playing = false
		return
	}
	e.steps = append([]int(nil), steps...)
	e.index = 0
	e.playing = true
	e.scheduleLocked()
}

// Unload discards the step sequence and returns the engine to idle.
func (e *Engine) Unload() {
	e.Load(nil)
}

// TogglePlay flips between playing and paused. Resuming from the terminal
// step rewinds to the first step (replay-from-start). A toggle with no
// steps loaded is a no-op.
func (e *Engine) TogglePlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.steps) == 0 {
		return
	}
	e.invalidateLocked()
	if e.playing {
		e.playing = false
		return
	}
	if e.index >= len(e.steps)-1 {
		e.index = 0
	}
	e.playing = true
	e.scheduleLocked()
}

// Seek jumps the cursor to the given step index and always pauses playback;
// a manual jump cancels autoplay. Out-of-range indexes leave the engine
// unchanged.
func (e *Engine) Seek(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.steps) {
		return
	}
	e.invalidateLocked()
	e.index = index
	e.playing = false
}

// SeekYear positions the cursor at the step holding the given year, pausing
// playback. Years not in the step domain are ignored.
func (e *Engine) SeekYear(year int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, step := range e.steps {
		if step == year {
			e.invalidateLocked()
			e.index = i
			e.playing = false
			return
		}
	}
}

// Step moves the cursor by delta, clamped to the step bounds. Play/pause
// status is left alone.
func (e *Engine) Step(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.steps) == 0 {
		return
	}
	next := e.index + delta
	if next < 0 {
		next = 0
	}
	if last := len(e.steps) - 1; next > last {
		next = last
	}
	e.index = next
}

// Reset rewinds to the first step and pauses. With no steps loaded the
// engine stays idle.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
	e.index = 0
	e.playing = false
}

// SetSpeed changes the tick cadence. An active timer is rescheduled so the
// new interval takes effect immediately.
func (e *Engine) SetSpeed(speed Speed) {
	if speed != SpeedNormal && speed != SpeedSlow {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.speed == speed {
		return
	}
	e.speed = speed
	if e.playing {
		e.invalidateLocked()
		e.scheduleLocked()
	}
}

// Snapshot returns a consistent copy of the playback state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		Index:   e.index,
		Playing: e.playing,
		Speed:   e.speed,
		Steps:   append([]int(nil), e.steps...),
	}
	switch {
	case len(e.steps) == 0:
		snap.State = StateIdle
		snap.Index = -1
		snap.Year = SentinelYear
	case e.playing:
		snap.State = StatePlaying
		snap.Year = e.steps[e.index]
	default:
		snap.State = StatePaused
		snap.Year = e.steps[e.index]
	}
	return snap
}

// CurrentYear returns the cursor year, or SentinelYear when idle.
func (e *Engine) CurrentYear() int {
	return e.Snapshot().Year
}

// Close tears down any active timer. The engine is reusable afterwards but
// callers treat Close as final.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
	e.playing = false
}

// advance applies one tick scheduled under the given generation. Returns
// false when the timer goroutine should stop, either because the tick is
// stale or because playback reached the terminal step.
func (e *Engine) advance(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || !e.playing || len(e.steps) == 0 {
		return false
	}
	last := len(e.steps) - 1
	if e.index >= last {
		// Erroneously delivered tick at the terminal step: stop quietly.
		e.playing = false
		e.cancelLocked()
		return false
	}
	e.index++
	if e.index == last {
		e.playing = false
		e.cancelLocked()
		return false
	}
	return true
}

// invalidateLocked bumps the generation and cancels the active timer so no
// pending tick can apply against the state about to be written.
func (e *Engine) invalidateLocked() {
	e.gen++
	e.cancelLocked()
}

func (e *Engine) cancelLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) scheduleLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	gen := e.gen
	interval := e.intervalLocked()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !e.advance(gen) {
					return
				}
			}
		}
	}()
}

func (e *Engine) intervalLocked() time.Duration {
	if e.speed == SpeedSlow {
		return e.intervals.Slow
	}
	return e.intervals.Normal
}
