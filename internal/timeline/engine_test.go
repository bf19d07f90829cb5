package timeline

import (
	"testing"
	"time"
)

func testEngine() *Engine {
	return NewEngine(WithIntervals(Intervals{Normal: 10 * time.Millisecond, Slow: 20 * time.Millisecond}))
}

func waitFor(t *testing.T, deadline time.Duration, cond func(Snapshot) bool, e *Engine) Snapshot {
	t.Helper()
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		snap := e.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	snap := e.Snapshot()
	t.Fatalf("condition not reached before deadline; state=%s index=%d playing=%v", snap.State, snap.Index, snap.Playing)
	return snap
}

func TestLoadAutoplaysFromFirstStep(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{-3000, 100, 1200, 2024})
	snap := e.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("state = %s, want playing", snap.State)
	}
	if snap.Index != 0 || snap.Year != -3000 {
		t.Errorf("cursor = %d/%d, want 0/-3000", snap.Index, snap.Year)
	}
}

func TestPlaybackTerminatesAtLastStep(t *testing.T) {
	e := testEngine()
	defer e.Close()

	steps := []int{-3000, 100, 1200, 2024}
	e.Load(steps)

	snap := waitFor(t, 2*time.Second, func(s Snapshot) bool {
		return s.State == StatePaused && s.Index == len(steps)-1
	}, e)
	if snap.Year != 2024 {
		t.Errorf("terminal year = %d, want 2024", snap.Year)
	}

	// No further motion once paused at the end.
	time.Sleep(50 * time.Millisecond)
	after := e.Snapshot()
	if after.Index != len(steps)-1 || after.Playing {
		t.Errorf("engine moved after terminal pause: %+v", after)
	}
}

func TestTogglePlayReplaysFromStartAtEnd(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2, 3})
	waitFor(t, 2*time.Second, func(s Snapshot) bool {
		return s.State == StatePaused && s.Index == 2
	}, e)

	e.TogglePlay()
	snap := e.Snapshot()
	if snap.State != StatePlaying || snap.Index != 0 {
		t.Errorf("after replay toggle: state=%s index=%d, want playing/0", snap.State, snap.Index)
	}
}

func TestTogglePlayPausesMidSequence(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2, 3, 4, 5})
	e.TogglePlay()
	snap := e.Snapshot()
	if snap.Playing {
		t.Fatal("still playing after toggle")
	}
	index := snap.Index

	time.Sleep(50 * time.Millisecond)
	if after := e.Snapshot(); after.Index != index {
		t.Errorf("cursor moved while paused: %d -> %d", index, after.Index)
	}

	e.TogglePlay()
	if snap := e.Snapshot(); !snap.Playing || snap.Index != index {
		t.Errorf("resume: %+v, want playing at %d", snap, index)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	e := testEngine()
	e.Load([]int{1, 2, 3, 4, 5})
	e.TogglePlay() // pause; bumps the generation

	e.mu.Lock()
	oldGen := e.gen - 1
	index := e.index
	e.mu.Unlock()

	if e.advance(oldGen) {
		t.Error("stale tick reported continue")
	}
	if snap := e.Snapshot(); snap.Index != index {
		t.Errorf("stale tick moved cursor: %d -> %d", index, snap.Index)
	}
	e.Close()
}

func TestTickWhilePausedIsDropped(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2, 3})
	e.TogglePlay()

	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	if e.advance(gen) {
		t.Error("tick applied while paused")
	}
}

func TestTickAtTerminalStepPausesQuietly(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2})
	e.Seek(1)

	// Force playing without rescheduling to simulate a racing timer.
	e.mu.Lock()
	e.playing = true
	gen := e.gen
	e.mu.Unlock()

	if e.advance(gen) {
		t.Error("terminal tick reported continue")
	}
	snap := e.Snapshot()
	if snap.Playing || snap.Index != 1 {
		t.Errorf("after terminal tick: %+v", snap)
	}
}

func TestSeekAlwaysPauses(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{10, 20, 30, 40})
	e.Seek(2)
	snap := e.Snapshot()
	if snap.Playing {
		t.Error("still playing after seek")
	}
	if snap.Index != 2 || snap.Year != 30 {
		t.Errorf("cursor = %d/%d, want 2/30", snap.Index, snap.Year)
	}

	// Out-of-range seeks leave everything alone.
	e.Seek(99)
	e.Seek(-1)
	if after := e.Snapshot(); after.Index != 2 {
		t.Errorf("out-of-range seek moved cursor to %d", after.Index)
	}
}

func TestSeekYearMatchesStepDomainOnly(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{10, 20, 30})
	e.SeekYear(20)
	if snap := e.Snapshot(); snap.Index != 1 || snap.Playing {
		t.Errorf("seek year: %+v", snap)
	}
	e.SeekYear(25)
	if snap := e.Snapshot(); snap.Index != 1 {
		t.Errorf("unknown year moved cursor: %+v", snap)
	}
}

func TestStepClampsWithoutChangingStatus(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{10, 20, 30})
	e.Seek(1)

	e.Step(10)
	if snap := e.Snapshot(); snap.Index != 2 || snap.Playing {
		t.Errorf("step beyond end: %+v", snap)
	}
	e.Step(-10)
	if snap := e.Snapshot(); snap.Index != 0 {
		t.Errorf("step before start: %+v", snap)
	}
}

func TestEmptyLoadIsIdle(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load(nil)
	snap := e.Snapshot()
	if snap.State != StateIdle {
		t.Fatalf("state = %s, want idle", snap.State)
	}
	if snap.Year != SentinelYear || snap.Index != -1 {
		t.Errorf("idle cursor = %d/%d", snap.Index, snap.Year)
	}

	// Controls are no-ops while idle.
	e.TogglePlay()
	e.Step(1)
	e.SeekYear(100)
	if snap := e.Snapshot(); snap.State != StateIdle {
		t.Errorf("idle engine moved: %+v", snap)
	}
}

func TestReloadInvalidatesPreviousSequence(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2, 3, 4, 5, 6, 7, 8})
	e.Load([]int{100, 200})

	snap := waitFor(t, 2*time.Second, func(s Snapshot) bool {
		return s.State == StatePaused && s.Index == 1
	}, e)
	if snap.Year != 200 {
		t.Errorf("terminal year = %d, want 200", snap.Year)
	}
}

func TestSetSpeedValidation(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2, 3})
	e.SetSpeed(Speed("warp"))
	if snap := e.Snapshot(); snap.Speed != SpeedNormal {
		t.Errorf("speed = %s after invalid set", snap.Speed)
	}
	e.SetSpeed(SpeedSlow)
	if snap := e.Snapshot(); snap.Speed != SpeedSlow {
		t.Errorf("speed = %s, want slow", snap.Speed)
	}
}

func TestResetRewindsAndPauses(t *testing.T) {
	e := testEngine()
	defer e.Close()

	e.Load([]int{1, 2, 3})
	waitFor(t, 2*time.Second, func(s Snapshot) bool { return s.Index > 0 }, e)
	e.Reset()
	snap := e.Snapshot()
	if snap.Index != 0 || snap.Playing {
		t.Errorf("after reset: %+v", snap)
	}
}
