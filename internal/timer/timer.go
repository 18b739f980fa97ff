// Package timer implements the rest-period countdown between sets.
package timer

import (
	"context"
	"io"
	"sync"
	"time"
)

// Beeper produces the audible cue when the countdown reaches zero.
// Implementations are best-effort: failing to make a sound is never an
// error the timer surfaces.
type Beeper interface {
	Beep()
}

// NopBeeper is silent.
type NopBeeper struct{}

func (NopBeeper) Beep() {}

// BellBeeper writes the terminal bell character. Write errors are
// swallowed.
type BellBeeper struct {
	W io.Writer
}

func (b BellBeeper) Beep() {
	if b.W != nil {
		_, _ = b.W.Write([]byte{'\a'})
	}
}

// Timer is a one-second-interval countdown with pause/resume/reset and
// an exactly-once completion callback per run. State is ephemeral: it
// lives only as long as the Timer value.
type Timer struct {
	mu         sync.Mutex
	duration   int
	timeLeft   int
	running    bool
	onComplete func()
	beeper     Beeper
}

// New creates a Timer with the given duration in seconds. onComplete and
// beeper may be nil.
func New(duration int, onComplete func(), beeper Beeper) *Timer {
	if beeper == nil {
		beeper = NopBeeper{}
	}
	return &Timer{
		duration:   duration,
		timeLeft:   duration,
		onComplete: onComplete,
		beeper:     beeper,
	}
}

// Start resets the countdown to the full duration and begins running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeLeft = t.duration
	t.running = true
}

// Pause stops the countdown without resetting the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// Resume continues a paused countdown. A finished timer (timeLeft 0)
// stays stopped; use Start or Reset first.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timeLeft > 0 {
		t.running = true
	}
}

// Reset stops the countdown and restores the full duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.timeLeft = t.duration
}

// UpdateDuration changes the preset. While idle the displayed countdown
// follows immediately; while running the remaining time is left alone
// until the next reset.
func (t *Timer) UpdateDuration(d int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duration = d
	if !t.running {
		t.timeLeft = d
	}
}

// Tick advances the countdown by one second. The driving loop (UI or
// Run) calls this once per second; it is a no-op while not running.
// Reaching zero stops the timer, beeps, and fires the completion
// callback exactly once for this run.
func (t *Timer) Tick() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.timeLeft--
	finished := t.timeLeft <= 0
	if finished {
		t.timeLeft = 0
		t.running = false
	}
	onComplete := t.onComplete
	beeper := t.beeper
	t.mu.Unlock()

	if finished {
		beeper.Beep()
		if onComplete != nil {
			onComplete()
		}
	}
}

// Run drives the timer with a real one-second ticker until the context
// is cancelled. Convenience for callers without their own event loop.
func (t *Timer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// State returns a consistent snapshot of duration, remaining seconds and
// whether the timer is running.
func (t *Timer) State() (duration, timeLeft int, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration, t.timeLeft, t.running
}
