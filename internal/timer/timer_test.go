package timer

import "testing"

func TestRunDownFiresCallbackOnce(t *testing.T) {
	var completions int
	tm := New(60, func() { completions++ }, nil)

	tm.Start()
	for i := 0; i < 60; i++ {
		tm.Tick()
	}

	_, timeLeft, running := tm.State()
	if timeLeft != 0 {
		t.Errorf("timeLeft = %d, want 0", timeLeft)
	}
	if running {
		t.Error("timer still running after run-down")
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}

	// Extra ticks after completion change nothing.
	tm.Tick()
	tm.Tick()
	if completions != 1 {
		t.Errorf("completions after extra ticks = %d, want 1", completions)
	}
}

func TestPauseResume(t *testing.T) {
	tm := New(10, nil, nil)
	tm.Start()
	for i := 0; i < 4; i++ {
		tm.Tick()
	}

	tm.Pause()
	_, timeLeft, running := tm.State()
	if running || timeLeft != 6 {
		t.Errorf("after pause: timeLeft=%d running=%v", timeLeft, running)
	}

	// Ticks while paused are ignored.
	tm.Tick()
	if _, timeLeft, _ = tm.State(); timeLeft != 6 {
		t.Errorf("paused timer advanced to %d", timeLeft)
	}

	tm.Resume()
	tm.Tick()
	if _, timeLeft, _ = tm.State(); timeLeft != 5 {
		t.Errorf("after resume+tick: timeLeft = %d, want 5", timeLeft)
	}
}

func TestResumeAfterCompletionStaysStopped(t *testing.T) {
	tm := New(2, nil, nil)
	tm.Start()
	tm.Tick()
	tm.Tick()

	tm.Resume()
	if _, _, running := tm.State(); running {
		t.Error("resume must not restart a finished countdown")
	}
}

func TestReset(t *testing.T) {
	tm := New(30, nil, nil)
	tm.Start()
	tm.Tick()
	tm.Tick()

	tm.Reset()
	_, timeLeft, running := tm.State()
	if running || timeLeft != 30 {
		t.Errorf("after reset: timeLeft=%d running=%v", timeLeft, running)
	}
}

func TestUpdateDuration(t *testing.T) {
	tm := New(60, nil, nil)

	// Idle: the displayed countdown follows the new preset.
	tm.UpdateDuration(90)
	duration, timeLeft, _ := tm.State()
	if duration != 90 || timeLeft != 90 {
		t.Errorf("idle update: duration=%d timeLeft=%d", duration, timeLeft)
	}

	// Running: only the preset changes until the next reset.
	tm.Start()
	tm.Tick()
	tm.UpdateDuration(120)
	duration, timeLeft, _ = tm.State()
	if duration != 120 {
		t.Errorf("duration = %d, want 120", duration)
	}
	if timeLeft != 89 {
		t.Errorf("timeLeft = %d, want 89 (untouched)", timeLeft)
	}

	tm.Reset()
	if _, timeLeft, _ = tm.State(); timeLeft != 120 {
		t.Errorf("after reset: timeLeft = %d, want 120", timeLeft)
	}
}

func TestStartRestartsAfterCompletion(t *testing.T) {
	var completions int
	tm := New(2, func() { completions++ }, nil)

	tm.Start()
	tm.Tick()
	tm.Tick()
	tm.Start()
	tm.Tick()
	tm.Tick()

	if completions != 2 {
		t.Errorf("completions = %d, want one per run", completions)
	}
}
