package tagsphere

import "testing"

func TestClockAdvance(t *testing.T) {
	var steps []float64
	c := NewClock(func(dt float64) { steps = append(steps, dt) })
	c.Advance(0.25)
	c.Advance(0.5)
	if c.Now() != 0.75 || c.Ticks() != 2 {
		t.Errorf("Now = %g, Ticks = %d", c.Now(), c.Ticks())
	}
	if len(steps) != 2 || steps[1] != 0.5 {
		t.Errorf("steps = %v", steps)
	}
}

func TestClockTimersFireInOrder(t *testing.T) {
	c := NewClock(nil)
	var fired []string
	c.After(0.5, func() { fired = append(fired, "b") })
	c.After(0.2, func() { fired = append(fired, "a") })
	c.After(1.0, func() { fired = append(fired, "c") })

	c.Advance(0.1)
	if len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}
	c.Advance(0.5)
	if len(fired) != 2 || fired[0] != "b" || fired[1] != "a" {
		t.Errorf("fired = %v, want [b a] (schedule order)", fired)
	}
	c.Advance(0.5)
	if len(fired) != 3 {
		t.Errorf("fired = %v", fired)
	}
}

func TestClockTimerCancel(t *testing.T) {
	c := NewClock(nil)
	fired := false
	h := c.After(0.1, func() { fired = true })
	h.Cancel()
	h.Cancel()
	TimerHandle{}.Cancel()
	c.Advance(1)
	if fired {
		t.Error("cancelled timer fired")
	}
}

func TestClockTimerSchedulesTimer(t *testing.T) {
	c := NewClock(nil)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.After(0.1, tick)
		}
	}
	c.After(0.1, tick)
	for i := 0; i < 10; i++ {
		c.Advance(0.1)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestClockStop(t *testing.T) {
	steps := 0
	c := NewClock(func(float64) { steps++ })
	fired := false
	c.After(0.1, func() { fired = true })
	c.Stop()

	if c.Alive() {
		t.Error("stopped clock reports alive")
	}
	if c.Advance(1) {
		t.Error("Advance on a stopped clock returned true")
	}
	if fired || steps != 0 || c.Now() != 0 {
		t.Errorf("stopped clock ran: fired=%v steps=%d now=%g", fired, steps, c.Now())
	}
	c.After(0, func() { fired = true })
	c.Advance(1)
	if fired {
		t.Error("timer scheduled after Stop fired")
	}
}

func TestClockStopInsideTimer(t *testing.T) {
	steps := 0
	c := NewClock(func(float64) { steps++ })
	second := false
	c.After(0.1, func() { c.Stop() })
	c.After(0.1, func() { second = true })
	if c.Advance(0.2) {
		t.Error("Advance should report the clock stopped")
	}
	if second {
		t.Error("timer ran after Stop")
	}
	if steps != 0 {
		t.Error("step ran after Stop")
	}
}
