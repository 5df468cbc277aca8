package tagsphere

// Clock drives an engine's simulation. It owns the engine's liveness: once
// stopped, Advance is a no-op and pending timers never fire. Time is
// simulation time in seconds, advanced only by Advance, so tests control it
// fully.
type Clock struct {
	now    float64
	ticks  uint64
	alive  bool
	step   func(dt float64)
	timers []timer
	nextID uint64
}

type timer struct {
	id uint64
	at float64
	fn func()
}

// TimerHandle cancels a timer scheduled with After.
type TimerHandle struct {
	id    uint64
	clock *Clock
}

// Cancel removes the timer if it has not fired yet.
func (h TimerHandle) Cancel() {
	if h.clock == nil {
		return
	}
	for i, t := range h.clock.timers {
		if t.id == h.id {
			h.clock.timers = append(h.clock.timers[:i], h.clock.timers[i+1:]...)
			return
		}
	}
}

// NewClock creates a running clock that calls step once per Advance.
func NewClock(step func(dt float64)) *Clock {
	return &Clock{alive: true, step: step}
}

// Now returns the elapsed simulation time.
func (c *Clock) Now() float64 { return c.now }

// Ticks returns the number of advances applied.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Alive reports whether the clock is still running.
func (c *Clock) Alive() bool { return c.alive }

// Stop halts the clock permanently and drops pending timers.
func (c *Clock) Stop() {
	c.alive = false
	c.timers = nil
}

// After schedules fn to run on the first Advance at or past now+delay.
// Timers scheduled on a stopped clock are discarded.
func (c *Clock) After(delay float64, fn func()) TimerHandle {
	if !c.alive {
		return TimerHandle{}
	}
	c.nextID++
	c.timers = append(c.timers, timer{id: c.nextID, at: c.now + delay, fn: fn})
	return TimerHandle{id: c.nextID, clock: c}
}

// Advance moves time forward by dt, fires due timers in schedule order and
// runs the step function. It returns false once the clock is stopped.
func (c *Clock) Advance(dt float64) bool {
	if !c.alive {
		return false
	}
	c.now += dt
	c.ticks++
	c.fireTimers()
	if c.alive && c.step != nil {
		c.step(dt)
	}
	return c.alive
}

func (c *Clock) fireTimers() {
	var due []timer
	kept := c.timers[:0]
	for _, t := range c.timers {
		if t.at <= c.now {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	c.timers = kept
	for _, t := range due {
		if !c.alive {
			return
		}
		t.fn()
	}
}
