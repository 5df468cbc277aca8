package tagsphere

// syntheticPointerEvent represents a single injected pointer or wheel event
// in screen coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	wheel   float64
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Step while pointer input is enabled.
func (c *Cloud) InjectPress(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (c *Cloud) InjectMove(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectHover queues a pointer move with no button held, updating hover.
func (c *Cloud) InjectHover(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (c *Cloud) InjectRelease(x, y float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two steps.
func (c *Cloud) InjectClick(x, y float64) {
	c.InjectPress(x, y)
	c.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate steps, and release at
// (toX, toY). Minimum frames is 2 (press + release).
func (c *Cloud) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	c.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event of dy notches.
func (c *Cloud) InjectWheel(dy float64) {
	c.injectQueue = append(c.injectQueue, syntheticPointerEvent{wheel: dy})
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the engine. Returns true if an event was consumed, in which case real
// input is skipped for the step. Events wait while pointer input is
// disabled.
func (c *Cloud) processInjectedInput() bool {
	if len(c.injectQueue) == 0 || !c.pointerEnabled {
		return false
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	if evt.wheel != 0 {
		c.engine.Wheel(evt.wheel)
		return true
	}
	c.engine.ProcessPointer(0, evt.x, evt.y, evt.pressed)
	return true
}
