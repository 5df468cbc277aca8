package tagsphere

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	down    bool
	state   GestureState
	startX  float64
	startY  float64
	lastX   float64
	lastY   float64
	travel  float64 // cumulative movement since press
	hitNode *Node   // node under the pointer at press time
	pinched bool    // took part in a pinch; release is not a click
	ignored bool    // pressed while interaction was blocked
}

// --- Pinch state ---

type pinchState struct {
	active      bool
	pointer0    int
	pointer1    int
	initialDist float64
	startScale  float64
}

// ProcessPointer feeds one pointer sample through the gesture state machine.
// x and y are screen coordinates; pressed is the button or touch state.
// Pointer 0 is the mouse, 1-9 are touches.
func (e *Engine) ProcessPointer(id int, x, y float64, pressed bool) {
	if e.disposed || id < 0 || id >= maxPointers {
		return
	}
	ps := &e.pointers[id]

	switch {
	case pressed && !ps.down:
		e.pointerDown(ps, x, y)
	case !pressed && ps.down:
		e.pointerUp(ps, x, y)
	case pressed && ps.down:
		e.pointerMove(ps, x, y)
	default:
		if id == 0 && (x != ps.lastX || y != ps.lastY) {
			e.updateHover(x, y)
		}
		ps.lastX, ps.lastY = x, y
	}

	if id > 0 {
		e.detectPinch()
	}
	e.syncSolverPause()
}

func (e *Engine) pointerDown(ps *pointerState, x, y float64) {
	*ps = pointerState{
		down:   true,
		state:  GesturePotentialDrag,
		startX: x, startY: y,
		lastX: x, lastY: y,
	}
	if e.selectionActive() {
		ps.ignored = true
		return
	}
	ps.hitNode = e.HitTest(x, y)
}

func (e *Engine) pointerMove(ps *pointerState, x, y float64) {
	dx := x - ps.lastX
	dy := y - ps.lastY
	ps.lastX, ps.lastY = x, y
	if dx == 0 && dy == 0 || ps.ignored || ps.pinched {
		return
	}
	ps.travel += math.Hypot(dx, dy)
	if ps.state == GesturePotentialDrag && ps.travel > e.cfg.DragThreshold {
		ps.state = GestureDragging
		e.emit(Event{Type: EventDragStart, X: x, Y: y, DeltaX: x - ps.startX, DeltaY: y - ps.startY})
	}
	if ps.state == GestureDragging {
		e.camera.Rotate(dx*e.cfg.Sensitivity, dy*e.cfg.Sensitivity)
		e.interaction()
		e.emit(Event{Type: EventDrag, X: x, Y: y, DeltaX: dx, DeltaY: dy})
	}
}

func (e *Engine) pointerUp(ps *pointerState, x, y float64) {
	prev := *ps
	*ps = pointerState{lastX: x, lastY: y}
	switch {
	case prev.state == GestureDragging:
		e.emit(Event{Type: EventDragEnd, X: x, Y: y, DeltaX: x - prev.startX, DeltaY: y - prev.startY})
	case prev.ignored || prev.pinched:
	default:
		if target := e.HitTest(x, y); target != nil && target == prev.hitNode {
			e.click(target, x, y)
		}
	}
}

// CancelPointer abandons the gesture on pointer id without producing a click,
// as when the pointer leaves the container.
func (e *Engine) CancelPointer(id int) {
	if e.disposed || id < 0 || id >= maxPointers {
		return
	}
	ps := &e.pointers[id]
	if ps.state == GestureDragging {
		e.emit(Event{Type: EventDragEnd, X: ps.lastX, Y: ps.lastY})
	}
	*ps = pointerState{lastX: ps.lastX, lastY: ps.lastY}
	if id == 0 {
		e.setHover(nil)
	}
	e.syncSolverPause()
}

// Wheel zooms the camera by dy wheel notches.
func (e *Engine) Wheel(dy float64) {
	if e.disposed || dy == 0 || e.selectionActive() {
		return
	}
	e.camera.Zoom(dy * e.cfg.WheelZoomStep)
	e.interaction()
	e.emit(Event{Type: EventWheel, DeltaY: dy, Scale: e.camera.Scale})
}

// Gesture returns the state of pointer id.
func (e *Engine) Gesture(id int) GestureState {
	if id < 0 || id >= maxPointers {
		return GestureIdle
	}
	return e.pointers[id].state
}

// gestureActive reports whether any pointer is dragging or pinching.
func (e *Engine) gestureActive() bool {
	if e.pinch.active {
		return true
	}
	for i := range e.pointers {
		if e.pointers[i].state == GestureDragging {
			return true
		}
	}
	return false
}

// interaction records user activity: it resets the idle timer and marks the
// projection dirty.
func (e *Engine) interaction() {
	e.camera.LastInteraction = e.clock.Now()
	e.dirty = true
}

// HitTest returns the topmost node whose drawn box contains (x, y), using the
// latest projection's depth order.
func (e *Engine) HitTest(x, y float64) *Node {
	for i := len(e.order) - 1; i >= 0; i-- {
		n := e.order[i]
		it := e.itemFor(n)
		w := n.Width * it.Scale
		h := n.Height * it.Scale
		r := Rect{X: it.X - w/2, Y: it.Y - h/2, Width: w, Height: h}
		if r.Contains(x, y) {
			return n
		}
	}
	return nil
}

// --- Hover ---

func (e *Engine) updateHover(x, y float64) {
	if e.selectionActive() {
		return
	}
	e.setHover(e.HitTest(x, y))
}

func (e *Engine) setHover(n *Node) {
	if n == e.hover {
		return
	}
	if prev := e.hover; prev != nil {
		e.animate(&prev.emphasis, 0, e.cfg.HoverDuration, easeOutBack, nil)
		e.emit(Event{Type: EventHoverLeave, Label: prev.Label, Index: prev.Index})
	}
	e.hover = n
	if n != nil {
		e.animate(&n.emphasis, 1, e.cfg.HoverDuration, easeOutBack, nil)
		e.emit(Event{Type: EventHoverEnter, Label: n.Label, Index: n.Index})
	}
	e.dirty = true
}

// syncSolverPause pauses the solver while the user hovers, drags or pinches,
// and while a selection is shown.
func (e *Engine) syncSolverPause() {
	if e.hover != nil || e.gestureActive() || e.selectionActive() {
		e.solver.Pause()
	} else {
		e.solver.Resume()
	}
}

// --- Pinch detection ---

func (e *Engine) detectPinch() {
	var p [2]int
	count := 0
	for i := 1; i < maxPointers; i++ {
		if e.pointers[i].down && !e.pointers[i].ignored {
			if count < 2 {
				p[count] = i
			}
			count++
		}
	}

	if count != 2 {
		e.pinch.active = false
		return
	}

	ps0 := &e.pointers[p[0]]
	ps1 := &e.pointers[p[1]]
	dist := math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY)

	if !e.pinch.active || e.pinch.pointer0 != p[0] || e.pinch.pointer1 != p[1] {
		e.pinch = pinchState{
			active:      true,
			pointer0:    p[0],
			pointer1:    p[1],
			initialDist: dist,
			startScale:  e.camera.Scale,
		}
		for _, ps := range []*pointerState{ps0, ps1} {
			if ps.state == GestureDragging {
				e.emit(Event{Type: EventDragEnd, X: ps.lastX, Y: ps.lastY})
			}
			ps.pinched = true
			ps.state = GesturePotentialDrag
		}
		return
	}

	if e.pinch.initialDist <= 0 {
		return
	}
	scale := e.pinch.startScale * dist / e.pinch.initialDist
	if scale == e.camera.Scale {
		return
	}
	e.camera.SetScale(scale)
	e.interaction()
	e.emit(Event{
		Type:  EventPinch,
		X:     (ps0.lastX + ps1.lastX) / 2,
		Y:     (ps0.lastY + ps1.lastY) / 2,
		Scale: e.camera.Scale,
	})
}

// --- Ebitengine polling ---

// InputSource samples pointer devices once per frame and feeds the engine.
type InputSource interface {
	Poll(e *Engine)
}

// ebitenInput polls Ebitengine's mouse, touch and wheel state.
type ebitenInput struct {
	touchIDs  []ebiten.TouchID
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	inside    bool
}

func (in *ebitenInput) Poll(e *Engine) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	inside := e.viewport.Contains(x, y)
	if in.inside && !inside && !e.pointers[0].down {
		e.CancelPointer(0)
	}
	in.inside = inside
	if inside || e.pointers[0].down {
		e.ProcessPointer(0, x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	}

	if _, wy := ebiten.Wheel(); wy != 0 && inside {
		e.Wheel(wy)
	}

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var active [maxPointers]bool
	for _, tid := range in.touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		e.ProcessPointer(slot, float64(tx), float64(ty), true)
	}
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !active[i] {
			ps := &e.pointers[i]
			e.ProcessPointer(i, ps.lastX, ps.lastY, false)
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *ebitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
