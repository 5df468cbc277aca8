package tagsphere

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// Engine is one live tag cloud: its nodes, camera, solver and clock. An
// engine is built from a single label snapshot and a container size; resizes
// and data reloads build a new engine. All methods must be called from the
// same goroutine (Ebitengine's Update/Draw goroutine).
type Engine struct {
	id     string
	cfg    Config
	logger *log.Logger
	font   Font

	nodes    []*Node
	order    []*Node // depth order of the latest projection, back to front
	axes     Axes
	viewport Rect

	camera *Camera
	solver *Solver
	clock  *Clock

	pointers [maxPointers]pointerState
	pinch    pinchState
	hover    *Node
	sel      selection
	tweens   []*TweenGroup

	sink       EventSink
	onNavigate func(Label)

	dirty       bool
	disposed    bool
	projections int

	// Draw resources, allocated lazily on the first Draw.
	verts    []ebiten.Vertex
	inds     []uint16
	drawBuf  []DrawItem
	debug    bool
	lastTick time.Duration
}

// NewEngine validates cfg and labels, measures every label, places them on
// the golden spiral and runs the first projection. The engine's viewport is
// (0, 0, cfg.Width, cfg.Height); move it with SetOrigin.
func NewEngine(labels []Label, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	font := cfg.Font
	if font == nil {
		f, err := DefaultFont()
		if err != nil {
			return nil, fmt.Errorf("tagsphere: default font: %w", err)
		}
		font = f
	}

	e := &Engine{
		id:       uuid.NewString(),
		cfg:      cfg,
		logger:   cfg.logger(),
		font:     font,
		axes:     cfg.Axes(),
		viewport: Rect{Width: cfg.Width, Height: cfg.Height},
		camera:   newCamera(&cfg),
		solver:   NewSolver(cfg),
	}
	e.clock = NewClock(e.tick)
	e.nodes = newNodes(labels, font, &cfg)
	Layout(e.nodes, e.axes)
	e.order = make([]*Node, len(e.nodes))
	copy(e.order, e.nodes)
	e.startEntrance()
	e.project()

	e.logger.Debug("engine built", "id", e.id, "labels", len(e.nodes),
		"axes", fmt.Sprintf("%.1fx%.1fx%.1f", e.axes.X, e.axes.Y, e.axes.Z))
	return e, nil
}

// Update advances the engine by dt seconds. It returns false once the engine
// has been disposed; a disposed engine never mutates state again.
func (e *Engine) Update(dt float64) bool {
	if e.disposed {
		return false
	}
	return e.clock.Advance(dt)
}

// tick is the single per-frame step driven by the clock.
func (e *Engine) tick(dt float64) {
	var start time.Time
	if e.debug {
		start = time.Now()
	}

	stepped := e.solver.Step(e.nodes, e.axes)
	e.autoRotate(dt)
	e.camera.update(float32(dt))
	e.updateTweens(dt)

	if stepped || e.dirty || e.camera.dirty {
		e.project()
	}

	if e.debug {
		e.lastTick = time.Since(start)
	}
}

// autoRotate advances the yaw once the user has been idle long enough.
// Rotation runs about the vertical axis rather than incrementing RotX:
// pitch is clamped to ±π/2 and would pin the cloud at a pole.
func (e *Engine) autoRotate(dt float64) {
	cam := e.camera
	if !cam.AutoRotate || cam.Animating() || e.hover != nil || e.gestureActive() || e.selectionActive() {
		return
	}
	if e.clock.Now()-cam.LastInteraction < e.cfg.IdleDelay {
		return
	}
	cam.RotY += e.cfg.AutoRotateSpeed * dt
	cam.dirty = true
}

// startEntrance fades labels in one after another.
func (e *Engine) startEntrance() {
	if e.cfg.EntranceDuration <= 0 {
		return
	}
	for _, n := range e.nodes {
		n.entrance = 0
		node := n
		delay := float64(n.Index) * e.cfg.EntranceStagger
		e.clock.After(delay, func() {
			e.animate(&node.entrance, 1, e.cfg.EntranceDuration, easeOutQuad, nil)
		})
	}
}

// Dispose stops the engine's clock and releases its nodes. Pending timers,
// tweens and navigation hooks are dropped. Safe to call more than once.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.clock.Stop()
	e.tweens = nil
	e.hover = nil
	e.sel = selection{}
	e.onNavigate = nil
	e.sink = nil
	e.nodes = nil
	e.order = nil
	e.drawBuf = nil
	e.logger.Debug("engine disposed", "id", e.id)
}

// IsDisposed reports whether Dispose has been called.
func (e *Engine) IsDisposed() bool { return e.disposed }

// ID returns the engine's unique instance id.
func (e *Engine) ID() string { return e.id }

// Nodes returns the engine's nodes in label order. The slice must not be
// modified.
func (e *Engine) Nodes() []*Node { return e.nodes }

// DrawOrder returns the nodes in the latest projection's depth order, back to
// front. The slice must not be modified.
func (e *Engine) DrawOrder() []*Node { return e.order }

// Camera returns the engine's camera.
func (e *Engine) Camera() *Camera { return e.camera }

// Solver returns the engine's constraint solver.
func (e *Engine) Solver() *Solver { return e.solver }

// Clock returns the engine's simulation clock.
func (e *Engine) Clock() *Clock { return e.clock }

// Axes returns the manifold semi-axes.
func (e *Engine) Axes() Axes { return e.axes }

// Viewport returns the screen rectangle the engine projects into.
func (e *Engine) Viewport() Rect { return e.viewport }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Hovered returns the node under the mouse, or nil.
func (e *Engine) Hovered() *Node { return e.hover }

// Projections returns the number of projection passes run so far.
func (e *Engine) Projections() int { return e.projections }

// SetOrigin moves the viewport's top-left corner without rebuilding.
func (e *Engine) SetOrigin(x, y float64) {
	if e.viewport.X == x && e.viewport.Y == y {
		return
	}
	e.viewport.X, e.viewport.Y = x, y
	e.dirty = true
}

// OnNavigate sets the hook called when a clicked label wants navigation. With
// no hook the selection is released after Config.SelectionHold seconds.
func (e *Engine) OnNavigate(fn func(Label)) {
	e.onNavigate = fn
}

// ResetCamera animates the camera back to its default state.
func (e *Engine) ResetCamera(duration float64) {
	if e.disposed {
		return
	}
	target := DefaultCameraState
	// Unwind to the nearest full turn instead of spinning back through every
	// auto-rotated revolution.
	target.RotY = e.camera.RotY - math.Remainder(e.camera.RotY, 2*math.Pi)
	if duration <= 0 {
		e.camera.Restore(target)
	} else {
		e.camera.AnimateTo(target, float32(duration), easeOutQuad)
	}
	e.interaction()
}

// SetDebugMode enables per-tick timing.
func (e *Engine) SetDebugMode(enabled bool) { e.debug = enabled }
