package tagsphere

import "github.com/tanema/gween/ease"

var (
	easeOutBack ease.TweenFunc = ease.OutBack
	easeOutQuad ease.TweenFunc = ease.OutQuad
)

type selectPhase uint8

const (
	selectNone      selectPhase = iota
	selectShowing               // animating in or holding while navigation runs
	selectResetting             // returning to the sphere
)

// selection is the click-to-navigate presentation state. Only presentation
// factors are animated; Pos is never touched.
type selection struct {
	node      *Node
	phase     selectPhase
	glow      float64 // ring radius in pixels
	glowAlpha float64
	reset     TimerHandle
}

// selectionActive reports whether a selection is showing or resetting.
// Clicks, wheel zoom and auto-rotation are suspended meanwhile.
func (e *Engine) selectionActive() bool {
	return e.sel.phase != selectNone
}

// Selected returns the selected node, or nil.
func (e *Engine) Selected() *Node {
	return e.sel.node
}

// click handles a completed click on n.
func (e *Engine) click(n *Node, x, y float64) {
	e.emit(Event{Type: EventClick, Label: n.Label, Index: n.Index, X: x, Y: y})
	e.Select(n)
}

// Select plays the selection animation on n and requests navigation. The
// selected node moves to the viewport center and grows while every other
// node fades; a glow ring expands from the node. No-op while a selection is
// already active.
func (e *Engine) Select(n *Node) {
	if e.disposed || n == nil || e.selectionActive() {
		return
	}
	e.setHover(nil)
	e.sel = selection{node: n, phase: selectShowing}
	e.syncSolverPause()

	cfg := &e.cfg
	e.animate(&n.blend, 1, cfg.SelectDuration, easeOutBack, nil)
	for _, other := range e.nodes {
		if other != n {
			e.animate(&other.fade, cfg.SelectedFadeAlpha, cfg.SelectDuration, easeOutQuad, nil)
		}
	}
	if cfg.GlowDuration > 0 {
		e.sel.glowAlpha = 0.8
		e.startGroup(tweenFields(&e.sel.glow, cfg.GlowRadius, &e.sel.glowAlpha, 0,
			float32(cfg.GlowDuration), easeOutQuad))
	}

	e.emit(Event{Type: EventSelect, Label: n.Label, Index: n.Index})
	e.logger.Debug("label selected", "name", n.Label.Name, "url", n.Label.URL)

	if e.onNavigate != nil {
		e.emit(Event{Type: EventNavigate, Label: n.Label, Index: n.Index})
		e.onNavigate(n.Label)
		return
	}
	e.sel.reset = e.clock.After(cfg.SelectionHold, e.resetSelection)
}

// NavigationDone tells the engine the navigation for the current selection
// finished, successfully or not. The selection is released after
// Config.ResetDelay seconds.
func (e *Engine) NavigationDone() {
	if e.disposed || e.sel.phase != selectShowing {
		return
	}
	e.sel.reset.Cancel()
	e.sel.reset = e.clock.After(e.cfg.ResetDelay, e.resetSelection)
}

// resetSelection returns every node to its projected state and re-arms the
// solver at the restart alpha once the animation completes.
func (e *Engine) resetSelection() {
	if e.sel.phase != selectShowing {
		return
	}
	n := e.sel.node
	e.sel.phase = selectResetting
	e.project()

	cfg := &e.cfg
	for _, other := range e.nodes {
		if other != n {
			e.animate(&other.fade, 1, cfg.ResetDuration, easeOutQuad, nil)
		}
	}
	e.animate(&n.blend, 0, cfg.ResetDuration, easeOutQuad, func() {
		e.sel = selection{}
		e.solver.Restart(cfg.RestartAlpha)
		e.syncSolverPause()
		e.emit(Event{Type: EventReset, Label: n.Label, Index: n.Index})
	})
}
