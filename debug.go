package tagsphere

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// debugLogEvery throttles the per-frame timing log.
const debugLogEvery = 60

// debugStats holds per-frame timing and solver state.
// Only populated when Cloud.debug is true.
type debugStats struct {
	tickTime    time.Duration
	drawTime    time.Duration
	nodes       int
	alpha       float64
	projections int
	solver      string
}

func (c *Cloud) collectStats(drawTime time.Duration) debugStats {
	st := debugStats{drawTime: drawTime}
	if eng := c.engine; eng != nil {
		st.tickTime = eng.lastTick
		st.nodes = len(eng.nodes)
		st.alpha = eng.solver.Alpha
		st.projections = eng.projections
		switch {
		case eng.solver.Halted():
			st.solver = "halted"
		case eng.solver.Paused():
			st.solver = "paused"
		default:
			st.solver = "running"
		}
	}
	return st
}

// debugLog logs timing and solver stats at debug level.
func (c *Cloud) debugLog(drawTime time.Duration) {
	if !c.debug {
		return
	}
	c.lastStats = c.collectStats(drawTime)
	if c.frames%debugLogEvery != 0 {
		return
	}
	st := c.lastStats
	c.logger.Debug("frame",
		"tick", st.tickTime,
		"draw", st.drawTime,
		"nodes", st.nodes,
		"alpha", fmt.Sprintf("%.3f", st.alpha),
		"solver", st.solver,
		"projections", st.projections)
}

// drawFPS prints FPS and TPS over a translucent box in the viewport corner.
func drawFPS(dst *ebiten.Image, vp Rect) {
	x, y := float32(vp.X), float32(vp.Y)
	vector.DrawFilledRect(dst, x, y, 100, 32, color.RGBA{0, 0, 0, 128}, false)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		int(vp.X), int(vp.Y))
}
