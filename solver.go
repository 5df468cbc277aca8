package tagsphere

import "math"

// Solver relaxes node positions toward the manifold while keeping labels
// apart. Each step is scaled by Alpha, which decays geometrically; once it
// drops below the stop threshold the solver settles any node still outside
// the tolerance band and halts until restarted.
type Solver struct {
	Alpha float64

	active bool
	paused bool
	steps  int

	target, tolerance, gain  float64
	repulsionGain, margin    float64
	decay, minAlpha, restart float64
}

// NewSolver creates an armed solver with Alpha = 1.
func NewSolver(cfg Config) *Solver {
	return &Solver{
		Alpha:         1,
		active:        true,
		target:        cfg.ManifoldTarget,
		tolerance:     cfg.ManifoldTolerance,
		gain:          cfg.ManifoldGain,
		repulsionGain: cfg.RepulsionGain,
		margin:        cfg.RepulsionMargin,
		decay:         cfg.AlphaDecay,
		minAlpha:      cfg.AlphaMin,
		restart:       cfg.RestartAlpha,
	}
}

// Active reports whether the solver will move nodes on the next step.
func (s *Solver) Active() bool { return s.active && !s.paused }

// Halted reports whether alpha decayed below the stop threshold.
func (s *Solver) Halted() bool { return !s.active }

// Paused reports whether the solver is suspended by an interaction.
func (s *Solver) Paused() bool { return s.paused }

// Steps returns the number of steps applied since creation.
func (s *Solver) Steps() int { return s.steps }

// Step applies one relaxation step and reports whether the solver is still
// running. A paused or halted solver leaves positions untouched.
func (s *Solver) Step(nodes []*Node, axes Axes) bool {
	if !s.Active() {
		return false
	}
	if s.Alpha < s.minAlpha {
		s.active = false
		return false
	}
	s.applyManifold(nodes, axes)
	s.applyRepulsion(nodes)
	s.steps++
	s.Alpha *= s.decay
	if s.Alpha < s.minAlpha {
		s.active = false
		s.settle(nodes, axes)
	}
	return s.active
}

// settle scales any node left outside the tolerance band radially onto
// f = target. f is homogeneous of degree two, so f(kp) = k²f(p).
func (s *Solver) settle(nodes []*Node, axes Axes) {
	for _, n := range nodes {
		f := axes.Manifold(n.Pos)
		if f == 0 || math.Abs(f-s.target) <= s.tolerance {
			continue
		}
		n.Pos = n.Pos.Mul(math.Sqrt(s.target / f))
	}
}

// applyManifold moves each node along the field gradient by a damped Newton
// step toward f = target.
func (s *Solver) applyManifold(nodes []*Node, axes Axes) {
	for _, n := range nodes {
		d := axes.Manifold(n.Pos) - s.target
		if math.Abs(d) <= s.tolerance {
			continue
		}
		g := axes.gradient(n.Pos)
		g2 := g.X*g.X + g.Y*g.Y + g.Z*g.Z
		if g2 == 0 {
			continue // center of the ellipsoid
		}
		n.Pos = n.Pos.Sub(g.Mul(s.Alpha * s.gain * d / g2))
	}
}

// applyRepulsion pushes apart every pair closer than their collision radii.
func (s *Solver) applyRepulsion(nodes []*Node) {
	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		ra := a.Diagonal() / 4
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			minDist := ra + b.Diagonal()/4 + s.margin
			delta := b.Pos.Sub(a.Pos)
			d := delta.Len()
			if d >= minDist {
				continue
			}
			push := (minDist - d) * s.Alpha * s.repulsionGain
			if d == 0 {
				a.Pos.X -= push / 2
				b.Pos.X += push / 2
				continue
			}
			step := delta.Mul(push / d)
			a.Pos = a.Pos.Sub(step)
			b.Pos = b.Pos.Add(step)
		}
	}
}

// Pause suspends stepping without touching alpha.
func (s *Solver) Pause() { s.paused = true }

// Resume lifts a pause. A halted solver stays halted.
func (s *Solver) Resume() { s.paused = false }

// Restart re-arms the solver at the given alpha, or the configured restart
// alpha when alpha <= 0. Positions are kept.
func (s *Solver) Restart(alpha float64) {
	if alpha <= 0 {
		alpha = s.restart
	}
	s.Alpha = alpha
	s.active = alpha >= s.minAlpha
	s.paused = false
}

// Converged reports whether every node lies within tolerance of the target
// manifold value.
func (s *Solver) Converged(nodes []*Node, axes Axes) bool {
	for _, n := range nodes {
		if math.Abs(axes.Manifold(n.Pos)-s.target) > s.tolerance {
			return false
		}
	}
	return true
}
