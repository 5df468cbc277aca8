package tagsphere

import (
	"math"
	"testing"
)

func solverNodes(t *testing.T, labels []Label) ([]*Node, Axes, *Solver) {
	t.Helper()
	cfg := testConfig()
	nodes := newNodes(labels, fixedFont{}, &cfg)
	axes := cfg.Axes()
	Layout(nodes, axes)
	return nodes, axes, NewSolver(cfg)
}

func TestSolverHaltsWhenAlphaDecays(t *testing.T) {
	nodes, axes, s := solverNodes(t, sampleLabels())
	steps := 0
	for s.Step(nodes, axes) {
		steps++
		if steps > 10000 {
			t.Fatal("solver never halted")
		}
	}
	if !s.Halted() || s.Active() {
		t.Error("solver should report halted")
	}
	// 0.99^n < 0.01 first holds at n = 459.
	if s.Steps() != 459 {
		t.Errorf("Steps = %d, want 459", s.Steps())
	}
	before := nodes[0].Pos
	if s.Step(nodes, axes) {
		t.Error("halted solver stepped")
	}
	if nodes[0].Pos != before {
		t.Error("halted solver moved a node")
	}
}

func TestSolverPullsTowardManifold(t *testing.T) {
	nodes, axes, s := solverNodes(t, single)
	start := math.Abs(axes.Manifold(nodes[0].Pos) - 0.95)
	for s.Step(nodes, axes) {
	}
	end := math.Abs(axes.Manifold(nodes[0].Pos) - 0.95)
	if end >= start {
		t.Errorf("distance to target grew: %g -> %g", start, end)
	}
	if !s.Converged(nodes, axes) {
		t.Errorf("single node not within tolerance: f = %g", axes.Manifold(nodes[0].Pos))
	}
}

func TestSolverRepulsionSeparatesOverlaps(t *testing.T) {
	cfg := testConfig()
	nodes := newNodes([]Label{{Name: "aaaa", Count: 1}, {Name: "bbbb", Count: 1}}, fixedFont{}, &cfg)
	nodes[0].Pos = Vec3{X: 0, Y: 60}
	nodes[1].Pos = Vec3{X: 0, Y: 60}
	s := NewSolver(cfg)
	s.applyRepulsion(nodes)
	if nodes[0].Pos.X >= nodes[1].Pos.X {
		t.Fatalf("coincident nodes not split along X: %+v %+v", nodes[0].Pos, nodes[1].Pos)
	}

	minDist := nodes[0].Diagonal()/4 + nodes[1].Diagonal()/4 + cfg.RepulsionMargin
	d0 := nodes[1].Pos.Sub(nodes[0].Pos).Len()
	s.applyRepulsion(nodes)
	d1 := nodes[1].Pos.Sub(nodes[0].Pos).Len()
	if d1 <= d0 {
		t.Errorf("overlapping nodes not pushed apart: %g -> %g", d0, d1)
	}

	nodes[0].Pos = Vec3{X: -100}
	nodes[1].Pos = Vec3{X: 100}
	s.applyRepulsion(nodes)
	if nodes[0].Pos.X != -100 || nodes[1].Pos.X != 100 {
		t.Errorf("nodes farther than %g moved", minDist)
	}
}

func TestSolverPauseResume(t *testing.T) {
	nodes, axes, s := solverNodes(t, sampleLabels())
	s.Pause()
	if !s.Paused() || s.Active() {
		t.Fatal("paused solver reports active")
	}
	before := nodes[2].Pos
	alpha := s.Alpha
	if s.Step(nodes, axes) {
		t.Error("paused solver stepped")
	}
	if nodes[2].Pos != before || s.Alpha != alpha {
		t.Error("paused solver changed state")
	}
	s.Resume()
	if !s.Step(nodes, axes) {
		t.Error("resumed solver did not step")
	}
	if s.Alpha >= alpha {
		t.Error("alpha did not decay")
	}
}

func TestSolverRestart(t *testing.T) {
	nodes, axes, s := solverNodes(t, sampleLabels())
	for s.Step(nodes, axes) {
	}
	s.Pause()
	s.Restart(0)
	if s.Alpha != 0.3 {
		t.Errorf("Restart(0) alpha = %g, want the configured 0.3", s.Alpha)
	}
	if !s.Active() {
		t.Error("restarted solver should be active and unpaused")
	}
	s.Restart(0.5)
	if s.Alpha != 0.5 {
		t.Errorf("Restart(0.5) alpha = %g", s.Alpha)
	}
	s.Restart(0.001)
	if !s.Halted() {
		t.Error("restart below the stop threshold should stay halted")
	}
}

func fibonacciLabels() []Label {
	counts := []int{1, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
	labels := make([]Label, len(counts))
	for i, c := range counts {
		labels[i] = Label{Name: "tag", Count: c}
	}
	return labels
}

func TestSolverConvergesAndStaysPut(t *testing.T) {
	tests := []struct {
		name          string
		labels        []Label
		width, height float64
	}{
		{"sample", sampleLabels(), 300, 180},
		{"fibonacci counts", fibonacciLabels(), 300, 180},
		{"fibonacci counts wide", fibonacciLabels(), 600, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Width, cfg.Height = tt.width, tt.height
			nodes := newNodes(tt.labels, fixedFont{}, &cfg)
			axes := cfg.Axes()
			Layout(nodes, axes)
			s := NewSolver(cfg)
			for s.Step(nodes, axes) {
			}
			if !s.Halted() {
				t.Fatal("solver did not halt")
			}
			for _, n := range nodes {
				if f := axes.Manifold(n.Pos); math.Abs(f-cfg.ManifoldTarget) > cfg.ManifoldTolerance {
					t.Errorf("%s: f = %g outside %g ± %g", n.Label, f, cfg.ManifoldTarget, cfg.ManifoldTolerance)
				}
			}
			if !s.Converged(nodes, axes) {
				t.Error("Converged = false after halting")
			}

			settled := make([]Vec3, len(nodes))
			for i, n := range nodes {
				settled[i] = n.Pos
			}
			s.Step(nodes, axes)
			for i, n := range nodes {
				if n.Pos != settled[i] {
					t.Errorf("%s moved after halting: %+v -> %+v", n.Label, settled[i], n.Pos)
				}
			}

			s.Restart(0.02)
			for s.Step(nodes, axes) {
			}
			worst := 0.0
			for i, n := range nodes {
				worst = math.Max(worst, n.Pos.Sub(settled[i]).Len())
			}
			if worst > 1 {
				t.Errorf("low-alpha restart moved a node by %g", worst)
			}
			if !s.Converged(nodes, axes) {
				t.Error("Converged = false after a low-alpha restart")
			}
		})
	}
}
