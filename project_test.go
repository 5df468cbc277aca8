package tagsphere

import (
	"math"
	"testing"
)

func TestSortByDepthTiesByIndex(t *testing.T) {
	a := &Node{Index: 0, Depth: 5}
	b := &Node{Index: 1, Depth: -2}
	c := &Node{Index: 2, Depth: 5}
	d := &Node{Index: 3, Depth: -2}
	order := []*Node{c, a, d, b}
	sortByDepth(order)
	want := []*Node{b, d, a, c}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = node %d, want node %d", i, order[i].Index, want[i].Index)
		}
	}
}

func TestProjectNodeDepthCues(t *testing.T) {
	cam := testCamera()
	center := Vec2{X: 150, Y: 90}
	tests := []struct {
		name        string
		pos         Vec3
		wantOpacity float64
		wantBright  float64
	}{
		{"front", Vec3{Z: 63}, 1, 1},
		{"back", Vec3{Z: -63}, 0.3, 0.6},
		{"middle", Vec3{}, 0.65, 0.8},
		{"beyond front clamps", Vec3{Z: 200}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{Pos: tt.pos}
			projectNode(n, cam, center, 63, 0.3, 0.6)
			if math.Abs(n.Opacity-tt.wantOpacity) > 1e-9 {
				t.Errorf("Opacity = %g, want %g", n.Opacity, tt.wantOpacity)
			}
			if math.Abs(n.Brightness-tt.wantBright) > 1e-9 {
				t.Errorf("Brightness = %g, want %g", n.Brightness, tt.wantBright)
			}
		})
	}
}

func TestProjectNodeScreenPosition(t *testing.T) {
	cam := testCamera()
	cam.SetScale(2)
	n := &Node{Pos: Vec3{X: 10, Y: 20, Z: 0}}
	projectNode(n, cam, Vec2{X: 150, Y: 90}, 63, 0.3, 0.6)
	if n.Screen != (Vec2{X: 170, Y: 50}) {
		t.Errorf("Screen = %+v, want {170 50}", n.Screen)
	}
	if n.Pos != (Vec3{X: 10, Y: 20}) {
		t.Error("projection modified Pos")
	}
}

func TestEngineProjectionOrdersBackToFront(t *testing.T) {
	e := newTestEngine(t, sampleLabels())
	for i := 0; i < 20; i++ {
		e.Update(0.1)
	}
	order := e.DrawOrder()
	if len(order) != len(e.Nodes()) {
		t.Fatalf("draw order has %d nodes, want %d", len(order), len(e.Nodes()))
	}
	for i := 1; i < len(order); i++ {
		if depthLess(order[i], order[i-1]) {
			t.Errorf("order[%d] (depth %g) sorts before order[%d] (depth %g)",
				i, order[i].Depth, i-1, order[i-1].Depth)
		}
	}
	for _, n := range order {
		if n.Opacity < 0.3 || n.Opacity > 1 || n.Brightness < 0.6 || n.Brightness > 1 {
			t.Errorf("%s: opacity %g brightness %g out of range", n.Label.Name, n.Opacity, n.Brightness)
		}
	}
}
