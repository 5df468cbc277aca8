package tagsphere

import (
	"errors"
	"math"
	"testing"
)

func TestNewEngineErrors(t *testing.T) {
	if _, err := NewEngine(nil, testConfig()); !errors.Is(err, ErrNoLabels) {
		t.Errorf("no labels: err = %v, want ErrNoLabels", err)
	}
	cfg := testConfig()
	cfg.Width = 0
	if _, err := NewEngine(single, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero width: err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewEngineInitialState(t *testing.T) {
	e := newTestEngine(t, sampleLabels())
	if len(e.Nodes()) != 8 || len(e.DrawOrder()) != 8 {
		t.Fatalf("nodes = %d, order = %d", len(e.Nodes()), len(e.DrawOrder()))
	}
	if e.Projections() != 1 {
		t.Errorf("Projections = %d, want 1", e.Projections())
	}
	if e.Camera().State() != DefaultCameraState {
		t.Errorf("camera = %+v", e.Camera().State())
	}
	if e.Solver().Alpha != 1 || !e.Solver().Active() {
		t.Error("solver not armed")
	}
	if e.Viewport() != (Rect{Width: 300, Height: 180}) {
		t.Errorf("Viewport = %+v", e.Viewport())
	}
	if e.ID() == "" || e.ID() == newTestEngine(t, single).ID() {
		t.Error("engine ids must be unique")
	}
}

func TestEngineUpdateAdvancesClock(t *testing.T) {
	e := newTestEngine(t, sampleLabels())
	for i := 0; i < 5; i++ {
		if !e.Update(0.1) {
			t.Fatal("Update returned false on a live engine")
		}
	}
	if e.Clock().Ticks() != 5 || e.Solver().Steps() != 5 {
		t.Errorf("ticks = %d, steps = %d", e.Clock().Ticks(), e.Solver().Steps())
	}
}

func TestEngineDispose(t *testing.T) {
	e, rec := engineWithRecorder(t, single)
	e.ProcessPointer(0, singleX, singleY, true)
	e.ProcessPointer(0, singleX, singleY, false)
	events := len(rec.events)

	e.Dispose()
	e.Dispose()
	if !e.IsDisposed() {
		t.Fatal("IsDisposed = false")
	}
	if e.Update(0.1) {
		t.Error("Update on a disposed engine returned true")
	}
	if e.Clock().Alive() {
		t.Error("clock still alive")
	}
	if e.Nodes() != nil || e.Selected() != nil {
		t.Error("disposed engine kept nodes or selection")
	}
	e.ProcessPointer(0, singleX, singleY, true)
	e.Wheel(1)
	e.Select(&Node{})
	e.NavigationDone()
	e.ResetCamera(0)
	if len(rec.events) != events {
		t.Errorf("disposed engine emitted %v", rec.types()[events:])
	}
}

func TestResetCameraUnwindsToNearestTurn(t *testing.T) {
	tests := []struct {
		rotY, want float64
	}{
		{0.5, 0},
		{4*math.Pi + 0.5, 4 * math.Pi},
		{5, 2 * math.Pi},
		{-7, -2 * math.Pi},
	}
	for _, tt := range tests {
		e := newTestEngine(t, single)
		e.Camera().SetRotation(0.4, tt.rotY)
		e.Camera().SetScale(1.6)
		e.ResetCamera(0)
		got := e.Camera().State()
		if got.RotX != 0 || got.Scale != 1 || math.Abs(got.RotY-tt.want) > 1e-9 {
			t.Errorf("rotY %g: reset to %+v, want RotY %g", tt.rotY, got, tt.want)
		}
	}
}

func TestResetCameraAnimated(t *testing.T) {
	e := newTestEngine(t, single)
	e.Camera().SetRotation(0.4, 1)
	e.Camera().SetScale(1.6)
	e.ResetCamera(0.5)
	if !e.Camera().Animating() {
		t.Fatal("camera not animating")
	}
	for i := 0; i < 8; i++ {
		e.Update(0.1)
	}
	cam := e.Camera()
	if cam.Animating() || !approx(cam.RotX, 0) || !approx(cam.RotY, 0) || !approx(cam.Scale, 1) {
		t.Errorf("camera = %+v animating=%v", cam.State(), cam.Animating())
	}
}

func TestAutoRotateAfterIdle(t *testing.T) {
	cfg := testConfig()
	cfg.AutoRotate = true
	e, err := NewEngine(single, cfg)
	if err != nil {
		t.Fatal(err)
	}
	e.Update(2)
	if e.Camera().RotY != 0 {
		t.Fatalf("rotated before the idle delay: RotY %g", e.Camera().RotY)
	}
	e.Update(2)
	if math.Abs(e.Camera().RotY-0.36) > 1e-9 {
		t.Errorf("RotY = %g, want 0.36", e.Camera().RotY)
	}

	// Interaction restarts the idle delay.
	e.Wheel(1)
	rot := e.Camera().RotY
	e.Update(2)
	if e.Camera().RotY != rot {
		t.Error("rotated right after an interaction")
	}
}

func TestAutoRotateStopsWhileHovering(t *testing.T) {
	cfg := testConfig()
	cfg.AutoRotate = true
	cfg.IdleDelay = 0
	e, err := NewEngine(single, cfg)
	if err != nil {
		t.Fatal(err)
	}
	e.ProcessPointer(0, singleX, singleY, false)
	if e.Hovered() == nil {
		t.Fatal("node not hovered")
	}
	e.Update(1)
	if e.Camera().RotY != 0 {
		t.Errorf("RotY = %g while hovering", e.Camera().RotY)
	}
}

func TestSetOriginShiftsProjection(t *testing.T) {
	e := newTestEngine(t, single)
	e.SetOrigin(100, 50)
	e.Update(0.1)
	n := e.Nodes()[0]
	if math.Abs(n.Screen.X-250) > 1e-9 {
		t.Errorf("Screen.X = %g, want 250", n.Screen.X)
	}
	if e.Viewport().X != 100 || e.Viewport().Y != 50 {
		t.Errorf("Viewport = %+v", e.Viewport())
	}
}
