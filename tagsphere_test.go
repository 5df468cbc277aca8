package tagsphere

import (
	"errors"
	"math"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ffffff", Color{1, 1, 1, 1}, false},
		{"000000", Color{0, 0, 0, 1}, false},
		{"#f00", Color{1, 0, 0, 1}, false},
		{"#00ff0080", Color{0, 1, 0, 128.0 / 255}, false},
		{"#47BAC1", ThemeColor, false},
		{"#12345", Color{}, true},
		{"#gggggg", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestColorScaleAndLerp(t *testing.T) {
	c := Color{0.5, 0.8, 1, 0.4}
	s := c.Scale(0.5)
	if s != (Color{0.25, 0.4, 0.5, 0.4}) {
		t.Errorf("Scale = %+v", s)
	}
	if got := c.Scale(3); got.R != 1 || got.G != 1 || got.B != 1 {
		t.Errorf("Scale did not clamp: %+v", got)
	}
	if got := c.Lerp(ColorWhite, 0); got != c {
		t.Errorf("Lerp(0) = %+v", got)
	}
	if got := c.Lerp(ColorWhite, 1); got != ColorWhite {
		t.Errorf("Lerp(1) = %+v", got)
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	got := Color{1, 0.5, 0, 0.5}.toRGBA()
	if got.A != 128 || got.R != 128 || got.G != 64 || got.B != 0 {
		t.Errorf("toRGBA = %+v", got)
	}
}

func TestAxesFor(t *testing.T) {
	a := AxesFor(300, 180, 0.35)
	if math.Abs(a.X-105) > 1e-9 || math.Abs(a.Y-63) > 1e-9 || math.Abs(a.Z-63) > 1e-9 {
		t.Errorf("AxesFor(300, 180) = %+v", a)
	}
	if a.Max() != a.X {
		t.Errorf("Max = %g", a.Max())
	}
	tall := AxesFor(100, 400, 0.5)
	if tall.Z != 50 {
		t.Errorf("Z uses min(width, height): %+v", tall)
	}
}

func TestManifold(t *testing.T) {
	a := Axes{X: 2, Y: 3, Z: 4}
	for _, p := range []Vec3{{2, 0, 0}, {0, -3, 0}, {0, 0, 4}} {
		if got := a.Manifold(p); math.Abs(got-1) > 1e-12 {
			t.Errorf("Manifold(%+v) = %g, want 1", p, got)
		}
	}
	if got := a.Manifold(Vec3{}); got != 0 {
		t.Errorf("Manifold(origin) = %g", got)
	}
}

func TestVec3Rotate(t *testing.T) {
	v := Vec3{X: 0, Y: 1, Z: 0}.RotateX(math.Pi / 2)
	if math.Abs(v.Y) > 1e-12 || math.Abs(v.Z-1) > 1e-12 {
		t.Errorf("RotateX(π/2) of +Y = %+v, want +Z", v)
	}
	w := Vec3{X: 1}.RotateY(math.Pi / 2)
	if math.Abs(w.X) > 1e-12 || math.Abs(w.Z+1) > 1e-12 {
		t.Errorf("RotateY(π/2) of +X = %+v, want -Z", w)
	}
	p := Vec3{1, 2, 3}
	if l := p.RotateX(0.7).RotateY(-1.3).Len(); math.Abs(l-p.Len()) > 1e-12 {
		t.Errorf("rotation changed length: %g vs %g", l, p.Len())
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside bottom", 50, 75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
	if c := r.Center(); c != (Vec2{60, 45}) {
		t.Errorf("Center = %+v", c)
	}
	if !r.Intersects(Rect{X: 110, Y: 70, Width: 5, Height: 5}) {
		t.Error("edge-adjacent rects should intersect")
	}
	if !r.ContainsRect(Rect{X: 20, Y: 30, Width: 10, Height: 10}) || r.ContainsRect(Rect{X: 0, Y: 0, Width: 20, Height: 20}) {
		t.Error("ContainsRect")
	}
}

func TestEventTypeString(t *testing.T) {
	if EventHoverEnter.String() != "hover-enter" || EventReset.String() != "reset" {
		t.Errorf("names: %s %s", EventHoverEnter, EventReset)
	}
	if EventType(200).String() != "unknown" {
		t.Error("out-of-range type should be unknown")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero radius", func(c *Config) { c.RadiusFactor = 0 }},
		{"inverted fonts", func(c *Config) { c.MinFontSize = 30 }},
		{"negative padding", func(c *Config) { c.Padding = -1 }},
		{"decay one", func(c *Config) { c.AlphaDecay = 1 }},
		{"zero alpha min", func(c *Config) { c.AlphaMin = 0 }},
		{"inverted scale", func(c *Config) { c.MinScale = 3 }},
		{"opacity above one", func(c *Config) { c.MinOpacity = 1.5 }},
		{"empty palette", func(c *Config) { c.UsePalette = true; c.Palette = nil }},
	}
	good := DefaultConfig()
	if err := good.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestContainerHeight(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct{ width, want float64 }{
		{200, 120},
		{300, 180},
		{600, 180},
	}
	for _, tt := range tests {
		if got := cfg.ContainerHeight(tt.width); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ContainerHeight(%g) = %g, want %g", tt.width, got, tt.want)
		}
	}
	cfg.MaxHeight = 0
	if got := cfg.ContainerHeight(600); math.Abs(got-360) > 1e-9 {
		t.Errorf("unbounded ContainerHeight(600) = %g", got)
	}
}
