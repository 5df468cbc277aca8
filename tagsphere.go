package tagsphere

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the emphasis target for hovered labels.
var ColorWhite = Color{1, 1, 1, 1}

// ThemeColor is the default label color (#47BAC1).
var ThemeColor = Color{R: 0x47 / 255.0, G: 0xBA / 255.0, B: 0xC1 / 255.0, A: 1}

// Scale multiplies the RGB components by f, leaving alpha untouched.
// Used for depth-driven brightness.
func (c Color) Scale(f float64) Color {
	return Color{R: clamp01(c.R * f), G: clamp01(c.G * f), B: clamp01(c.B * f), A: c.A}
}

// Lerp linearly interpolates from c toward to by t in [0, 1].
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading '#' is
// optional).
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("tagsphere: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("tagsphere: invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Vec2 is a 2D vector used for screen positions.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector used for label positions on the manifold.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns v scaled by s.
func (v Vec3) Mul(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// RotateX rotates the vector around the X axis.
func (v Vec3) RotateX(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// RotateY rotates the vector around the Y axis.
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Axes are the semi-axes of the target ellipsoid. A sphere has all three equal.
type Axes struct {
	X, Y, Z float64
}

// AxesFor derives the manifold semi-axes for a container of the given size:
// factor·width, factor·height and factor·min(width, height).
func AxesFor(width, height, factor float64) Axes {
	return Axes{
		X: width * factor,
		Y: height * factor,
		Z: math.Min(width, height) * factor,
	}
}

// Max returns the largest semi-axis.
func (a Axes) Max() float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}

// Manifold evaluates the implicit ellipsoid function
// (x/a)² + (y/b)² + (z/c)². Points on the surface evaluate to 1.
func (a Axes) Manifold(p Vec3) float64 {
	x := p.X / a.X
	y := p.Y / a.Y
	z := p.Z / a.Z
	return x*x + y*y + z*z
}

// gradient returns ∇f of the implicit ellipsoid function at p.
func (a Axes) gradient(p Vec3) Vec3 {
	return Vec3{
		X: 2 * p.X / (a.X * a.X),
		Y: 2 * p.Y / (a.Y * a.Y),
		Z: 2 * p.Z / (a.Z * a.Z),
	}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// EventType identifies a kind of engine event.
type EventType uint8

const (
	EventHoverEnter  EventType = iota // pointer entered a label
	EventHoverLeave                   // pointer left a label
	EventClick                        // press then release on the same label without dragging
	EventDragStart                    // movement exceeded the drag threshold
	EventDrag                         // fires for every move while dragging
	EventDragEnd                      // pointer released after dragging
	EventPinch                        // two-finger pinch changed the camera scale
	EventWheel                        // wheel changed the camera scale
	EventSelect                       // a label's selection animation started
	EventNavigate                     // a label requests navigation to its URL
	EventReset                        // the selection was released and the solver re-armed
)

var eventNames = [...]string{
	EventHoverEnter: "hover-enter",
	EventHoverLeave: "hover-leave",
	EventClick:      "click",
	EventDragStart:  "drag-start",
	EventDrag:       "drag",
	EventDragEnd:    "drag-end",
	EventPinch:      "pinch",
	EventWheel:      "wheel",
	EventSelect:     "select",
	EventNavigate:   "navigate",
	EventReset:      "reset",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// GestureState is the per-pointer interaction state.
type GestureState uint8

const (
	GestureIdle          GestureState = iota // no button held
	GesturePotentialDrag                     // pressed, still under the drag threshold
	GestureDragging                          // pressed and moved past the threshold
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
