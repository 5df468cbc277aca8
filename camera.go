package tagsphere

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxPitch bounds RotX so the cloud never flips over a pole.
const maxPitch = math.Pi / 2

// CameraState is the restorable part of a Camera.
type CameraState struct {
	RotX, RotY float64
	Scale      float64
}

// DefaultCameraState is the state a fresh engine starts with.
var DefaultCameraState = CameraState{Scale: 1}

// rotateAnim holds active tweens returning the camera to a target state.
type rotateAnim struct {
	rotX, rotY, scale *gween.Tween
}

// Camera controls the view onto the cloud: rotation, zoom and idle state.
// RotX stays in [-π/2, π/2] and Scale in [MinScale, MaxScale]; every mutator
// enforces both.
type Camera struct {
	// RotX is the pitch in radians, applied first.
	RotX float64
	// RotY is the yaw in radians, applied second.
	RotY float64
	// Scale multiplies projected X/Y.
	Scale float64

	MinScale, MaxScale float64

	// AutoRotate advances the yaw while the user is idle.
	AutoRotate bool
	// LastInteraction is the clock time of the last drag, pinch or wheel.
	LastInteraction float64

	dirty bool
	anim  *rotateAnim
}

// newCamera creates a Camera in the default state.
func newCamera(cfg *Config) *Camera {
	return &Camera{
		Scale:      1,
		MinScale:   cfg.MinScale,
		MaxScale:   cfg.MaxScale,
		AutoRotate: cfg.AutoRotate,
		dirty:      true,
	}
}

// Rotate adds dx to the yaw and dy to the pitch, clamping the pitch.
func (c *Camera) Rotate(dx, dy float64) {
	c.SetRotation(c.RotX+dy, c.RotY+dx)
}

// SetRotation sets pitch and yaw. The pitch is clamped.
func (c *Camera) SetRotation(x, y float64) {
	c.anim = nil
	c.RotX = clamp(x, -maxPitch, maxPitch)
	c.RotY = y
	c.dirty = true
}

// SetScale sets the zoom, clamped to [MinScale, MaxScale].
func (c *Camera) SetScale(s float64) {
	c.anim = nil
	c.Scale = clamp(s, c.MinScale, c.MaxScale)
	c.dirty = true
}

// Zoom adds delta to the scale.
func (c *Camera) Zoom(delta float64) {
	c.SetScale(c.Scale + delta)
}

// State returns the current rotation and scale.
func (c *Camera) State() CameraState {
	return CameraState{RotX: c.RotX, RotY: c.RotY, Scale: c.Scale}
}

// Restore applies a saved state, clamped to this camera's limits.
func (c *Camera) Restore(s CameraState) {
	c.SetRotation(s.RotX, s.RotY)
	c.SetScale(s.Scale)
}

// AnimateTo tweens the camera to s over duration seconds.
func (c *Camera) AnimateTo(s CameraState, duration float32, easeFn ease.TweenFunc) {
	c.anim = &rotateAnim{
		rotX:  gween.New(float32(c.RotX), float32(clamp(s.RotX, -maxPitch, maxPitch)), duration, easeFn),
		rotY:  gween.New(float32(c.RotY), float32(s.RotY), duration, easeFn),
		scale: gween.New(float32(c.Scale), float32(clamp(s.Scale, c.MinScale, c.MaxScale)), duration, easeFn),
	}
}

// Animating reports whether an AnimateTo tween is in progress.
func (c *Camera) Animating() bool { return c.anim != nil }

// update advances any AnimateTo tween. Called from the engine tick.
func (c *Camera) update(dt float32) {
	if c.anim == nil {
		return
	}
	x, doneX := c.anim.rotX.Update(dt)
	y, doneY := c.anim.rotY.Update(dt)
	s, doneS := c.anim.scale.Update(dt)
	c.RotX = clamp(float64(x), -maxPitch, maxPitch)
	c.RotY = float64(y)
	c.Scale = clamp(float64(s), c.MinScale, c.MaxScale)
	c.dirty = true
	if doneX && doneY && doneS {
		c.anim = nil
	}
}

// Apply rotates p about X then Y. The order is fixed.
func (c *Camera) Apply(p Vec3) Vec3 {
	return p.RotateX(c.RotX).RotateY(c.RotY)
}

// MarkDirty forces a projection pass on the next tick.
func (c *Camera) MarkDirty() { c.dirty = true }
