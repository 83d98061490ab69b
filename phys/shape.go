package phys

import "github.com/go-gl/mathgl/mgl64"

// ShapeKind identifies a collider geometry.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCapsule
	ShapeCone
)

// Shape is a collider attached to a body at a local offset.
type Shape struct {
	body *Body
	kind ShapeKind

	// box
	half mgl64.Vec3
	// capsule/cone
	radius     float64
	halfHeight float64

	offset   mgl64.Vec3
	sensor   bool
	friction float64
	density  float64
}

// NewBox creates a box collider with the given half extents.
func NewBox(half mgl64.Vec3) *Shape {
	return &Shape{kind: ShapeBox, half: half, friction: 0.8, density: 1}
}

// NewCapsule creates a vertical capsule collider.
func NewCapsule(radius, halfHeight float64) *Shape {
	return &Shape{kind: ShapeCapsule, radius: radius, halfHeight: halfHeight, friction: 0.8, density: 1}
}

// NewCone creates a cone collider (spike geometry).
func NewCone(radius, halfHeight float64) *Shape {
	return &Shape{kind: ShapeCone, radius: radius, halfHeight: halfHeight, friction: 0.8, density: 1}
}

// Kind returns the collider geometry kind.
func (s *Shape) Kind() ShapeKind {
	if s == nil {
		return ShapeBox
	}
	return s.kind
}

// Body returns the owning body, or nil for a detached shape.
func (s *Shape) Body() *Body {
	if s == nil {
		return nil
	}
	return s.body
}

// HalfExtents returns box half extents.
func (s *Shape) HalfExtents() mgl64.Vec3 {
	if s == nil {
		return mgl64.Vec3{}
	}
	return s.half
}

// Radius returns the capsule/cone radius.
func (s *Shape) Radius() float64 {
	if s == nil {
		return 0
	}
	return s.radius
}

// HalfHeight returns the capsule/cone half height.
func (s *Shape) HalfHeight() float64 {
	if s == nil {
		return 0
	}
	return s.halfHeight
}

// SetOffset positions the shape relative to its body origin.
func (s *Shape) SetOffset(off mgl64.Vec3) {
	if s == nil {
		return
	}
	s.offset = off
}

// Offset returns the local offset from the body origin.
func (s *Shape) Offset() mgl64.Vec3 {
	if s == nil {
		return mgl64.Vec3{}
	}
	return s.offset
}

// SetSensor marks the shape as a non-solid overlap detector.
func (s *Shape) SetSensor(sensor bool) {
	if s == nil {
		return
	}
	s.sensor = sensor
}

// Sensor reports whether the shape is a sensor.
func (s *Shape) Sensor() bool {
	return s != nil && s.sensor
}

// SetFriction sets the contact friction coefficient.
func (s *Shape) SetFriction(f float64) {
	if s == nil || f < 0 {
		return
	}
	s.friction = f
}

// SetDensity sets the shape density.
func (s *Shape) SetDensity(d float64) {
	if s == nil || d <= 0 {
		return
	}
	s.density = d
}
