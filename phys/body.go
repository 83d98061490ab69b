package phys

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BodyType selects how a body is advanced by the space.
type BodyType int

const (
	// BodyFixed never moves.
	BodyFixed BodyType = iota
	// BodyKinematic is driven by SetNextKinematicTranslation/Rotation.
	BodyKinematic
	// BodyDynamic integrates gravity and impulses.
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyFixed:
		return "fixed"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	}
	return "unknown"
}

// Body is a rigid body owned by a Space. Once removed from its space the
// handle goes stale; IsValid reports liveness and all accessors on a stale
// body return zero values instead of touching freed state.
type Body struct {
	space   *Space
	typ     BodyType
	removed bool

	pos    mgl64.Vec3
	rot    mgl64.Quat
	vel    mgl64.Vec3
	angVel mgl64.Vec3

	mass       float64
	linDamping float64
	angDamping float64
	lockRot    bool

	hasNextPos bool
	nextPos    mgl64.Vec3
	hasNextRot bool
	nextRot    mgl64.Quat

	// velocity observed during the last kinematic step, for carry physics
	kinVel mgl64.Vec3

	shapes []*Shape

	// UserData is an opaque back-reference for consumers.
	UserData any
}

// NewBody creates a detached body of the given type at a position.
func NewBody(typ BodyType, pos mgl64.Vec3) *Body {
	return &Body{
		typ:  typ,
		pos:  pos,
		rot:  mgl64.QuatIdent(),
		mass: 1,
	}
}

// Type returns the body type.
func (b *Body) Type() BodyType {
	if b == nil {
		return BodyFixed
	}
	return b.typ
}

// IsValid reports whether the body is still owned by a space.
func (b *Body) IsValid() bool {
	return b != nil && !b.removed
}

// Translation returns the body's world position.
func (b *Body) Translation() mgl64.Vec3 {
	if !b.IsValid() {
		return mgl64.Vec3{}
	}
	return b.pos
}

// Rotation returns the body's world orientation.
func (b *Body) Rotation() mgl64.Quat {
	if !b.IsValid() {
		return mgl64.QuatIdent()
	}
	return b.rot
}

// Linvel returns the linear velocity. For kinematic bodies this is the
// velocity implied by the last committed kinematic transform.
func (b *Body) Linvel() mgl64.Vec3 {
	if !b.IsValid() {
		return mgl64.Vec3{}
	}
	if b.typ == BodyKinematic {
		return b.kinVel
	}
	return b.vel
}

// Angvel returns the angular velocity vector.
func (b *Body) Angvel() mgl64.Vec3 {
	if !b.IsValid() {
		return mgl64.Vec3{}
	}
	return b.angVel
}

// Mass returns the body mass.
func (b *Body) Mass() float64 {
	if !b.IsValid() {
		return 0
	}
	return b.mass
}

// SetMass sets the body mass. Non-positive values are ignored.
func (b *Body) SetMass(m float64) {
	if !b.IsValid() || m <= 0 {
		return
	}
	b.mass = m
}

// SetTranslation teleports the body.
func (b *Body) SetTranslation(p mgl64.Vec3) {
	if !b.IsValid() {
		return
	}
	b.pos = p
}

// SetRotation sets the body orientation.
func (b *Body) SetRotation(q mgl64.Quat) {
	if !b.IsValid() {
		return
	}
	b.rot = q.Normalize()
}

// SetLinvel overwrites the linear velocity.
func (b *Body) SetLinvel(v mgl64.Vec3) {
	if !b.IsValid() {
		return
	}
	b.vel = v
}

// SetAngvel overwrites the angular velocity.
func (b *Body) SetAngvel(v mgl64.Vec3) {
	if !b.IsValid() {
		return
	}
	b.angVel = v
}

// ApplyImpulse adds impulse/mass to the linear velocity of a dynamic body.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	if !b.IsValid() || b.typ != BodyDynamic || b.mass <= 0 {
		return
	}
	b.vel = b.vel.Add(impulse.Mul(1 / b.mass))
}

// ApplyTorqueImpulse adds an angular impulse to a dynamic body.
func (b *Body) ApplyTorqueImpulse(impulse mgl64.Vec3) {
	if !b.IsValid() || b.typ != BodyDynamic || b.lockRot {
		return
	}
	b.angVel = b.angVel.Add(impulse.Mul(1 / b.mass))
}

// SetNextKinematicTranslation stages the position a kinematic body moves to
// on the next step.
func (b *Body) SetNextKinematicTranslation(p mgl64.Vec3) {
	if !b.IsValid() || b.typ != BodyKinematic {
		return
	}
	b.nextPos = p
	b.hasNextPos = true
}

// SetNextKinematicRotation stages the orientation a kinematic body rotates to
// on the next step.
func (b *Body) SetNextKinematicRotation(q mgl64.Quat) {
	if !b.IsValid() || b.typ != BodyKinematic {
		return
	}
	b.nextRot = q.Normalize()
	b.hasNextRot = true
}

// LockRotations prevents angular integration (upright characters).
func (b *Body) LockRotations() {
	if !b.IsValid() {
		return
	}
	b.lockRot = true
	b.angVel = mgl64.Vec3{}
}

// SetLinearDamping sets proportional velocity decay per second.
func (b *Body) SetLinearDamping(d float64) {
	if !b.IsValid() || d < 0 {
		return
	}
	b.linDamping = d
}

// SetAngularDamping sets proportional angular velocity decay per second.
func (b *Body) SetAngularDamping(d float64) {
	if !b.IsValid() || d < 0 {
		return
	}
	b.angDamping = d
}

// Shapes returns the colliders attached to the body.
func (b *Body) Shapes() []*Shape {
	if !b.IsValid() {
		return nil
	}
	return b.shapes
}
