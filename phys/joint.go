package phys

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNilJointBody is returned when a joint is created without two bodies.
var ErrNilJointBody = errors.New("phys: revolute joint requires two bodies")

const degenerateAxisEpsilon = 1e-9

// defaultJointAxis is used when a caller passes a degenerate axis.
var defaultJointAxis = mgl64.Vec3{1, 0, 0}

// RevoluteJoint hinges bodyB around an anchor on bodyA along a single axis.
// The attached body keeps its anchor point coincident with the anchor body's
// and only rotates about the joint axis.
type RevoluteJoint struct {
	space   *Space
	removed bool

	bodyA   *Body
	bodyB   *Body
	anchorA  mgl64.Vec3 // local to bodyA
	anchorB  mgl64.Vec3 // local to bodyB
	axis     mgl64.Vec3 // world space, unit length
	fellBack bool
}

// NewRevoluteJoint builds a hinge between two bodies. A degenerate axis falls
// back to the default axis rather than failing.
func NewRevoluteJoint(a, b *Body, anchorA, anchorB, axis mgl64.Vec3) (*RevoluteJoint, error) {
	if a == nil || b == nil {
		return nil, ErrNilJointBody
	}
	fellBack := false
	if axis.Len() < degenerateAxisEpsilon {
		axis = defaultJointAxis
		fellBack = true
	} else {
		axis = axis.Normalize()
	}
	return &RevoluteJoint{
		bodyA:    a,
		bodyB:    b,
		anchorA:  anchorA,
		anchorB:  anchorB,
		axis:     axis,
		fellBack: fellBack,
	}, nil
}

// FellBack reports whether a degenerate axis was replaced with the default.
func (j *RevoluteJoint) FellBack() bool {
	return j != nil && j.fellBack
}

// IsValid reports whether the joint is still owned by a space.
func (j *RevoluteJoint) IsValid() bool {
	return j != nil && !j.removed && j.space != nil
}

// Axis returns the world-space hinge axis.
func (j *RevoluteJoint) Axis() mgl64.Vec3 {
	if j == nil {
		return defaultJointAxis
	}
	return j.axis
}

// enforce pins bodyB's anchor to bodyA's world anchor and restricts angular
// velocity to the hinge axis.
func (j *RevoluteJoint) enforce() {
	if j == nil || j.removed || !j.bodyA.IsValid() || !j.bodyB.IsValid() {
		return
	}
	worldAnchor := j.bodyA.rot.Rotate(j.anchorA).Add(j.bodyA.pos)
	bOffset := j.bodyB.rot.Rotate(j.anchorB)
	j.bodyB.pos = worldAnchor.Sub(bOffset)

	// project angular velocity onto the hinge axis
	w := j.bodyB.angVel.Dot(j.axis)
	j.bodyB.angVel = j.axis.Mul(w)

	// kill linear drift; the hinge carries the platform
	j.bodyB.vel = mgl64.Vec3{}
}
