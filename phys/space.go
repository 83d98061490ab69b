package phys

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrAlreadyRemoved is returned when removing a body or joint twice. Callers
// treat it as a no-op rather than a failure.
var ErrAlreadyRemoved = errors.New("phys: already removed")

// Space owns every body and joint and advances them by fixed steps.
type Space struct {
	gravity mgl64.Vec3
	bodies  []*Body
	joints  []*RevoluteJoint
}

// NewSpace creates an empty space with the given gravity.
func NewSpace(gravity mgl64.Vec3) *Space {
	return &Space{gravity: gravity}
}

// Gravity returns the space gravity vector.
func (s *Space) Gravity() mgl64.Vec3 {
	if s == nil {
		return mgl64.Vec3{}
	}
	return s.gravity
}

// AddBody takes ownership of a body.
func (s *Space) AddBody(b *Body) {
	if s == nil || b == nil || b.removed || b.space != nil {
		return
	}
	b.space = s
	s.bodies = append(s.bodies, b)
}

// AddShape attaches a shape to a body owned by this space.
func (s *Space) AddShape(b *Body, shape *Shape) {
	if s == nil || !b.IsValid() || shape == nil || shape.body != nil {
		return
	}
	shape.body = b
	b.shapes = append(b.shapes, shape)
}

// RemoveShape detaches a shape from its body.
func (s *Space) RemoveShape(shape *Shape) error {
	if s == nil || shape == nil {
		return ErrAlreadyRemoved
	}
	b := shape.body
	if b == nil {
		return ErrAlreadyRemoved
	}
	for i, sh := range b.shapes {
		if sh == shape {
			b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
			shape.body = nil
			return nil
		}
	}
	return ErrAlreadyRemoved
}

// RemoveBody releases a body and its shapes. Joints referencing the body must
// be removed first; removal order matters and violating it is a real error,
// not an already-removed no-op.
func (s *Space) RemoveBody(b *Body) error {
	if s == nil || b == nil || b.removed {
		return ErrAlreadyRemoved
	}
	for _, j := range s.joints {
		if j.removed {
			continue
		}
		if j.bodyA == b || j.bodyB == b {
			return fmt.Errorf("phys: body still referenced by a joint")
		}
	}
	for i, body := range s.bodies {
		if body == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			b.removed = true
			b.space = nil
			b.shapes = nil
			return nil
		}
	}
	return ErrAlreadyRemoved
}

// AddJoint takes ownership of a joint. Both bodies must live in this space.
func (s *Space) AddJoint(j *RevoluteJoint) error {
	if s == nil || j == nil {
		return ErrNilJointBody
	}
	if !j.bodyA.IsValid() || !j.bodyB.IsValid() || j.bodyA.space != s || j.bodyB.space != s {
		return fmt.Errorf("phys: joint bodies not owned by this space")
	}
	j.space = s
	s.joints = append(s.joints, j)
	return nil
}

// RemoveJoint releases a joint.
func (s *Space) RemoveJoint(j *RevoluteJoint) error {
	if s == nil || j == nil || j.removed {
		return ErrAlreadyRemoved
	}
	for i, joint := range s.joints {
		if joint == j {
			s.joints = append(s.joints[:i], s.joints[i+1:]...)
			j.removed = true
			j.space = nil
			return nil
		}
	}
	return ErrAlreadyRemoved
}

// Step advances the simulation by dt seconds.
func (s *Space) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}

	for _, b := range s.bodies {
		switch b.typ {
		case BodyKinematic:
			s.stepKinematic(b, dt)
		case BodyDynamic:
			s.stepDynamic(b, dt)
		}
	}

	for _, j := range s.joints {
		j.enforce()
	}

	for _, b := range s.bodies {
		if b.typ == BodyDynamic {
			s.resolveSupport(b)
		}
	}
}

func (s *Space) stepKinematic(b *Body, dt float64) {
	if b.hasNextPos {
		b.kinVel = b.nextPos.Sub(b.pos).Mul(1 / dt)
		b.pos = b.nextPos
		b.hasNextPos = false
	} else {
		b.kinVel = mgl64.Vec3{}
	}
	if b.hasNextRot {
		b.rot = b.nextRot
		b.hasNextRot = false
	}
}

func (s *Space) stepDynamic(b *Body, dt float64) {
	b.vel = b.vel.Add(s.gravity.Mul(dt))
	if b.linDamping > 0 {
		b.vel = b.vel.Mul(1 / (1 + b.linDamping*dt))
	}
	b.pos = b.pos.Add(b.vel.Mul(dt))

	if b.lockRot {
		return
	}
	if b.angDamping > 0 {
		b.angVel = b.angVel.Mul(1 / (1 + b.angDamping*dt))
	}
	if w := b.angVel.Len(); w > 1e-12 {
		spin := mgl64.QuatRotate(w*dt, b.angVel.Mul(1/w))
		b.rot = spin.Mul(b.rot).Normalize()
	}
}

// resolveSupport keeps descending capsule bodies from sinking through the top
// face of box colliders. This is platformer support contact only; lateral
// collision response is not modeled.
func (s *Space) resolveSupport(b *Body) {
	capsule := b.capsuleShape()
	if capsule == nil || b.vel.Y() > 0 {
		return
	}
	bottom := b.pos.Y() + capsule.offset.Y() - capsule.halfHeight - capsule.radius

	for _, other := range s.bodies {
		if other == b {
			continue
		}
		for _, shape := range other.shapes {
			if shape.kind != ShapeBox || shape.sensor {
				continue
			}
			topY, inside := boxTopAt(other, shape, b.pos)
			if !inside {
				continue
			}
			// only snap when the bottom has passed slightly through the top
			if bottom < topY && bottom > topY-0.5 {
				lift := topY - bottom
				b.pos = mgl64.Vec3{b.pos.X(), b.pos.Y() + lift, b.pos.Z()}
				if b.vel.Y() < 0 {
					b.vel = mgl64.Vec3{b.vel.X(), 0, b.vel.Z()}
				}
				bottom = topY
			}
		}
	}
}

func (b *Body) capsuleShape() *Shape {
	if !b.IsValid() {
		return nil
	}
	for _, sh := range b.shapes {
		if sh.kind == ShapeCapsule {
			return sh
		}
	}
	return nil
}

// boxTopAt returns the world Y of the top face of a box shape under a world
// point, and whether the point is horizontally inside the face.
func boxTopAt(body *Body, shape *Shape, at mgl64.Vec3) (float64, bool) {
	if !body.IsValid() || shape == nil || shape.kind != ShapeBox {
		return 0, false
	}
	center := body.rot.Rotate(shape.offset).Add(body.pos)
	local := body.rot.Inverse().Rotate(at.Sub(center))
	half := shape.half
	margin := 0.05
	if local.X() < -half.X()-margin || local.X() > half.X()+margin {
		return 0, false
	}
	if local.Z() < -half.Z()-margin || local.Z() > half.Z()+margin {
		return 0, false
	}
	topLocal := mgl64.Vec3{local.X(), half.Y(), local.Z()}
	top := body.rot.Rotate(topLocal).Add(center)
	return top.Y(), true
}
