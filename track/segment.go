package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/phys"
	"github.com/milk9111/lavarunner/sched"
)

// MotionType is the kinematic motion variant of a platform.
type MotionType uint8

const (
	MotionStatic MotionType = iota
	MotionTranslateX
	MotionTranslateY
	MotionRotateX
	MotionRotateZ
	MotionRotateXFree
	MotionRotateZFree
	MotionSpinCW
	MotionSpinCCW
)

func (m MotionType) String() string {
	switch m {
	case MotionStatic:
		return "static"
	case MotionTranslateX:
		return "translate_x"
	case MotionTranslateY:
		return "translate_y"
	case MotionRotateX:
		return "rotate_x"
	case MotionRotateZ:
		return "rotate_z"
	case MotionRotateXFree:
		return "rotate_x_free"
	case MotionRotateZFree:
		return "rotate_z_free"
	case MotionSpinCW:
		return "spin_cw"
	case MotionSpinCCW:
		return "spin_ccw"
	}
	return "unknown"
}

// kinematicMotions is the pool the translate-mode generator draws from.
var kinematicMotions = []MotionType{
	MotionTranslateX,
	MotionTranslateY,
	MotionRotateX,
	MotionRotateZ,
	MotionRotateXFree,
	MotionRotateZFree,
	MotionSpinCW,
	MotionSpinCCW,
}

// CrumbleState is the crumble platform lifecycle phase.
type CrumbleState uint8

const (
	CrumbleStable CrumbleState = iota
	CrumbleWarning
	CrumbleFalling
	CrumbleDestroyed
)

func (c CrumbleState) String() string {
	switch c {
	case CrumbleStable:
		return "stable"
	case CrumbleWarning:
		return "warning"
	case CrumbleFalling:
		return "falling"
	case CrumbleDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// TiltKind classifies teeter platforms by their hinge axis.
type TiltKind uint8

const (
	TiltNone TiltKind = iota
	TiltX
	TiltZ
)

// HazardZone is a spike volume attached to a platform by local offset. The
// body reference is non-owning; a stale reference marks the zone removed on
// the next access.
type HazardZone struct {
	body *phys.Body

	Local      mgl64.Vec3
	Radius     float64
	HalfHeight float64
	Damage     float64

	cooldown float64
	Removed  bool
}

// motionState is the per-segment randomized motion parameters plus the
// oscillator's live state.
type motionState struct {
	typ MotionType

	origin    mgl64.Vec3
	originRot mgl64.Quat

	extent float64 // translate amplitude
	limit  float64 // rotate amplitude, radians
	speed  float64

	dir       float64 // +1 or -1
	pauseLeft float64

	offset float64 // current translate offset along the motion axis
	angle  float64 // current rotate angle

	// instantaneous samples for carry physics, refreshed each fixed tick
	linVel  mgl64.Vec3
	angVel  float64
	angAxis mgl64.Vec3
}

// Segment is one pooled platform unit of the track.
type Segment struct {
	Index   int
	Pos     mgl64.Vec3
	Heading float64
	Tilt    TiltKind

	Body   *phys.Body
	Joint  *phys.RevoluteJoint
	anchor *phys.Body // fixed hinge anchor for teeter platforms

	IsCrumble    bool
	Crumble      CrumbleState
	crumbleToken *sched.Token

	Motion motionState
	Zones  []HazardZone

	Tint [3]float64

	handle Handle
	live   bool
}

// MotionKind returns the segment's motion variant.
func (s *Segment) MotionKind() MotionType {
	if s == nil {
		return MotionStatic
	}
	return s.Motion.typ
}

// Spinning reports yaw-axis continuous rotation.
func (s *Segment) Spinning() bool {
	return s != nil && (s.Motion.typ == MotionSpinCW || s.Motion.typ == MotionSpinCCW)
}

// Kinematic reports whether the segment is a motion-driven platform.
func (s *Segment) Kinematic() bool {
	return s != nil && s.Motion.typ != MotionStatic
}

// CarrySample returns this tick's platform velocity sample: linear velocity,
// angular speed, and the world rotation axis.
func (s *Segment) CarrySample() (mgl64.Vec3, float64, mgl64.Vec3) {
	if s == nil {
		return mgl64.Vec3{}, 0, mgl64.Vec3{}
	}
	return s.Motion.linVel, s.Motion.angVel, s.Motion.angAxis
}
