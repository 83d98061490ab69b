package track

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/phys"
	"github.com/milk9111/lavarunner/sched"
	"github.com/milk9111/lavarunner/telemetry"
)

// Track owns the sliding window of active segments, the lava state, and the
// segment pool.
type Track struct {
	cfg    *config.Config
	mode   config.Mode
	params config.ModeParams

	space *phys.Space
	sch   *sched.Scheduler
	bus   *event.Bus
	tele  *telemetry.Telemetry
	rng   *rand.Rand

	pool   pool
	active []Handle

	playerIndex int
	searchTimer float64

	// uniformMotion forces every kinematic segment in the run to share one
	// motion type; MotionStatic means per-segment rolls.
	uniformMotion MotionType
	lastMotion    MotionType

	lavaHeight float64
	lavaSpeed  float64

	generated int
}

// New creates a track in the given mode and spawns the initial safe segment.
func New(cfg *config.Config, mode config.Mode, space *phys.Space, sch *sched.Scheduler, bus *event.Bus, tele *telemetry.Telemetry, seed int64) *Track {
	if cfg == nil {
		cfg = config.Default()
	}
	t := &Track{
		cfg:    cfg,
		mode:   mode,
		params: mode.Params(),
		space:  space,
		sch:    sch,
		bus:    bus,
		tele:   tele,
		rng:    rand.New(rand.NewSource(seed)),
	}
	t.rollUniformMotion()
	t.lavaHeight = cfg.Lava.SurfaceY
	t.lavaSpeed = cfg.Lava.RiseBase
	t.generateNext()
	return t
}

func (t *Track) rollUniformMotion() {
	t.uniformMotion = MotionStatic
	if t.params.Kinematic && t.rng.Float64() < t.cfg.Motion.UniformTypeChance {
		t.uniformMotion = kinematicMotions[t.rng.Intn(len(kinematicMotions))]
	}
}

// Mode returns the track's level mode.
func (t *Track) Mode() config.Mode {
	if t == nil {
		return config.ModeDefault
	}
	return t.mode
}

// Score returns the number of segments generated this run.
func (t *Track) Score() int {
	if t == nil {
		return 0
	}
	return t.generated
}

// PlayerIndex returns the last resolved player segment index.
func (t *Track) PlayerIndex() int {
	if t == nil {
		return 0
	}
	return t.playerIndex
}

// Active returns the live segment handles in index order.
func (t *Track) Active() []Handle {
	if t == nil {
		return nil
	}
	return t.active
}

// Get resolves a handle, or nil when stale.
func (t *Track) Get(h Handle) *Segment {
	if t == nil {
		return nil
	}
	return t.pool.get(h)
}

// generateNext appends one segment past the current leading edge.
func (t *Track) generateNext() {
	var prev *Segment
	if n := len(t.active); n > 0 {
		prev = t.pool.get(t.active[n-1])
	}

	h, seg := t.pool.alloc()

	if prev == nil {
		// the spawn platform is always flat, static, and hazard free
		seg.Index = 0
		seg.Pos = mgl64.Vec3{}
		t.buildFixedBody(seg)
		seg.Tint = tintFor(seg)
		t.finishSegment(h, seg)
		return
	}

	seg.Index = prev.Index + 1
	seg.Heading = prev.Heading
	if seg.Index > t.cfg.Track.MinTurnIndex && t.rng.Float64() < t.cfg.Track.TurnChance {
		angle := t.cfg.Track.TurnAngle()
		if t.rng.Float64() < 0.5 {
			angle = -angle
		}
		seg.Heading += angle
	}

	spacing := t.cfg.Track.SegmentLength
	if t.params.SpacingOverride > 0 {
		spacing = t.params.SpacingOverride
	}
	dir := mgl64.Vec3{math.Sin(seg.Heading), 0, math.Cos(seg.Heading)}
	seg.Pos = prev.Pos.Add(dir.Mul(spacing))
	seg.Pos = mgl64.Vec3{seg.Pos.X(), prev.Pos.Y() + t.sampleHeightDelta(), seg.Pos.Z()}

	switch {
	case t.params.Kinematic:
		t.buildKinematicBody(seg)
	case t.rng.Float64() < t.params.TiltChance:
		t.buildTeeterBody(seg)
	default:
		t.buildFixedBody(seg)
		if seg.Index > 2 && t.rng.Float64() < t.cfg.Track.CrumbleChance {
			seg.IsCrumble = true
			seg.Crumble = CrumbleStable
		}
	}

	t.placeSpikes(seg)
	seg.Tint = tintFor(seg)
	t.finishSegment(h, seg)
}

func (t *Track) finishSegment(h Handle, seg *Segment) {
	t.active = append(t.active, h)
	t.generated++
	if t.bus != nil {
		t.bus.Push(event.Score{Total: t.generated})
	}
	t.tele.SegmentGenerated(seg.Index, seg.Motion.typ.String(), seg.IsCrumble, len(seg.Zones))
}

// sampleHeightDelta draws from the mode's piecewise band table and clamps to
// the mode's absolute limit.
func (t *Track) sampleHeightDelta() float64 {
	bands := t.params.HeightBands
	if len(bands) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range bands {
		total += b.Weight
	}
	r := t.rng.Float64() * total
	band := bands[len(bands)-1]
	for _, b := range bands {
		if r < b.Weight {
			band = b
			break
		}
		r -= b.Weight
	}
	delta := band.Min + t.rng.Float64()*(band.Max-band.Min)
	if max := t.params.MaxAbsHeight; max > 0 {
		if delta > max {
			delta = max
		} else if delta < -max {
			delta = -max
		}
	}
	return delta
}

func (t *Track) platformShape() *phys.Shape {
	return phys.NewBox(mgl64.Vec3{
		t.cfg.Track.SegmentWidth / 2,
		t.cfg.Track.SegmentHalfThickness,
		t.cfg.Track.SegmentLength / 2,
	})
}

func (t *Track) headingRot(seg *Segment) mgl64.Quat {
	return mgl64.QuatRotate(seg.Heading, mgl64.Vec3{0, 1, 0})
}

func (t *Track) buildFixedBody(seg *Segment) {
	body := phys.NewBody(phys.BodyFixed, seg.Pos)
	body.SetRotation(t.headingRot(seg))
	t.space.AddBody(body)
	t.space.AddShape(body, t.platformShape())
	seg.Body = body
	seg.Tilt = TiltNone
	seg.Motion.origin = seg.Pos
	seg.Motion.originRot = body.Rotation()
}

// buildTeeterBody creates a dynamic platform hinged to a fixed anchor so it
// teeters under the player's weight. Joint failure degrades to a fixed
// platform instead of aborting generation.
func (t *Track) buildTeeterBody(seg *Segment) {
	axis := mgl64.Vec3{1, 0, 0}
	seg.Tilt = TiltX
	if t.rng.Float64() < 0.5 {
		axis = mgl64.Vec3{0, 0, 1}
		seg.Tilt = TiltZ
	}

	anchorOffset := axis.Mul(t.cfg.Track.TeeterAnchorOffset)
	anchor := phys.NewBody(phys.BodyFixed, seg.Pos.Add(anchorOffset))
	t.space.AddBody(anchor)

	body := phys.NewBody(phys.BodyDynamic, seg.Pos)
	body.SetRotation(t.headingRot(seg))
	body.SetMass(6)
	body.SetAngularDamping(1.5)
	t.space.AddBody(body)
	t.space.AddShape(body, t.platformShape())

	joint, err := phys.NewRevoluteJoint(anchor, body, mgl64.Vec3{}, anchorOffset.Mul(-1), axis)
	if err == nil {
		err = t.space.AddJoint(joint)
	}
	if err != nil {
		t.tele.JointFallback(seg.Index, err)
		_ = t.space.RemoveBody(body)
		_ = t.space.RemoveBody(anchor)
		t.buildFixedBody(seg)
		return
	}

	seg.Body = body
	seg.Joint = joint
	seg.anchor = anchor
}

func (t *Track) buildKinematicBody(seg *Segment) {
	body := phys.NewBody(phys.BodyKinematic, seg.Pos)
	body.SetRotation(t.headingRot(seg))
	t.space.AddBody(body)
	t.space.AddShape(body, t.platformShape())
	seg.Body = body
	seg.Tilt = TiltNone

	typ := t.uniformMotion
	if typ == MotionStatic {
		typ = t.pickMotionType()
	}
	t.lastMotion = typ

	m := &seg.Motion
	m.typ = typ
	m.origin = seg.Pos
	m.originRot = body.Rotation()
	m.extent = t.cfg.Motion.MaxTranslate * (0.6 + 0.4*t.rng.Float64())
	m.limit = t.cfg.Motion.MaxRotate() * (0.7 + 0.6*t.rng.Float64())
	m.speed = t.cfg.Motion.BaseSpeed * (0.85 + 0.4*t.rng.Float64())
	m.dir = 1
	if t.rng.Float64() < 0.5 {
		m.dir = -1
	}
	// random initial phase so neighbors desynchronize
	switch typ {
	case MotionTranslateX, MotionTranslateY:
		m.offset = (t.rng.Float64()*2 - 1) * m.extent * 0.5
	case MotionRotateX, MotionRotateZ:
		m.angle = (t.rng.Float64()*2 - 1) * m.limit * 0.5
	}
}

// pickMotionType draws a motion type, avoiding a repeat of the previous
// kinematic segment's type.
func (t *Track) pickMotionType() MotionType {
	typ := kinematicMotions[t.rng.Intn(len(kinematicMotions))]
	if typ == t.lastMotion {
		typ = kinematicMotions[(indexOfMotion(typ)+1)%len(kinematicMotions)]
	}
	return typ
}

func indexOfMotion(m MotionType) int {
	for i, v := range kinematicMotions {
		if v == m {
			return i
		}
	}
	return 0
}

// placeSpikes rolls the mode spike chance and lays out hazard zones in one of
// the five layout patterns.
func (t *Track) placeSpikes(seg *Segment) {
	if t.rng.Float64() >= t.params.SpikeChance {
		return
	}
	if seg.Tilt != TiltNone && !t.params.SpikesOnTilting {
		return
	}

	halfW := t.cfg.Track.SegmentWidth/2 - t.cfg.Hazards.SpikeRadius
	halfL := t.cfg.Track.SegmentLength/2 - t.cfg.Hazards.SpikeRadius
	if halfW <= 0 || halfL <= 0 {
		return
	}
	topY := t.cfg.Track.SegmentHalfThickness + t.cfg.Hazards.SpikeHalfHeight

	var offsets []mgl64.Vec3
	switch t.rng.Intn(5) {
	case 0: // symmetric pairs
		x := t.rng.Float64() * halfW
		z := (t.rng.Float64()*2 - 1) * halfL
		offsets = append(offsets,
			mgl64.Vec3{x, topY, z},
			mgl64.Vec3{-x, topY, z},
		)
	case 1: // cluster
		cx := (t.rng.Float64()*2 - 1) * halfW * 0.5
		cz := (t.rng.Float64()*2 - 1) * halfL * 0.5
		n := 3 + t.rng.Intn(3)
		for i := 0; i < n; i++ {
			offsets = append(offsets, mgl64.Vec3{
				cx + (t.rng.Float64()*2-1)*halfW*0.3,
				topY,
				cz + (t.rng.Float64()*2-1)*halfL*0.3,
			})
		}
	case 2: // straight line across
		z := (t.rng.Float64()*2 - 1) * halfL
		n := 3
		for i := 0; i < n; i++ {
			x := -halfW + float64(i)/float64(n-1)*2*halfW
			offsets = append(offsets, mgl64.Vec3{x, topY, z})
		}
	case 3: // diagonal line
		n := 3
		for i := 0; i < n; i++ {
			f := float64(i)/float64(n-1)*2 - 1
			offsets = append(offsets, mgl64.Vec3{f * halfW, topY, f * halfL})
		}
	default: // scatter
		n := 2 + t.rng.Intn(4)
		for i := 0; i < n; i++ {
			offsets = append(offsets, mgl64.Vec3{
				(t.rng.Float64()*2 - 1) * halfW,
				topY,
				(t.rng.Float64()*2 - 1) * halfL,
			})
		}
	}

	for _, off := range offsets {
		seg.Zones = append(seg.Zones, HazardZone{
			body:       seg.Body,
			Local:      off,
			Radius:     t.cfg.Hazards.SpikeRadius,
			HalfHeight: t.cfg.Hazards.SpikeHalfHeight,
			Damage:     t.cfg.Hazards.SpikeDamage,
		})
	}
	t.attachZoneSensors(seg)
}

// attachZoneSensors gives each hazard zone a cone sensor shape on the
// platform body, so the physics world mirrors the zone layout. Overlap
// itself is resolved by CheckHazards, not by contact callbacks.
func (t *Track) attachZoneSensors(seg *Segment) {
	for _, z := range seg.Zones {
		cone := phys.NewCone(z.Radius, z.HalfHeight)
		cone.SetOffset(z.Local)
		cone.SetSensor(true)
		t.space.AddShape(seg.Body, cone)
	}
}

// tintFor derives the platform's material tint; the renderer keys landing
// dust color to it.
func tintFor(seg *Segment) [3]float64 {
	switch {
	case seg.IsCrumble:
		return [3]float64{0.75, 0.45, 0.30}
	case seg.Kinematic():
		return [3]float64{0.35, 0.55, 0.80}
	case seg.Tilt != TiltNone:
		return [3]float64{0.55, 0.70, 0.45}
	default:
		return [3]float64{0.60, 0.60, 0.62}
	}
}
