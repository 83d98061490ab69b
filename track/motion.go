package track

import "github.com/go-gl/mathgl/mgl64"

// FixedUpdate advances lava, kinematic platform motion, and crumble falls by
// one physics tick.
func (t *Track) FixedUpdate(dt float64) {
	if t == nil || dt <= 0 {
		return
	}

	if t.cfg.Lava.Rising {
		// speed accelerates over the run; both values are per-run state so
		// the next run starts from the configured base again
		t.lavaSpeed += t.cfg.Lava.RiseAccel * dt
		t.lavaHeight += t.lavaSpeed * dt
	}

	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil {
			continue
		}
		if seg.Kinematic() {
			t.stepMotion(seg, dt)
		}
		if seg.IsCrumble && seg.Crumble == CrumbleFalling {
			t.checkCrumbleDestroyed(seg)
		}
	}
}

// stepMotion computes the segment's next kinematic transform and stores this
// tick's velocity sample before committing, so carry physics reads the same
// motion the platform performs.
func (t *Track) stepMotion(seg *Segment, dt float64) {
	body := seg.Body
	if !body.IsValid() {
		return
	}
	m := &seg.Motion

	m.linVel = mgl64.Vec3{}
	m.angVel = 0
	m.angAxis = mgl64.Vec3{}

	if m.pauseLeft > 0 {
		m.pauseLeft -= dt
		body.SetNextKinematicTranslation(body.Translation())
		return
	}

	switch m.typ {
	case MotionTranslateX, MotionTranslateY:
		axis := mgl64.Vec3{0, 1, 0}
		if m.typ == MotionTranslateX {
			axis = m.originRot.Rotate(mgl64.Vec3{1, 0, 0})
		}
		next := m.offset + m.dir*m.speed*dt
		if next >= m.extent {
			next = m.extent
			m.dir = -1
			m.pauseLeft = t.cfg.Motion.PauseDuration
		} else if next <= -m.extent {
			next = -m.extent
			m.dir = 1
			m.pauseLeft = t.cfg.Motion.PauseDuration
		}
		newPos := m.origin.Add(axis.Mul(next))
		m.linVel = newPos.Sub(body.Translation()).Mul(1 / dt)
		m.offset = next
		body.SetNextKinematicTranslation(newPos)

	case MotionRotateX, MotionRotateZ:
		axis := m.originRot.Rotate(mgl64.Vec3{1, 0, 0})
		if m.typ == MotionRotateZ {
			axis = m.originRot.Rotate(mgl64.Vec3{0, 0, 1})
		}
		next := m.angle + m.dir*m.speed*dt
		if next >= m.limit {
			next = m.limit
			m.dir = -1
			m.pauseLeft = t.cfg.Motion.PauseDuration
		} else if next <= -m.limit {
			next = -m.limit
			m.dir = 1
			m.pauseLeft = t.cfg.Motion.PauseDuration
		}
		m.angVel = (next - m.angle) / dt
		m.angAxis = axis
		m.angle = next
		body.SetNextKinematicTranslation(m.origin)
		body.SetNextKinematicRotation(mgl64.QuatRotate(next, axis).Mul(m.originRot))

	case MotionRotateXFree, MotionRotateZFree:
		axis := m.originRot.Rotate(mgl64.Vec3{1, 0, 0})
		if m.typ == MotionRotateZFree {
			axis = m.originRot.Rotate(mgl64.Vec3{0, 0, 1})
		}
		rate := m.dir * m.speed * t.cfg.Motion.FreeRotateFactor
		m.angle += rate * dt
		m.angVel = rate
		m.angAxis = axis
		body.SetNextKinematicTranslation(m.origin)
		body.SetNextKinematicRotation(mgl64.QuatRotate(m.angle, axis).Mul(m.originRot))

	case MotionSpinCW, MotionSpinCCW:
		axis := mgl64.Vec3{0, 1, 0}
		rate := t.cfg.Motion.SpinSpeed
		if t.cfg.Motion.BaseSpeed > 0 {
			rate *= m.speed / t.cfg.Motion.BaseSpeed
		}
		if m.typ == MotionSpinCW {
			rate = -rate
		}
		m.angle += rate * dt
		m.angVel = rate
		m.angAxis = axis
		body.SetNextKinematicTranslation(m.origin)
		body.SetNextKinematicRotation(mgl64.QuatRotate(m.angle, axis).Mul(m.originRot))
	}
}
