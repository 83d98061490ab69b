package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// platformCarry is the portion of the current platform's velocity the player
// inherits: the translation fraction of the linear sample plus the tangential
// spin/tilt component, edge-attenuated and clamped horizontally. Zero when
// not standing on a kinematic platform.
func (p *Player) platformCarry() mgl64.Vec3 {
	if !p.grounded || !p.hasGround || !p.ground.Kinematic {
		return mgl64.Vec3{}
	}

	g := p.ground
	carry := g.LinVel.Mul(p.cfg.Motion.CarryTranslate)

	if g.AngVel != 0 && g.Body.IsValid() {
		r := p.body.Translation().Sub(g.Body.Translation())
		r = mgl64.Vec3{r.X(), 0, r.Z()}
		tangent := g.AngAxis.Cross(r).Mul(g.AngVel)

		frac := p.cfg.Motion.CarryTilt
		if g.Spinning {
			frac = p.cfg.Motion.CarrySpin
		}
		tangent = tangent.Mul(frac)

		// attenuate toward the platform edge so whiplash stays bounded
		if dist := r.Len(); dist > 1 {
			tangent = tangent.Mul(1 / math.Log2(1+dist))
		}
		carry = carry.Add(tangent)
	}

	if h := (mgl64.Vec3{carry.X(), 0, carry.Z()}).Len(); h > p.cfg.Motion.MaxCarrySpeed {
		scale := p.cfg.Motion.MaxCarrySpeed / h
		carry = mgl64.Vec3{carry.X() * scale, carry.Y(), carry.Z() * scale}
	}
	return carry
}

// applyCarry moves the player with the current platform while grounded on a
// kinematic segment. A short grace delay after landing keeps the first
// contact frame from yanking the player. Jumps inherit the same carry
// through platformCarry at launch.
func (p *Player) applyCarry(dt float64) {
	if !p.grounded || !p.hasGround || !p.ground.Kinematic {
		p.carryTime = 0
		return
	}
	p.carryTime += dt
	if p.carryTime < p.cfg.Motion.CarryGraceTime {
		return
	}

	// applied as displacement so riding never compounds across ticks
	carry := p.platformCarry()
	p.body.SetTranslation(p.body.Translation().Add(carry.Mul(dt)))
}
