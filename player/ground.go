package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/phys"
)

// updateGround refreshes the grounded flag, coyote timer, and the current
// ground segment reference. The reference is cleared and re-resolved from a
// fresh capsule cast every tick; it is never carried across ticks except for
// the riding-a-falling-platform case.
func (p *Player) updateGround(dt float64) {
	wasGrounded := p.grounded
	prevGround := p.ground
	hadGround := p.hasGround

	p.ground = GroundInfo{}
	p.hasGround = false

	hit, ok := p.space.CastCapsuleDown(
		p.body.Translation(),
		p.cfg.Player.CapsuleRadius,
		p.cfg.Player.CapsuleHalfHeight,
		p.cfg.Player.GroundCastLen,
		p.body,
	)

	grounded := false
	if ok {
		grounded = true
		if info, found := p.resolve(hit.Body); found {
			p.ground = info
			p.hasGround = true
			if info.Falling {
				grounded = p.ridingCheck(info)
			}
		}
	} else if hadGround && prevGround.Falling && prevGround.Body.IsValid() {
		// falling together with a crumbling platform; the raw cast flickers
		// because both bodies accelerate together, so compare velocities
		if p.ridingCheck(prevGround) {
			grounded = true
			p.ground = prevGround
			p.hasGround = true
		}
	}

	p.grounded = grounded
	if grounded {
		p.groundedDuration += dt
		p.coyoteTimer = 0
		p.applyWeight(dt)
	} else {
		p.groundedDuration = 0
		p.carryTime = 0
		if wasGrounded {
			p.coyoteTimer = p.cfg.Player.CoyoteTime
		} else {
			p.coyoteTimer = math.Max(0, p.coyoteTimer-dt)
		}
	}
}

// ridingCheck treats the player as grounded on a falling platform when their
// vertical velocities stay close.
func (p *Player) ridingCheck(info GroundInfo) bool {
	if !info.Body.IsValid() {
		return false
	}
	dv := p.body.Linvel().Y() - info.Body.Linvel().Y()
	return math.Abs(dv) <= p.cfg.Player.RideVelocityThreshold
}

// applyWeight pushes the player's weight into a dynamic platform underfoot so
// teeter platforms tip when the player stands off-center.
func (p *Player) applyWeight(dt float64) {
	if !p.hasGround {
		return
	}
	body := p.ground.Body
	if !body.IsValid() || body.Type() != phys.BodyDynamic {
		return
	}
	r := p.body.Translation().Sub(body.Translation())
	r = mgl64.Vec3{r.X(), 0, r.Z()}
	force := mgl64.Vec3{0, p.cfg.Gravity * p.cfg.Player.Mass * dt, 0}
	body.ApplyTorqueImpulse(r.Cross(force))
}
