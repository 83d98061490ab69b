package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/common"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/input"
)

// chargeData is the live state of one charge-and-hold.
type chargeData struct {
	startEnergy   float64
	startGrounded bool
	maxPossible   float64
	consumed      float64
	chargeTime    float64
}

func (p *Player) beginCharge() {
	p.charge = chargeData{
		startEnergy:   p.energy,
		startGrounded: p.grounded,
		maxPossible:   math.Min(p.energy, p.cfg.Charge.DrainRate*p.cfg.Charge.MaxChargeTime),
	}
}

func (p *Player) updateCharge(dt float64, in *input.Snapshot) {
	c := &p.charge

	// a charge that began grounded and lost the ground past coyote time is
	// canceled with a full refund
	if c.startGrounded && !p.grounded && p.coyoteTimer <= 0 {
		p.refundCharge()
		p.setState(StateFall, "charge canceled airborne")
		return
	}
	// never validly started: airborne, no coyote, nothing drained yet
	if !c.startGrounded && !p.grounded && p.coyoteTimer <= 0 && c.chargeTime == 0 {
		p.refundCharge()
		p.setState(StateFall, "charge never started")
		return
	}

	if !in.ChargeHeld() {
		p.launch()
		return
	}

	c.chargeTime += dt
	drain := math.Min(p.cfg.Charge.DrainRate*dt, p.energy)
	if drain > 0 {
		p.consumeStamina(drain)
		c.consumed += drain
	}

	if p.bus != nil && c.maxPossible > 0 {
		p.bus.Push(event.ChargePreview{
			Fraction: math.Min(1, c.consumed/c.maxPossible),
			Active:   true,
		})
	}

	if p.energy <= 0 || c.chargeTime >= p.cfg.Charge.MaxChargeTime {
		p.launch()
	}
}

// refundCharge restores everything drained this hold. A tap-length hold
// round-trips energy to exactly its pre-charge value.
func (p *Player) refundCharge() {
	p.refund(p.charge.consumed)
	p.charge.consumed = 0
}

// launch converts the accumulated charge into a jump and leaves the state.
func (p *Player) launch() {
	c := &p.charge

	if c.chargeTime < p.cfg.Charge.TapThreshold {
		p.quickJump()
		return
	}

	if c.consumed > 0 && c.consumed < p.cfg.Charge.MinChargeEnergy {
		p.refundCharge()
		p.setState(StateIdle, "charge fizzled")
		return
	}

	pct := 1.0
	if c.maxPossible > 0 {
		pct = math.Min(1, c.consumed/c.maxPossible)
	}
	vertical := common.Lerp(p.cfg.Charge.MinVertical, p.cfg.Charge.MaxVertical, pct)
	forward := common.Lerp(p.cfg.Charge.MinForward, p.cfg.Charge.MaxForward, pct)

	dir := p.launchDirection()
	carry := p.platformCarry()
	v := p.body.Linvel()
	vy := p.jumpVerticalVelocity(vertical, vertical)
	p.body.SetLinvel(mgl64.Vec3{
		v.X() + dir.X()*forward + carry.X(),
		vy,
		v.Z() + dir.Z()*forward + carry.Z(),
	})

	p.setState(StateLeap, "charge launch")
}

// quickJump is the tap-length path: refund the drained trickle, then pay the
// flat quick-jump cost if the player can afford it.
func (p *Player) quickJump() {
	p.refundCharge()

	cost := p.cfg.Charge.QuickJumpCost
	if p.energy < cost {
		// entering Charge required energy >= cost and the tap refund restores
		// the pre-charge value, so this only trips when energy was drained
		// by something outside the charge hold
		if p.bus != nil {
			p.bus.Push(event.InsufficientEnergy{Cost: cost, Have: p.energy})
		}
		if p.grounded {
			p.setState(StateIdle, "insufficient energy")
		} else {
			p.setState(StateFall, "insufficient energy")
		}
		return
	}

	p.consumeStamina(cost)
	carry := p.platformCarry()
	v := p.body.Linvel()
	vy := p.jumpVerticalVelocity(p.cfg.Charge.QuickJumpVelocity, p.cfg.Charge.QuickJumpVelocity)
	p.body.SetLinvel(mgl64.Vec3{v.X() + carry.X(), vy, v.Z() + carry.Z()})

	p.setState(StateLeap, "quick jump")
}

// jumpVerticalVelocity sets (not adds) the vertical component. Jumping off a
// falling platform makes the jump relative to the platform's downward speed
// and pushes a scaled reaction impulse back into it.
func (p *Player) jumpVerticalVelocity(velocity, impulseMag float64) float64 {
	if p.hasGround && p.ground.Falling && p.ground.Body.IsValid() {
		plat := p.ground.Body
		platVy := plat.Linvel().Y()
		reaction := impulseMag * p.cfg.Player.Mass * p.cfg.Charge.PlatformReactionScale
		plat.ApplyImpulse(mgl64.Vec3{0, -reaction, 0})
		return platVy + velocity
	}
	return velocity
}

// launchDirection is camera-forward flattened or model forward; both reduce
// to the look yaw here since the model faces the camera yaw.
func (p *Player) launchDirection() mgl64.Vec3 {
	return p.forward()
}
