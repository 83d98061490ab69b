package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/common"
	"github.com/milk9111/lavarunner/input"
)

// dashData is the live state of one dash burst.
type dashData struct {
	staminaUsed float64
	reversed    bool
	timer       float64
}

func (p *Player) canDash() bool {
	return p.energy >= p.cfg.Dash.MinEnergy
}

// startDash stages the dash parameters and transitions. The velocity burst
// itself happens on state entry.
func (p *Player) startDash(in *input.Snapshot) {
	stamina := common.Clamp(p.energy, p.cfg.Dash.MinEnergy, p.cfg.Player.MaxEnergy)
	p.dash = dashData{
		staminaUsed: stamina,
		reversed:    in.BackOnly(),
		timer:       p.cfg.Dash.Duration,
	}
	p.setState(StateDash, "dash pressed")
}

// PerformDash is the externally exposed dash trigger (UI/menu binding). It
// reverses nothing and respects the same energy gate as the input path.
func (p *Player) PerformDash() bool {
	if p.state == StateDead || p.state == StateDash || !p.canDash() {
		return false
	}
	p.dash = dashData{
		staminaUsed: common.Clamp(p.energy, p.cfg.Dash.MinEnergy, p.cfg.Player.MaxEnergy),
		timer:       p.cfg.Dash.Duration,
	}
	return p.setState(StateDash, "external dash")
}

func (p *Player) applyDash() {
	d := &p.dash
	p.consumeStamina(d.staminaUsed)

	dir := p.forward()
	if d.reversed {
		dir = dir.Mul(-1)
	}
	speed := d.staminaUsed * p.cfg.Dash.ForceMultiplier

	vy := 0.0
	if !p.grounded {
		// never slow an already-faster drop
		vy = math.Max(p.body.Linvel().Y(), p.cfg.Dash.FallCap)
	}
	p.body.SetLinvel(mgl64.Vec3{dir.X() * speed, vy, dir.Z() * speed})
}

func (p *Player) updateDash(dt float64, in *input.Snapshot) {
	p.dash.timer -= dt
	if p.dash.timer > 0 {
		return
	}

	if !p.grounded {
		if p.body.Linvel().Y() < 0 {
			p.setState(StateFall, "dash expired")
		} else {
			p.setState(StateLeap, "dash expired")
		}
		return
	}
	if in.MoveIntent() != 0 {
		p.setState(StateWalk, "dash expired")
	} else {
		p.setState(StateIdle, "dash expired")
	}
}
