package player

import "math"

// consumeStamina subtracts from energy with a floor of zero and resets the
// regeneration delay. Repeated per-tick drains coalesce into one session:
// the first deduction of a contiguous holding period starts it, the first
// tick without a deduction ends it.
func (p *Player) consumeStamina(amount float64) {
	if amount <= 0 {
		return
	}
	actual := math.Min(amount, p.energy)
	p.energy -= actual

	p.consumedThisTick = true
	p.sinceConsume = 0
	if !p.consuming {
		p.consuming = true
		p.consumeTotal = 0
		p.tele.SessionStart("consume", p.energy+actual)
	}
	p.consumeTotal += actual

	p.endRegenSession()
}

// refund restores energy up to the cap.
func (p *Player) refund(amount float64) {
	if amount <= 0 {
		return
	}
	p.energy = math.Min(p.cfg.Player.MaxEnergy, p.energy+amount)
}

// updateEnergy closes consumption sessions and runs grounded regeneration
// after the delay.
func (p *Player) updateEnergy(dt float64) {
	if p.consuming && !p.consumedThisTick {
		p.consuming = false
		p.tele.SessionEnd("consume", p.consumeTotal, p.energy)
	}

	p.sinceConsume += dt

	canRegen := p.grounded &&
		p.sinceConsume >= p.cfg.Energy.RegenDelay &&
		p.energy < p.cfg.Player.MaxEnergy
	if canRegen {
		if !p.regening {
			p.regening = true
			p.regenTotal = 0
			p.tele.SessionStart("regen", p.energy)
		}
		gain := math.Min(p.cfg.Energy.RegenRate*dt, p.cfg.Player.MaxEnergy-p.energy)
		p.energy += gain
		p.regenTotal += gain
		if p.energy >= p.cfg.Player.MaxEnergy {
			p.endRegenSession()
		}
	} else {
		p.endRegenSession()
	}
}

func (p *Player) endRegenSession() {
	if p.regening {
		p.regening = false
		p.tele.SessionEnd("regen", p.regenTotal, p.energy)
	}
}
