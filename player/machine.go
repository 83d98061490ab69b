package player

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/event"
)

// setState attempts a table-checked transition. Rejected transitions leave
// the current state untouched and are logged, never silently applied. A panic
// inside enter/exit hooks recovers to Idle.
func (p *Player) setState(target StateKind, reason string) bool {
	if !canTransition(p.state, target) {
		p.tele.RejectedTransition(p.state.String(), target.String(), reason)
		return false
	}
	p.applyState(target, reason)
	return true
}

// forceState bypasses the table for external resets (respawn) and panic
// recovery.
func (p *Player) forceState(target StateKind, reason string) {
	p.applyState(target, reason)
}

func (p *Player) applyState(target StateKind, reason string) {
	prev := p.state
	defer func() {
		if r := recover(); r != nil {
			p.tele.RecoveredPanic("state transition", r)
			p.state = StateIdle
		}
	}()

	p.exitState(prev)
	p.state = target
	p.enterState(target, prev)

	p.recordTransition(prev, target, reason)
}

func (p *Player) exitState(s StateKind) {
	switch s {
	case StateCharge:
		// always clear the preview, whatever path left the state
		if p.bus != nil {
			p.bus.Push(event.ChargePreview{Active: false})
		}
	}
}

func (p *Player) enterState(s StateKind, prev StateKind) {
	switch s {
	case StateCharge:
		p.beginCharge()
	case StateDash:
		p.applyDash()
	case StateDead:
		p.body.SetAngvel(mgl64.Vec3{})
	}
}

func (p *Player) recordTransition(from, to StateKind, reason string) {
	rec := historyRecord{
		Tick:     p.tick,
		From:     from,
		To:       to,
		Reason:   reason,
		Grounded: p.grounded,
		Energy:   p.energy,
		Health:   p.health,
		Velocity: p.body.Linvel(),
	}
	p.history = append(p.history, rec)
	if len(p.history) > historyCap {
		p.history = p.history[len(p.history)-historyCap:]
	}

	p.tele.Transition(from.String(), to.String(), reason, p.grounded, p.energy, p.health)
	if p.bus != nil {
		p.bus.Push(event.StateTransition{
			From:     from.String(),
			To:       to.String(),
			Reason:   reason,
			Grounded: p.grounded,
			Energy:   p.energy,
			Health:   p.health,
			Velocity: p.body.Linvel(),
		})
	}
}
