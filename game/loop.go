package game

import (
	"github.com/milk9111/lavarunner/input"
	"github.com/milk9111/lavarunner/player"
)

// Advance runs one render frame: zero or more fixed physics ticks from the
// accumulator, then the per-frame sliding-window maintenance. frameDt is
// clamped so a long stall cannot spiral the accumulator.
func (g *Game) Advance(frameDt float64, frame input.Frame) {
	if g == nil || g.paused {
		return
	}
	if frameDt > g.cfg.MaxFrameTime {
		frameDt = g.cfg.MaxFrameTime
	}

	g.accumulator += frameDt
	for g.accumulator >= g.cfg.FixedDt {
		g.accumulator -= g.cfg.FixedDt
		g.safeTick(g.cfg.FixedDt, frame)
		if g.paused {
			return
		}
	}

	g.track.UpdateTrack(g.player.Position(), frameDt)
}

// Alpha is the leftover fractional tick for render interpolation.
func (g *Game) Alpha() float64 {
	if g.cfg.FixedDt <= 0 {
		return 0
	}
	return g.accumulator / g.cfg.FixedDt
}

// safeTick contains a panicking tick. Repeated consecutive failures pause
// the game instead of crash-looping.
func (g *Game) safeTick(dt float64, frame input.Frame) {
	defer func() {
		if r := recover(); r != nil {
			g.errStreak++
			g.tele.RecoveredPanic("game tick", r)
			if g.errStreak > g.cfg.MaxErrorStreak {
				g.tele.Logger().Error("consecutive tick failures, pausing",
					"streak", g.errStreak)
				g.paused = true
			}
		}
	}()
	g.tick(dt, frame)
	g.errStreak = 0
}

// tick is one fixed simulation step.
func (g *Game) tick(dt float64, frame input.Frame) {
	g.input.Update(dt, frame)
	g.sch.Advance()
	g.track.FixedUpdate(dt)
	g.space.Step(dt)
	g.player.FixedUpdate(dt, g.input)

	if g.player.State() == player.StateDead {
		return
	}

	// standing on a stable crumble platform arms its collapse
	if body := g.player.GroundBody(); body != nil {
		if seg, ok := g.track.ResolveByBody(body); ok {
			g.track.NotifyStanding(seg)
		}
	}

	hits := g.track.CheckHazards(
		g.player.Position(), g.player.BottomY(), g.cfg.Player.CapsuleRadius, dt)
	for _, hit := range hits {
		if g.player.ApplyDamage(hit.Damage, hit.Segment) {
			g.onDeath("damage")
			return
		}
	}

	if reason, hit := g.track.CheckLava(g.player.BottomY()); hit {
		g.onDeath(reason)
	}
}
