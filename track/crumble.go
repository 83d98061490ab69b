package track

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/phys"
)

var (
	crumbleWarningTint = [3]float64{0.85, 0.30, 0.20}
	crumbleFallingTint = [3]float64{0.45, 0.20, 0.15}
)

// NotifyStanding arms a stable crumble platform the first time the player
// stands on it. Later landings on the same platform change nothing; the
// collapse timer never rewinds.
func (t *Track) NotifyStanding(seg *Segment) {
	if t == nil || seg == nil || !seg.IsCrumble || seg.Crumble != CrumbleStable {
		return
	}

	seg.Crumble = CrumbleWarning
	seg.Tint = crumbleWarningTint
	t.pushCrumbleChanged(seg)

	ticks := uint64(math.Ceil(t.cfg.Crumble.WarningDelay / t.cfg.FixedDt))
	h := seg.handle
	seg.crumbleToken = t.sch.After(ticks, func() {
		// resolve through the handle; the slot may have been reused since
		if live := t.pool.get(h); live != nil {
			t.startFalling(live)
		}
	})
}

// startFalling swaps the platform's fixed body for a dynamic one at the same
// transform and nudges it downward so it separates cleanly.
func (t *Track) startFalling(seg *Segment) {
	if seg.Crumble != CrumbleWarning {
		return
	}
	old := seg.Body
	if !old.IsValid() {
		return
	}

	pos := old.Translation()
	rot := old.Rotation()

	if err := t.space.RemoveBody(old); err != nil && !errors.Is(err, phys.ErrAlreadyRemoved) {
		t.tele.Logger().Warn("crumble body swap failed", "segment", seg.Index, "err", err)
		return
	}

	body := phys.NewBody(phys.BodyDynamic, pos)
	body.SetRotation(rot)
	body.SetMass(8)
	body.SetLinearDamping(t.cfg.Crumble.LinearDamping)
	body.SetAngularDamping(t.cfg.Crumble.AngularDamping)
	t.space.AddBody(body)
	t.space.AddShape(body, t.platformShape())
	body.ApplyImpulse(mgl64.Vec3{0, -t.cfg.Crumble.BreakImpulse * 8, 0})

	seg.Body = body
	for i := range seg.Zones {
		seg.Zones[i].body = body
	}
	t.attachZoneSensors(seg)

	seg.Crumble = CrumbleFalling
	seg.Tint = crumbleFallingTint
	seg.crumbleToken = nil
	t.pushCrumbleChanged(seg)
}

// checkCrumbleDestroyed retires a falling platform once it sinks to the lava
// surface.
func (t *Track) checkCrumbleDestroyed(seg *Segment) {
	if seg.Body.IsValid() && seg.Body.Translation().Y() > t.lavaHeight {
		return
	}

	t.removeBody(seg, seg.Body)
	seg.Body = nil
	for i := range seg.Zones {
		seg.Zones[i].Removed = true
		seg.Zones[i].body = nil
	}

	seg.Crumble = CrumbleDestroyed
	t.pushCrumbleChanged(seg)
}

// ResetCrumbles restores every armed, falling, or destroyed crumble platform
// in the window to its stable spawn state. Runs on player respawn.
func (t *Track) ResetCrumbles() {
	if t == nil {
		return
	}
	for _, h := range t.active {
		seg := t.pool.get(h)
		if seg == nil || !seg.IsCrumble || seg.Crumble == CrumbleStable {
			continue
		}

		if seg.crumbleToken != nil {
			seg.crumbleToken.Cancel()
			seg.crumbleToken = nil
		}
		if seg.Body != nil {
			t.removeBody(seg, seg.Body)
			seg.Body = nil
		}

		seg.Pos = seg.Motion.origin
		t.buildFixedBody(seg)
		for i := range seg.Zones {
			seg.Zones[i].body = seg.Body
			seg.Zones[i].Removed = false
			seg.Zones[i].cooldown = 0
		}
		t.attachZoneSensors(seg)

		seg.Crumble = CrumbleStable
		seg.Tint = tintFor(seg)
		t.pushCrumbleChanged(seg)
	}
}

func (t *Track) pushCrumbleChanged(seg *Segment) {
	if t.bus != nil {
		t.bus.Push(event.CrumbleChanged{Segment: seg.Index, State: seg.Crumble.String()})
	}
}
