package track

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/phys"
)

func crumbleConfig() *config.Config {
	cfg := config.Default()
	cfg.Track.CrumbleChance = 1
	return cfg
}

// firstCrumble generates far enough ahead that crumble rolls have happened
// and returns the lowest-index crumble segment.
func firstCrumble(t *testing.T, h *harness) *Segment {
	t.Helper()
	h.track.UpdateTrack(mgl64.Vec3{}, 0.05)
	for _, hd := range h.track.Active() {
		if seg := h.track.Get(hd); seg != nil && seg.IsCrumble {
			return seg
		}
	}
	t.Fatalf("no crumble segment generated")
	return nil
}

func warningTicks(cfg *config.Config) int {
	return int(cfg.Crumble.WarningDelay/cfg.FixedDt + 0.5)
}

func TestCrumbleLifecycleNeverSkipsStates(t *testing.T) {
	cfg := crumbleConfig()
	h := newHarness(t, cfg, config.ModeNoTilt, 13)
	seg := firstCrumble(t, h)
	h.bus.Drain()

	h.track.NotifyStanding(seg)
	if seg.Crumble != CrumbleWarning {
		t.Fatalf("after standing: %v, want warning", seg.Crumble)
	}

	// re-standing must not rewind or re-arm
	h.track.NotifyStanding(seg)
	if seg.Crumble != CrumbleWarning {
		t.Fatalf("second standing changed state to %v", seg.Crumble)
	}

	ticks := warningTicks(cfg)
	for i := 0; i < ticks-1; i++ {
		h.sch.Advance()
	}
	if seg.Crumble != CrumbleWarning {
		t.Fatalf("fell before the warning delay elapsed")
	}
	h.sch.Advance()
	if seg.Crumble != CrumbleFalling {
		t.Fatalf("after delay: %v, want falling", seg.Crumble)
	}
	if seg.Body.Type() != phys.BodyDynamic {
		t.Fatalf("falling platform body type %v, want dynamic", seg.Body.Type())
	}

	// sink it to the lava surface
	seg.Body.SetTranslation(mgl64.Vec3{seg.Pos.X(), cfg.Lava.SurfaceY - 1, seg.Pos.Z()})
	h.track.FixedUpdate(dt)
	if seg.Crumble != CrumbleDestroyed {
		t.Fatalf("at lava surface: %v, want destroyed", seg.Crumble)
	}
	if seg.Body != nil {
		t.Fatalf("destroyed platform kept its body")
	}

	var states []string
	for _, ev := range h.bus.Drain() {
		if c, ok := ev.Data.(event.CrumbleChanged); ok && c.Segment == seg.Index {
			states = append(states, c.State)
		}
	}
	want := []string{"warning", "falling", "destroyed"}
	if len(states) != len(want) {
		t.Fatalf("lifecycle events %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("lifecycle events %v, want %v", states, want)
		}
	}
}

func TestCrumbleTimerCanceledByDespawn(t *testing.T) {
	cfg := crumbleConfig()
	h := newHarness(t, cfg, config.ModeNoTilt, 17)
	seg := firstCrumble(t, h)
	idx := seg.Index

	h.track.NotifyStanding(seg)
	if seg.Crumble != CrumbleWarning {
		t.Fatalf("arming failed")
	}

	// half the warning delay passes, then the player leaves it far behind
	for i := 0; i < warningTicks(cfg)/2; i++ {
		h.sch.Advance()
	}
	h.track.SetPlayerIndex(idx + cfg.Track.KeepBehind + 20)
	h.track.UpdateTrack(mgl64.Vec3{}, 0.05)
	h.bus.Drain()

	// run well past the original delay; the canceled timer must stay dead
	for i := 0; i < warningTicks(cfg)*2; i++ {
		h.sch.Advance()
	}
	for _, ev := range h.bus.Drain() {
		if c, ok := ev.Data.(event.CrumbleChanged); ok && c.Segment == idx && c.State == "falling" {
			t.Fatalf("despawned segment's timer still fired")
		}
	}
	for _, hd := range h.track.Active() {
		if s := h.track.Get(hd); s != nil && s.IsCrumble && s.Crumble == CrumbleFalling {
			t.Fatalf("a pooled slot was flipped to falling by a stale timer")
		}
	}
}

func TestResetCrumblesRestoresStable(t *testing.T) {
	cfg := crumbleConfig()
	h := newHarness(t, cfg, config.ModeNoTilt, 19)
	seg := firstCrumble(t, h)
	spawnPos := seg.Pos

	h.track.NotifyStanding(seg)
	for i := 0; i < warningTicks(cfg); i++ {
		h.sch.Advance()
	}
	if seg.Crumble != CrumbleFalling {
		t.Fatalf("setup: expected falling, got %v", seg.Crumble)
	}
	seg.Body.SetTranslation(spawnPos.Add(mgl64.Vec3{0, -4, 0}))

	h.track.ResetCrumbles()

	if seg.Crumble != CrumbleStable {
		t.Fatalf("after reset: %v, want stable", seg.Crumble)
	}
	if seg.Body == nil || seg.Body.Type() != phys.BodyFixed {
		t.Fatalf("reset platform should have a fresh fixed body")
	}
	if got := seg.Body.Translation(); got != spawnPos {
		t.Fatalf("reset platform at %v, want spawn %v", got, spawnPos)
	}
}
