package track

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/phys"
)

// spikeHarness puts one hand-placed zone on the spawn platform.
func spikeHarness(t *testing.T) (*harness, *Segment) {
	t.Helper()
	h := newHarness(t, nil, config.ModeDefault, 1)
	seg := h.segment(0)
	if seg == nil {
		t.Fatalf("no spawn segment")
	}
	seg.Zones = append(seg.Zones, HazardZone{
		body:       seg.Body,
		Local:      mgl64.Vec3{0, 0.75, 0},
		Radius:     0.3,
		HalfHeight: 0.5,
		Damage:     25,
	})
	return h, seg
}

func TestHazardCooldownGatesRepeatHits(t *testing.T) {
	h, _ := spikeHarness(t)
	pos := mgl64.Vec3{0.1, 1.3, 0}
	bottom := 0.3
	radius := h.cfg.Player.CapsuleRadius

	hits := h.track.CheckHazards(pos, bottom, radius, dt)
	if len(hits) != 1 || hits[0].Damage != 25 || hits[0].Segment != 0 {
		t.Fatalf("first contact hits = %+v, want one 25-damage hit on segment 0", hits)
	}

	// contact held through the cooldown window yields nothing
	ticks := int(h.cfg.Hazards.Cooldown/dt) - 2
	for i := 0; i < ticks; i++ {
		if hits := h.track.CheckHazards(pos, bottom, radius, dt); len(hits) != 0 {
			t.Fatalf("hit during cooldown at tick %d: %+v", i, hits)
		}
	}

	// cooldown lapses within the next few ticks and the same zone hits again
	second := 0
	for i := 0; i < 5; i++ {
		second += len(h.track.CheckHazards(pos, bottom, radius, dt))
	}
	if second != 1 {
		t.Fatalf("expected exactly one hit after cooldown expiry, got %d", second)
	}
}

func TestHazardRejects(t *testing.T) {
	h, _ := spikeHarness(t)
	radius := h.cfg.Player.CapsuleRadius

	cases := []struct {
		name   string
		pos    mgl64.Vec3
		bottom float64
	}{
		{"broad_phase_far", mgl64.Vec3{50, 1.3, 0}, 0.3},
		{"narrow_phase_beside", mgl64.Vec3{1.5, 1.3, 0}, 0.3},
		{"above_spike_top", mgl64.Vec3{0, 3, 0}, 2.0},
		{"below_spike_band", mgl64.Vec3{0, 0, 0}, -1.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if hits := h.track.CheckHazards(c.pos, c.bottom, radius, dt); len(hits) != 0 {
				t.Fatalf("unexpected hit: %+v", hits)
			}
		})
	}
}

func TestHazardStaleBodyMarksZoneRemoved(t *testing.T) {
	h, seg := spikeHarness(t)

	// destroy the platform body out from under the zone
	if err := h.space.RemoveBody(seg.Body); err != nil {
		t.Fatalf("remove body: %v", err)
	}

	hits := h.track.CheckHazards(mgl64.Vec3{0.1, 1.3, 0}, 0.3, h.cfg.Player.CapsuleRadius, dt)
	if len(hits) != 0 {
		t.Fatalf("stale zone produced a hit: %+v", hits)
	}
	if !seg.Zones[0].Removed {
		t.Fatalf("zone with stale body not marked removed")
	}
}

func TestLavaBoundary(t *testing.T) {
	h := newHarness(t, nil, config.ModeDefault, 1)
	surface := h.cfg.Lava.SurfaceY // -12, tolerance 0.05

	cases := []struct {
		name   string
		bottom float64
		hit    bool
	}{
		{"well_above", surface + 1, false},
		{"at_surface", surface, false},
		{"inside_tolerance", surface - 0.04, false},
		{"just_past_tolerance", surface - 0.06, true},
		{"deep", surface - 5, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reason, hit := h.track.CheckLava(c.bottom)
			if hit != c.hit {
				t.Fatalf("CheckLava(%v) hit = %v, want %v", c.bottom, hit, c.hit)
			}
			if hit && reason != "lava" {
				t.Fatalf("reason = %q, want lava", reason)
			}
		})
	}
}

func TestRisingLava(t *testing.T) {
	cfg := config.Default()
	cfg.Lava.Rising = true
	h := newHarness(t, cfg, config.ModeDefault, 1)

	start := h.track.LavaSurface()
	for i := 0; i < 60; i++ {
		h.track.FixedUpdate(dt)
	}
	after := h.track.LavaSurface()
	if after <= start {
		t.Fatalf("lava did not rise: %v -> %v", start, after)
	}

	if reason, hit := h.track.CheckLava(after - 1); !hit || reason != "rising_lava" {
		t.Fatalf("rising lava contact: hit=%v reason=%q", hit, reason)
	}

	// the speed increase is per-run state; a reset starts over at base
	h.track.Reset()
	if got := h.track.LavaSurface(); got != cfg.Lava.SurfaceY {
		t.Fatalf("lava surface after reset = %v, want %v", got, cfg.Lava.SurfaceY)
	}
}

func TestSpikeZonesCarryConeSensors(t *testing.T) {
	h := newHarness(t, nil, config.ModeChaotic, 5)

	var seg *Segment
	for idx := 10; idx <= 200 && seg == nil; idx += 10 {
		h.track.SetPlayerIndex(idx)
		h.track.UpdateTrack(mgl64.Vec3{}, 0.05)
		for _, hd := range h.track.Active() {
			if s := h.track.Get(hd); s != nil && len(s.Zones) > 0 {
				seg = s
				break
			}
		}
	}
	if seg == nil {
		t.Fatalf("no spiked segment generated")
	}

	cones := 0
	for _, sh := range seg.Body.Shapes() {
		if sh.Kind() != phys.ShapeCone {
			continue
		}
		if !sh.Sensor() {
			t.Fatalf("spike cone on segment %d is not a sensor", seg.Index)
		}
		cones++
	}
	if cones != len(seg.Zones) {
		t.Fatalf("segment %d has %d cone sensors for %d zones", seg.Index, cones, len(seg.Zones))
	}
}
