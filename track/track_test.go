package track

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/phys"
	"github.com/milk9111/lavarunner/sched"
	"github.com/milk9111/lavarunner/telemetry"
)

const dt = 1.0 / 60.0

type harness struct {
	cfg   *config.Config
	space *phys.Space
	sch   *sched.Scheduler
	bus   *event.Bus
	track *Track
}

func newHarness(t *testing.T, cfg *config.Config, mode config.Mode, seed int64) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	tele := telemetry.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	space := phys.NewSpace(mgl64.Vec3{0, cfg.Gravity, 0})
	sch := sched.New()
	bus := &event.Bus{}
	return &harness{
		cfg:   cfg,
		space: space,
		sch:   sch,
		bus:   bus,
		track: New(cfg, mode, space, sch, bus, tele, seed),
	}
}

func (h *harness) segment(idx int) *Segment {
	for _, hd := range h.track.Active() {
		if seg := h.track.Get(hd); seg != nil && seg.Index == idx {
			return seg
		}
	}
	return nil
}

func TestSpawnSegmentIsSafe(t *testing.T) {
	h := newHarness(t, nil, config.ModeChaotic, 7)
	seg := h.segment(0)
	if seg == nil {
		t.Fatalf("no spawn segment")
	}
	if seg.IsCrumble || len(seg.Zones) != 0 || seg.Kinematic() || seg.Tilt != TiltNone {
		t.Fatalf("spawn segment must be flat, static and hazard free: %+v", seg)
	}
	if seg.Pos != (mgl64.Vec3{}) {
		t.Fatalf("spawn segment off origin: %v", seg.Pos)
	}
}

func TestWindowInvariant(t *testing.T) {
	h := newHarness(t, nil, config.ModeDefault, 3)
	tr := h.track

	tr.SetPlayerIndex(10)
	tr.UpdateTrack(mgl64.Vec3{}, 0.05)

	highest := -1
	lowest := 1 << 30
	seen := map[int]bool{}
	for _, hd := range tr.Active() {
		seg := tr.Get(hd)
		if seg == nil {
			t.Fatalf("stale handle in active list")
		}
		if seen[seg.Index] {
			t.Fatalf("duplicate index %d", seg.Index)
		}
		seen[seg.Index] = true
		if seg.Index > highest {
			highest = seg.Index
		}
		if seg.Index < lowest {
			lowest = seg.Index
		}
	}

	wantHigh := 10 + h.cfg.Track.GenerateAhead
	if highest != wantHigh {
		t.Fatalf("leading edge = %d, want %d", highest, wantHigh)
	}
	if lowest < 10-h.cfg.Track.KeepBehind {
		t.Fatalf("segment %d survived behind the keep window", lowest)
	}
}

func TestGenerationIndexMonotonic(t *testing.T) {
	h := newHarness(t, nil, config.ModeDefault, 11)
	tr := h.track

	for step := 0; step < 5; step++ {
		tr.SetPlayerIndex(step * 8)
		tr.UpdateTrack(mgl64.Vec3{}, 0.05)
	}

	prev := -1
	for _, hd := range tr.Active() {
		seg := tr.Get(hd)
		if seg.Index <= prev {
			t.Fatalf("indexes not strictly increasing: %d after %d", seg.Index, prev)
		}
		prev = seg.Index
	}
}

func TestDespawnReleasesBodies(t *testing.T) {
	h := newHarness(t, nil, config.ModeDefault, 5)
	tr := h.track

	tr.UpdateTrack(mgl64.Vec3{}, 0.05)
	seg := h.segment(0)
	if seg == nil {
		t.Fatalf("segment 0 missing")
	}
	body := seg.Body

	tr.SetPlayerIndex(20)
	tr.UpdateTrack(mgl64.Vec3{}, 0.05)

	if h.segment(0) != nil {
		t.Fatalf("segment 0 not despawned")
	}
	if body.IsValid() {
		t.Fatalf("despawned segment's body still valid")
	}
}

func TestResetStartsFreshRun(t *testing.T) {
	h := newHarness(t, nil, config.ModeDefault, 9)
	tr := h.track

	tr.SetPlayerIndex(15)
	tr.UpdateTrack(mgl64.Vec3{}, 0.05)
	if tr.Score() < 15 {
		t.Fatalf("expected score to grow with generation, got %d", tr.Score())
	}

	tr.Reset()
	if tr.Score() != 1 {
		t.Fatalf("score after reset = %d, want 1 (spawn segment)", tr.Score())
	}
	if tr.PlayerIndex() != 0 {
		t.Fatalf("player index after reset = %d", tr.PlayerIndex())
	}
	if seg := h.segment(0); seg == nil {
		t.Fatalf("no spawn segment after reset")
	}
	if got := tr.LavaSurface(); got != h.cfg.Lava.SurfaceY {
		t.Fatalf("lava not reset: %v", got)
	}
}

func TestPoolReuseResetsState(t *testing.T) {
	var p pool

	h1, seg := p.alloc()
	seg.Index = 42
	seg.IsCrumble = true
	seg.Crumble = CrumbleFalling
	seg.Heading = 1.2
	seg.Motion.typ = MotionSpinCW
	seg.Motion.offset = 3
	seg.Zones = append(seg.Zones, HazardZone{Damage: 25})
	seg.Tint = [3]float64{1, 1, 1}
	p.release(h1)

	if p.get(h1) != nil {
		t.Fatalf("released handle still resolves")
	}

	h2, fresh := p.alloc()
	if h2.Slot != h1.Slot {
		t.Fatalf("free list did not reuse slot %d", h1.Slot)
	}
	if h2.Gen == h1.Gen {
		t.Fatalf("generation did not advance on reuse")
	}
	if fresh.Index != 0 || fresh.IsCrumble || fresh.Crumble != CrumbleStable ||
		fresh.Heading != 0 || fresh.Motion.typ != MotionStatic ||
		fresh.Motion.offset != 0 || len(fresh.Zones) != 0 || fresh.Tint != [3]float64{} {
		t.Fatalf("pooled slot leaked prior state: %+v", fresh)
	}
}

func TestTranslateModeBuildsKinematic(t *testing.T) {
	h := newHarness(t, nil, config.ModeTranslate, 21)
	tr := h.track
	tr.UpdateTrack(mgl64.Vec3{}, 0.05)

	for _, hd := range tr.Active() {
		seg := tr.Get(hd)
		if seg.Index == 0 {
			continue
		}
		if !seg.Kinematic() {
			t.Fatalf("segment %d in translate mode is not kinematic", seg.Index)
		}
		if seg.Body.Type() != phys.BodyKinematic {
			t.Fatalf("segment %d body type %v", seg.Index, seg.Body.Type())
		}
	}
}
