package player

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/input"
	"github.com/milk9111/lavarunner/phys"
	"github.com/milk9111/lavarunner/telemetry"
)

const dt = 1.0 / 60.0

type harness struct {
	cfg    *config.Config
	space  *phys.Space
	bus    *event.Bus
	in     *input.Snapshot
	ground *phys.Body
	info   GroundInfo
	p      *Player
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	h := &harness{
		cfg:   cfg,
		space: phys.NewSpace(mgl64.Vec3{0, cfg.Gravity, 0}),
		bus:   &event.Bus{},
		in:    input.NewSnapshot(),
	}

	h.ground = phys.NewBody(phys.BodyFixed, mgl64.Vec3{})
	h.space.AddBody(h.ground)
	h.space.AddShape(h.ground, phys.NewBox(mgl64.Vec3{3, 0.25, 3}))
	h.info = GroundInfo{Segment: 0, Tint: [3]float64{0.5, 0.5, 0.5}, Body: h.ground}

	tele := telemetry.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	resolve := func(body *phys.Body) (GroundInfo, bool) {
		if body == h.info.Body {
			return h.info, true
		}
		return GroundInfo{}, false
	}

	spawn := mgl64.Vec3{0, 0.25 + cfg.Player.CapsuleHalfHeight + cfg.Player.CapsuleRadius + 0.02, 0}
	h.p = New(cfg, h.space, h.bus, tele, resolve, spawn)
	return h
}

func (h *harness) tick(frame input.Frame) {
	h.in.Update(dt, frame)
	h.p.FixedUpdate(dt, h.in)
}

// settle runs empty ticks until grounded duration exceeds the charge gate.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 8; i++ {
		h.tick(input.Frame{})
	}
	if !h.p.Grounded() {
		t.Fatalf("player failed to settle on the test platform")
	}
}

func (h *harness) drain() []event.Event {
	return h.bus.Drain()
}

func TestTransitionTableMembership(t *testing.T) {
	all := []StateKind{StateIdle, StateWalk, StateCharge, StateLeap, StateFall, StateDash, StateDead}
	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}
			h := newHarness(t)
			h.settle(t)
			h.p.state = from

			accepted := h.p.setState(to, "attempt")
			if accepted != canTransition(from, to) {
				t.Fatalf("%v -> %v accepted=%v, table says %v", from, to, accepted, canTransition(from, to))
			}
			if accepted && h.p.State() != to {
				t.Fatalf("accepted transition did not land on %v", to)
			}
			if !accepted && h.p.State() != from {
				t.Fatalf("rejected %v -> %v changed state to %v", from, to, h.p.State())
			}
		}
	}
}

func TestDeadIsTerminal(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	h.p.Kill("lava")
	if h.p.State() != StateDead {
		t.Fatalf("Kill did not reach Dead")
	}

	for _, to := range []StateKind{StateIdle, StateWalk, StateLeap, StateFall, StateDash, StateCharge} {
		if h.p.setState(to, "attempt") {
			t.Fatalf("Dead -> %v accepted", to)
		}
	}

	// update is a no-op while dead
	h.tick(input.Frame{Forward: true, Charge: true})
	if h.p.State() != StateDead {
		t.Fatalf("dead player updated out of Dead")
	}

	h.p.Reset(mgl64.Vec3{0, 1.27, 0})
	if h.p.State() != StateIdle {
		t.Fatalf("reset should force Idle, got %v", h.p.State())
	}
	if h.p.Health() != h.cfg.Player.MaxHealth || h.p.Energy() != h.cfg.Player.MaxEnergy {
		t.Fatalf("reset did not restore health/energy")
	}
}

func TestEnergyBounds(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	h.p.consumeStamina(h.cfg.Player.MaxEnergy * 3)
	if h.p.Energy() != 0 {
		t.Fatalf("over-consumption should floor at 0, got %v", h.p.Energy())
	}
	h.p.refund(h.cfg.Player.MaxEnergy * 5)
	if h.p.Energy() != h.cfg.Player.MaxEnergy {
		t.Fatalf("refund should cap at max, got %v", h.p.Energy())
	}

	// a long mixed sequence keeps the invariant
	for i := 0; i < 500; i++ {
		if i%3 == 0 {
			h.p.consumeStamina(float64(i%7) * 3)
		}
		h.tick(input.Frame{})
		if e := h.p.Energy(); e < 0 || e > h.cfg.Player.MaxEnergy {
			t.Fatalf("energy %v out of bounds at step %d", e, i)
		}
	}
}

func TestRegenOnlyGroundedAfterDelay(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	h.p.consumeStamina(50)

	delayTicks := int(h.cfg.Energy.RegenDelay/dt) - 2
	for i := 0; i < delayTicks; i++ {
		h.tick(input.Frame{})
	}
	if h.p.Energy() > 50 {
		t.Fatalf("regen started before the delay: %v", h.p.Energy())
	}

	for i := 0; i < 30; i++ {
		h.tick(input.Frame{})
	}
	if h.p.Energy() <= 50 {
		t.Fatalf("regen never started: %v", h.p.Energy())
	}

	// airborne players do not regenerate
	h.p.consumeStamina(20)
	before := h.p.Energy()
	h.p.grounded = false
	for i := 0; i < 120; i++ {
		h.p.updateEnergy(dt)
	}
	if h.p.Energy() != before {
		t.Fatalf("airborne regen: %v -> %v", before, h.p.Energy())
	}
}

func TestQuickJumpTap(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	// hold for three ticks (~0.05s, under the tap threshold), then release
	for i := 0; i < 3; i++ {
		h.tick(input.Frame{Charge: true})
	}
	if h.p.State() != StateCharge {
		t.Fatalf("charge never began: %v", h.p.State())
	}
	h.tick(input.Frame{})

	if h.p.State() != StateLeap {
		t.Fatalf("tap release should leap, got %v", h.p.State())
	}
	want := h.cfg.Player.MaxEnergy - h.cfg.Charge.QuickJumpCost
	if got := h.p.Energy(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("energy after quick jump = %v, want %v", got, want)
	}
	if vy := h.p.Body().Linvel().Y(); vy != h.cfg.Charge.QuickJumpVelocity {
		t.Fatalf("vertical velocity = %v, want %v", vy, h.cfg.Charge.QuickJumpVelocity)
	}
}

func TestQuickJumpInsufficientEnergy(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	h.drain()

	h.p.energy = 3
	h.p.applyState(StateCharge, "test")
	h.p.charge.chargeTime = 0.05
	h.p.launch()

	if h.p.State() != StateIdle {
		t.Fatalf("grounded insufficient jump should fall back to Idle, got %v", h.p.State())
	}
	if h.p.Energy() != 3 {
		t.Fatalf("energy changed: %v", h.p.Energy())
	}
	if vy := h.p.Body().Linvel().Y(); vy != 0 {
		t.Fatalf("velocity applied despite insufficient energy: %v", vy)
	}

	count := 0
	for _, ev := range h.drain() {
		if ie, ok := ev.Data.(event.InsufficientEnergy); ok {
			count++
			if ie.Cost != h.cfg.Charge.QuickJumpCost || ie.Have != 3 {
				t.Fatalf("bad insufficient-energy payload: %+v", ie)
			}
		}
	}
	if count != 1 {
		t.Fatalf("insufficient-energy fired %d times, want exactly once", count)
	}
}

func TestChargeLaunchVerticalInterpolation(t *testing.T) {
	cases := []struct {
		name string
		pct  float64
	}{
		{"zero", 0},
		{"half", 0.5},
		{"full", 1},
	}
	prev := -1.0
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t)
			h.settle(t)

			h.p.applyState(StateCharge, "test")
			h.p.charge.chargeTime = 1.0
			h.p.charge.maxPossible = 80
			h.p.charge.consumed = c.pct * 80
			h.p.launch()

			if h.p.State() != StateLeap {
				t.Fatalf("launch should leap, got %v", h.p.State())
			}
			want := h.cfg.Charge.MinVertical + (h.cfg.Charge.MaxVertical-h.cfg.Charge.MinVertical)*c.pct
			got := h.p.Body().Linvel().Y()
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("vertical velocity = %v, want %v", got, want)
			}
			if got < prev {
				t.Fatalf("vertical velocity not monotonic in pct: %v < %v", got, prev)
			}
			prev = got
		})
	}
}

func TestChargeRefundRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	start := h.p.Energy()

	h.p.applyState(StateCharge, "test")
	for i := 0; i < 3; i++ {
		h.in.Update(dt, input.Frame{Charge: true})
		h.p.updateCharge(dt, h.in)
	}
	if h.p.Energy() >= start {
		t.Fatalf("holding charge drained nothing")
	}
	h.p.refundCharge()
	if math.Abs(h.p.Energy()-start) > 1e-9 {
		t.Fatalf("refund round trip: %v, want %v", h.p.Energy(), start)
	}
}

func TestChargeCanceledWhenGroundLost(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	start := h.p.Energy()

	h.p.applyState(StateCharge, "test")
	h.in.Update(dt, input.Frame{Charge: true})
	h.p.updateCharge(dt, h.in)

	h.p.grounded = false
	h.p.coyoteTimer = 0
	h.in.Update(dt, input.Frame{Charge: true})
	h.p.updateCharge(dt, h.in)

	if h.p.State() != StateFall {
		t.Fatalf("canceled charge should fall, got %v", h.p.State())
	}
	if math.Abs(h.p.Energy()-start) > 1e-9 {
		t.Fatalf("cancellation must refund everything: %v, want %v", h.p.Energy(), start)
	}
}

func TestChargeAutoLaunchAtMaxTime(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	ticks := int(h.cfg.Charge.MaxChargeTime/dt) + 8
	for i := 0; i < ticks && h.p.State() != StateLeap; i++ {
		h.tick(input.Frame{Charge: true})
	}
	if h.p.State() != StateLeap {
		t.Fatalf("held charge never auto-launched, state %v", h.p.State())
	}
	if vy := h.p.Body().Linvel().Y(); vy < h.cfg.Charge.MinVertical {
		t.Fatalf("auto-launch vertical %v below minimum", vy)
	}
}

func TestDashBurst(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	startEnergy := h.p.Energy()

	h.tick(input.Frame{Dash: true})
	if h.p.State() != StateDash {
		t.Fatalf("dash press should dash, got %v", h.p.State())
	}
	if h.p.Energy() >= startEnergy {
		t.Fatalf("dash consumed no stamina")
	}

	v := h.p.Body().Linvel()
	wantSpeed := startEnergy * h.cfg.Dash.ForceMultiplier
	if math.Abs(v.Z()-wantSpeed) > 1e-9 {
		t.Fatalf("dash velocity z = %v, want %v", v.Z(), wantSpeed)
	}
	if v.Y() != 0 {
		t.Fatalf("grounded dash should zero vertical velocity, got %v", v.Y())
	}

	// expires back to a grounded state
	ticks := int(h.cfg.Dash.Duration/dt) + 2
	for i := 0; i < ticks; i++ {
		h.tick(input.Frame{Dash: true})
	}
	if s := h.p.State(); s != StateIdle && s != StateWalk {
		t.Fatalf("expired grounded dash should idle or walk, got %v", s)
	}
}

func TestDashReversedOnBackOnly(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	h.tick(input.Frame{Dash: true, Back: true})
	if h.p.State() != StateDash {
		t.Fatalf("dash press should dash, got %v", h.p.State())
	}
	if v := h.p.Body().Linvel(); v.Z() >= 0 {
		t.Fatalf("back-only dash should reverse, got z=%v", v.Z())
	}
}

func TestDashRequiresMinimumEnergy(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	h.p.energy = h.cfg.Dash.MinEnergy - 1

	h.tick(input.Frame{Dash: true})
	if h.p.State() == StateDash {
		t.Fatalf("dash should be gated on minimum energy")
	}
}

func TestCoyoteCharge(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	// yank the platform; next tick starts the coyote window
	if err := h.space.RemoveBody(h.ground); err != nil {
		t.Fatalf("remove ground: %v", err)
	}
	h.tick(input.Frame{})
	if h.p.Grounded() {
		t.Fatalf("still grounded after platform removal")
	}

	h.tick(input.Frame{Charge: true})
	if h.p.State() != StateCharge {
		t.Fatalf("coyote window should allow charge, got %v", h.p.State())
	}
}

func TestFallLandingEmitsEvent(t *testing.T) {
	h := newHarness(t)
	h.settle(t)
	h.drain()

	h.p.forceState(StateFall, "test")
	for i := 0; i < 6 && h.p.State() == StateFall; i++ {
		h.tick(input.Frame{})
	}
	if h.p.State() != StateIdle {
		t.Fatalf("landing should idle without intent, got %v", h.p.State())
	}

	found := false
	for _, ev := range h.drain() {
		if l, ok := ev.Data.(event.Landing); ok {
			found = true
			if l.Segment != 0 || l.Tint != h.info.Tint {
				t.Fatalf("landing payload %+v", l)
			}
		}
	}
	if !found {
		t.Fatalf("no landing event emitted")
	}
}

func TestHistoryBounded(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	for i := 0; i < 20; i++ {
		h.tick(input.Frame{})
		if i%2 == 0 {
			h.p.setState(StateWalk, "toggle")
		} else {
			h.p.setState(StateIdle, "toggle")
		}
	}
	hist := h.p.History()
	if got := len(hist); got > historyCap {
		t.Fatalf("history length %d exceeds cap %d", got, historyCap)
	}
	for i, rec := range hist {
		if rec.Tick == 0 {
			t.Fatalf("record %d has no tick stamp", i)
		}
		if i > 0 && rec.Tick < hist[i-1].Tick {
			t.Fatalf("tick stamps not monotonic: %d after %d", rec.Tick, hist[i-1].Tick)
		}
	}
	if last := hist[len(hist)-1].Tick; last != h.p.tick {
		t.Fatalf("latest record stamped tick %d, player at tick %d", last, h.p.tick)
	}
}

func TestCarryFromTranslatingPlatform(t *testing.T) {
	h := newHarness(t)
	h.info.Kinematic = true
	h.info.LinVel = mgl64.Vec3{2, 0, 0}
	h.settle(t)

	graceTicks := int(h.cfg.Motion.CarryGraceTime/dt) + 2
	startX := h.p.Position().X()
	for i := 0; i < graceTicks+10; i++ {
		h.tick(input.Frame{})
	}
	if got := h.p.Position().X(); got <= startX {
		t.Fatalf("player not carried: x %v -> %v", startX, got)
	}
}

func TestCarryClampedToMaxSpeed(t *testing.T) {
	h := newHarness(t)
	h.info.Kinematic = true
	h.info.LinVel = mgl64.Vec3{1000, 0, 0}
	h.settle(t)

	before := h.p.Position().X()
	for i := 0; i < int(h.cfg.Motion.CarryGraceTime/dt)+3; i++ {
		h.tick(input.Frame{})
	}
	moved := h.p.Position().X() - before
	maxPerTick := h.cfg.Motion.MaxCarrySpeed * dt
	perTick := moved / float64(int(h.cfg.Motion.CarryGraceTime/dt)+3)
	if perTick > maxPerTick+1e-9 {
		t.Fatalf("carry exceeded clamp: %v per tick, cap %v", perTick, maxPerTick)
	}
}

func TestJumpInheritsPlatformMomentum(t *testing.T) {
	h := newHarness(t)
	h.info.Kinematic = true
	h.info.LinVel = mgl64.Vec3{2, 0, 0}
	h.settle(t)

	h.p.applyState(StateCharge, "test")
	h.p.charge.chargeTime = 0.05
	h.p.launch()

	if h.p.State() != StateLeap {
		t.Fatalf("tap release did not leap, state %v", h.p.State())
	}
	want := 2 * h.cfg.Motion.CarryTranslate
	if vx := h.p.Body().Linvel().X(); math.Abs(vx-want) > 1e-9 {
		t.Fatalf("quick jump off a 2 u/s platform left with vx %v, want %v", vx, want)
	}

	// the full charge launch inherits the same carry
	h2 := newHarness(t)
	h2.info.Kinematic = true
	h2.info.LinVel = mgl64.Vec3{2, 0, 0}
	h2.settle(t)

	h2.p.applyState(StateCharge, "test")
	h2.p.charge.chargeTime = 1.0
	h2.p.charge.maxPossible = 80
	h2.p.charge.consumed = 80
	h2.p.launch()

	if vx := h2.p.Body().Linvel().X(); math.Abs(vx-want) > 1e-9 {
		t.Fatalf("charge launch off a 2 u/s platform left with vx %v, want %v", vx, want)
	}
}

func TestFallingPlatformRelativeJump(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	// swap the ground for a falling dynamic platform moving down at 3 u/s
	falling := phys.NewBody(phys.BodyDynamic, mgl64.Vec3{})
	h.space.AddBody(falling)
	falling.SetLinvel(mgl64.Vec3{0, -3, 0})
	h.p.ground = GroundInfo{Segment: 2, Body: falling, Crumble: true, Falling: true}
	h.p.hasGround = true
	h.p.body.SetLinvel(mgl64.Vec3{0, -3, 0})

	h.p.applyState(StateCharge, "test")
	h.p.charge.chargeTime = 0.05
	h.p.launch()

	want := -3 + h.cfg.Charge.QuickJumpVelocity
	if vy := h.p.Body().Linvel().Y(); math.Abs(vy-want) > 1e-9 {
		t.Fatalf("relative jump vy = %v, want %v", vy, want)
	}
	if pv := falling.Linvel().Y(); pv >= -3 {
		t.Fatalf("platform reaction impulse missing: vy %v", pv)
	}
}
