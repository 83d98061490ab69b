// Package player implements the locomotion core: a seven-state machine
// driving a capsule physics body with an energy economy.
package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/lavarunner/config"
	"github.com/milk9111/lavarunner/event"
	"github.com/milk9111/lavarunner/input"
	"github.com/milk9111/lavarunner/phys"
	"github.com/milk9111/lavarunner/telemetry"
)

// GroundInfo is the locomotion-facing view of the surface underfoot,
// re-resolved from a shape cast every fixed tick. Body is non-owning.
type GroundInfo struct {
	Segment   int
	Tint      [3]float64
	Body      *phys.Body
	Crumble   bool
	Falling   bool // crumble platform currently in free fall
	Kinematic bool
	Spinning  bool // yaw-axis motion, carried at the spin fraction

	LinVel  mgl64.Vec3
	AngVel  float64
	AngAxis mgl64.Vec3
}

// Resolver maps a ground-cast hit body to its owning segment's info. It
// returns false when the body belongs to no active segment.
type Resolver func(body *phys.Body) (GroundInfo, bool)

// Player is the locomotion core. All mutation happens on the fixed tick.
type Player struct {
	cfg   *config.Config
	space *phys.Space
	bus   *event.Bus
	tele  *telemetry.Telemetry

	resolve Resolver
	body    *phys.Body

	state   StateKind
	history []historyRecord
	tick    uint64

	health float64
	energy float64

	grounded         bool
	groundedDuration float64
	coyoteTimer      float64
	yaw              float64

	ground    GroundInfo
	hasGround bool
	carryTime float64

	charge chargeData
	dash   dashData

	consumedThisTick bool
	consuming        bool
	consumeTotal     float64
	regening         bool
	regenTotal       float64
	sinceConsume     float64
}

// New creates the player body at spawnPos and registers it with the space.
func New(cfg *config.Config, space *phys.Space, bus *event.Bus, tele *telemetry.Telemetry, resolve Resolver, spawnPos mgl64.Vec3) *Player {
	p := &Player{
		cfg:     cfg,
		space:   space,
		bus:     bus,
		tele:    tele,
		resolve: resolve,
		state:   StateIdle,
		health:  cfg.Player.MaxHealth,
		energy:  cfg.Player.MaxEnergy,
	}

	body := phys.NewBody(phys.BodyDynamic, spawnPos)
	body.SetMass(cfg.Player.Mass)
	body.LockRotations()
	space.AddBody(body)
	space.AddShape(body, phys.NewCapsule(cfg.Player.CapsuleRadius, cfg.Player.CapsuleHalfHeight))
	p.body = body

	return p
}

// State returns the current locomotion state.
func (p *Player) State() StateKind { return p.state }

// Health returns current health.
func (p *Player) Health() float64 { return p.health }

// Energy returns current energy.
func (p *Player) Energy() float64 { return p.energy }

// Grounded reports whether the last ground cast hit.
func (p *Player) Grounded() bool { return p.grounded }

// Body exposes the physics body for camera and teleport wiring.
func (p *Player) Body() *phys.Body { return p.body }

// Position returns the capsule center.
func (p *Player) Position() mgl64.Vec3 { return p.body.Translation() }

// BottomY returns the world Y of the capsule's lowest point, the coordinate
// lava and spike band checks run against.
func (p *Player) BottomY() float64 {
	return p.body.Translation().Y() - (p.cfg.Player.CapsuleHalfHeight + p.cfg.Player.CapsuleRadius)
}

// GroundBody returns the body underfoot, or nil when airborne or unresolved.
func (p *Player) GroundBody() *phys.Body {
	if !p.grounded || !p.hasGround {
		return nil
	}
	return p.ground.Body
}

// History returns a copy of the bounded transition log.
func (p *Player) History() []historyRecord {
	out := make([]historyRecord, len(p.history))
	copy(out, p.history)
	return out
}

// FixedUpdate advances the locomotion core by one physics tick. A panic in
// state logic is contained here; the player degrades to Idle and the frame
// loop keeps running.
func (p *Player) FixedUpdate(dt float64, in *input.Snapshot) {
	if p == nil || p.state == StateDead {
		// gravity keeps acting on the body; nothing to manage
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.tele.RecoveredPanic("player update", r)
			p.forceState(StateIdle, "panic recovery")
		}
	}()

	p.tick++
	p.consumedThisTick = false
	p.yaw = in.Yaw()

	p.updateGround(dt)

	switch p.state {
	case StateIdle, StateWalk:
		p.updateGrounded(dt, in)
	case StateCharge:
		p.updateCharge(dt, in)
	case StateLeap:
		p.updateLeap(in)
	case StateFall:
		p.updateFall(dt, in)
	case StateDash:
		p.updateDash(dt, in)
	}

	p.updateEnergy(dt)
	p.applyCarry(dt)
}

// updateGrounded handles the shared Idle/Walk behavior: dash pre-empts,
// then charge, then plain movement.
func (p *Player) updateGrounded(dt float64, in *input.Snapshot) {
	if in.DashPressed() && p.canDash() {
		p.startDash(in)
		return
	}
	if in.ChargeHeld() && p.canBeginCharge() {
		p.setState(StateCharge, "charge held")
		return
	}
	if !p.grounded && p.coyoteTimer <= 0 {
		p.setState(StateFall, "walked off edge")
		return
	}

	intent := in.MoveIntent()
	speed := p.cfg.Player.MoveSpeed
	if in.SprintHeld() {
		speed *= p.cfg.Player.SprintMult
	}
	fwd := p.forward()
	v := p.body.Linvel()
	p.body.SetLinvel(mgl64.Vec3{fwd.X() * intent * speed, v.Y(), fwd.Z() * intent * speed})

	moving := intent != 0 || math.Abs(in.YawDelta()) > p.cfg.Player.TurnThreshold
	if moving && p.state == StateIdle {
		p.setState(StateWalk, "movement intent")
	} else if !moving && p.state == StateWalk {
		p.setState(StateIdle, "no movement intent")
	}
}

func (p *Player) updateLeap(in *input.Snapshot) {
	if in.DashPressed() && p.canDash() {
		p.startDash(in)
		return
	}
	if p.body.Linvel().Y() < 0 {
		p.setState(StateFall, "apex passed")
	}
}

func (p *Player) updateFall(dt float64, in *input.Snapshot) {
	if in.DashPressed() && p.canDash() {
		p.startDash(in)
		return
	}
	if in.ChargeHeld() && p.canBeginCharge() {
		// coyote window charge
		p.setState(StateCharge, "charge held")
		return
	}
	if p.grounded && p.groundedDuration > p.cfg.Player.MinGroundTime-p.cfg.Player.LandEpsilon {
		if p.hasGround && p.bus != nil {
			p.bus.Push(event.Landing{Segment: p.ground.Segment, Tint: p.ground.Tint})
		}
		if in.MoveIntent() != 0 {
			p.setState(StateWalk, "landed")
		} else {
			p.setState(StateIdle, "landed")
		}
	}
}

// forward is the flattened facing direction derived from look yaw.
func (p *Player) forward() mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(p.yaw), 0, math.Cos(p.yaw)}
}

// ApplyDamage reduces health and kills the player at zero. Returns true when
// this hit was lethal.
func (p *Player) ApplyDamage(amount float64, segment int) bool {
	if p.state == StateDead {
		return false
	}
	p.health = math.Max(0, p.health-amount)
	p.tele.Damage(amount, p.health, segment)
	if p.bus != nil {
		p.bus.Push(event.Damage{Amount: amount, Remaining: p.health, Segment: segment})
	}
	if p.health <= 0 {
		p.Kill("damage")
		return true
	}
	return false
}

// Kill transitions to Dead with a reason tag. The body keeps falling under
// gravity; the host owns score persistence and the death event.
func (p *Player) Kill(reason string) {
	if p.state == StateDead {
		return
	}
	p.setState(StateDead, reason)
}

// Reset restores the player for a fresh run: full health and energy, Idle
// state, zero velocity, body moved to spawnPos. This is the one path out of
// Dead.
func (p *Player) Reset(spawnPos mgl64.Vec3) {
	p.health = p.cfg.Player.MaxHealth
	p.energy = p.cfg.Player.MaxEnergy
	p.grounded = false
	p.groundedDuration = 0
	p.coyoteTimer = 0
	p.hasGround = false
	p.ground = GroundInfo{}
	p.carryTime = 0
	p.charge = chargeData{}
	p.dash = dashData{}
	p.consuming = false
	p.regening = false
	p.sinceConsume = 0

	p.body.SetTranslation(spawnPos)
	p.body.SetLinvel(mgl64.Vec3{})

	p.forceState(StateIdle, "respawn")
}

// TeleportTo moves the body and clears velocity without touching health,
// energy, or state.
func (p *Player) TeleportTo(pos mgl64.Vec3) {
	p.body.SetTranslation(pos)
	p.body.SetLinvel(mgl64.Vec3{})
	p.hasGround = false
	p.ground = GroundInfo{}
	p.carryTime = 0
}

func (p *Player) canBeginCharge() bool {
	if p.energy < p.cfg.Charge.QuickJumpCost {
		return false
	}
	if p.grounded && p.groundedDuration > p.cfg.Player.MinGroundTime {
		return true
	}
	return p.coyoteTimer > 0
}
