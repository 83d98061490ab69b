// Package config holds the immutable base tuning for the simulation and the
// enumerated per-level override mechanism.
package config

import "math"

// PlayerConfig tunes the locomotion body and movement speeds.
type PlayerConfig struct {
	MaxHealth     float64
	MaxEnergy     float64
	MoveSpeed     float64
	SprintMult    float64
	TurnThreshold float64 // yaw delta treated as movement intent, radians

	CapsuleRadius     float64
	CapsuleHalfHeight float64
	Mass              float64

	MinGroundTime float64
	CoyoteTime    float64
	GroundCastLen float64
	LandEpsilon   float64

	// RideVelocityThreshold is the max vertical velocity difference between
	// player and a falling platform that still counts as grounded.
	RideVelocityThreshold float64
}

// ChargeConfig tunes the charge-jump state.
type ChargeConfig struct {
	DrainRate     float64
	MaxChargeTime float64
	TapThreshold  float64

	QuickJumpCost     float64
	QuickJumpVelocity float64

	MinChargeEnergy float64
	MinVertical     float64
	MaxVertical     float64
	MinForward      float64
	MaxForward      float64

	// UseCameraForward launches along the flattened camera forward instead
	// of the model forward.
	UseCameraForward bool

	// PlatformReactionScale scales the downward reaction impulse applied to
	// a falling platform jumped off of.
	PlatformReactionScale float64
}

// DashConfig tunes the dash state.
type DashConfig struct {
	MinEnergy       float64
	ForceMultiplier float64
	Duration        float64
	FallCap         float64 // downward velocity cap while dashing airborne, negative
}

// EnergyConfig tunes stamina regeneration.
type EnergyConfig struct {
	RegenDelay float64
	RegenRate  float64
}

// TrackConfig tunes segment generation and the sliding window.
type TrackConfig struct {
	SegmentLength float64
	SegmentWidth  float64
	SegmentHalfThickness float64

	GenerateAhead int
	KeepBehind    int

	// Windowed nearest-segment search bounds around the last known index.
	SearchBack  int
	SearchAhead int

	SearchInterval float64 // seconds between nearest-segment scans

	TurnChance    float64
	TurnAngleDeg  float64
	MinTurnIndex  int
	CrumbleChance float64

	// TeeterAnchorOffset is how far the revolute anchor sits from the
	// platform center along the tilt axis.
	TeeterAnchorOffset float64
}

// MotionConfig tunes kinematic platform motion and carry physics.
type MotionConfig struct {
	MaxTranslate     float64
	MaxRotateDeg     float64
	BaseSpeed        float64
	FreeRotateFactor float64
	SpinSpeed        float64
	PauseDuration    float64

	UniformTypeChance float64

	CarryTranslate float64
	CarrySpin      float64
	CarryTilt      float64
	CarryGraceTime float64
	MaxCarrySpeed  float64
}

// CrumbleConfig tunes the crumble platform lifecycle.
type CrumbleConfig struct {
	WarningDelay   float64
	LinearDamping  float64
	AngularDamping float64
	BreakImpulse   float64
}

// HazardConfig tunes spike zones.
type HazardConfig struct {
	SpikeRadius     float64
	SpikeHalfHeight float64
	SpikeDamage     float64
	Cooldown        float64

	// BroadPhaseDistSq is the squared XZ distance beyond which zone checks
	// bail out early. Tuned, not derived; override per level if profiling
	// says otherwise.
	BroadPhaseDistSq float64
}

// LavaConfig tunes the kill plane.
type LavaConfig struct {
	SurfaceY  float64
	Tolerance float64
	Rising    bool
	RiseBase  float64
	RiseAccel float64
}

// Config is the full simulation tuning. The base config is treated as
// immutable; ApplyOverrides copies it.
type Config struct {
	Gravity float64
	FixedDt float64

	MaxFrameTime   float64
	MaxErrorStreak int

	RespawnDelayTicks uint64

	Player  PlayerConfig
	Charge  ChargeConfig
	Dash    DashConfig
	Energy  EnergyConfig
	Track   TrackConfig
	Motion  MotionConfig
	Crumble CrumbleConfig
	Hazards HazardConfig
	Lava    LavaConfig
}

// Default returns the base tuning every level starts from.
func Default() *Config {
	return &Config{
		Gravity: -22.0,
		FixedDt: 1.0 / 60.0,

		MaxFrameTime:   0.1,
		MaxErrorStreak: 5,

		RespawnDelayTicks: 30,

		Player: PlayerConfig{
			MaxHealth:     100,
			MaxEnergy:     100,
			MoveSpeed:     6.0,
			SprintMult:    1.6,
			TurnThreshold: 0.02,

			CapsuleRadius:     0.4,
			CapsuleHalfHeight: 0.6,
			Mass:              1.0,

			MinGroundTime: 0.05,
			CoyoteTime:    0.12,
			GroundCastLen: 0.15,
			LandEpsilon:   0.02,

			RideVelocityThreshold: 1.5,
		},
		Charge: ChargeConfig{
			DrainRate:     40.0,
			MaxChargeTime: 2.0,
			TapThreshold:  0.2,

			QuickJumpCost:     5.0,
			QuickJumpVelocity: 8.0,

			MinChargeEnergy: 10.0,
			MinVertical:     6.0,
			MaxVertical:     16.0,
			MinForward:      2.0,
			MaxForward:      12.0,

			UseCameraForward:      true,
			PlatformReactionScale: 0.35,
		},
		Dash: DashConfig{
			MinEnergy:       15.0,
			ForceMultiplier: 0.6,
			Duration:        0.2,
			FallCap:         -4.0,
		},
		Energy: EnergyConfig{
			RegenDelay: 0.75,
			RegenRate:  25.0,
		},
		Track: TrackConfig{
			SegmentLength:        6.0,
			SegmentWidth:         4.0,
			SegmentHalfThickness: 0.25,

			GenerateAhead: 12,
			KeepBehind:    6,

			SearchBack:  3,
			SearchAhead: 4,

			SearchInterval: 0.1,

			TurnChance:    0.18,
			TurnAngleDeg:  22.5,
			MinTurnIndex:  3,
			CrumbleChance: 0.15,

			TeeterAnchorOffset: 0.8,
		},
		Motion: MotionConfig{
			MaxTranslate:     6.0,
			MaxRotateDeg:     30.0,
			BaseSpeed:        2.0,
			FreeRotateFactor: 0.35,
			SpinSpeed:        1.2,
			PauseDuration:    0.6,

			UniformTypeChance: 0.2,

			CarryTranslate: 0.9,
			CarrySpin:      0.6,
			CarryTilt:      0.4,
			CarryGraceTime: 0.15,
			MaxCarrySpeed:  10.0,
		},
		Crumble: CrumbleConfig{
			WarningDelay:   1.0,
			LinearDamping:  0.6,
			AngularDamping: 1.2,
			BreakImpulse:   0.5,
		},
		Hazards: HazardConfig{
			SpikeRadius:     0.35,
			SpikeHalfHeight: 0.5,
			SpikeDamage:     25.0,
			Cooldown:        1.0,

			BroadPhaseDistSq: 64.0,
		},
		Lava: LavaConfig{
			SurfaceY:  -12.0,
			Tolerance: 0.05,
			Rising:    false,
			RiseBase:  0.4,
			RiseAccel: 0.01,
		},
	}
}

// TurnAngle returns the turn angle in radians.
func (t TrackConfig) TurnAngle() float64 {
	return t.TurnAngleDeg * math.Pi / 180
}

// MaxRotate returns the rotation oscillation limit in radians.
func (m MotionConfig) MaxRotate() float64 {
	return m.MaxRotateDeg * math.Pi / 180
}
