package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelSpec is one level definition loaded from YAML.
type LevelSpec struct {
	Name      string    `yaml:"name"`
	Mode      Mode      `yaml:"mode"`
	Overrides Overrides `yaml:"overrides"`
}

// LoadLevelSpec reads and validates a level spec file.
func LoadLevelSpec(path string) (*LevelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("config: %s: level name is required", path)
	}
	if spec.Mode == "" {
		spec.Mode = ModeDefault
	}
	if !spec.Mode.Valid() {
		return nil, fmt.Errorf("config: %s: unknown mode %q", path, spec.Mode)
	}
	return &spec, nil
}

// Overrides are the per-level tunables. Every field is a pointer: nil means
// keep the base value. Application is enumerated field by field; there is no
// dynamic key merge.
type Overrides struct {
	Gravity *float64 `yaml:"gravity"`

	MoveSpeed  *float64 `yaml:"move_speed"`
	SprintMult *float64 `yaml:"sprint_mult"`
	MaxEnergy  *float64 `yaml:"max_energy"`
	MaxHealth  *float64 `yaml:"max_health"`

	QuickJumpCost *float64 `yaml:"quick_jump_cost"`
	MaxVertical   *float64 `yaml:"max_vertical"`
	MaxForward    *float64 `yaml:"max_forward"`

	SegmentLength *float64 `yaml:"segment_length"`
	SegmentWidth  *float64 `yaml:"segment_width"`
	GenerateAhead *int     `yaml:"generate_ahead"`
	KeepBehind    *int     `yaml:"keep_behind"`
	TurnChance    *float64 `yaml:"turn_chance"`
	CrumbleChance *float64 `yaml:"crumble_chance"`

	MaxTranslate      *float64 `yaml:"max_translate"`
	PauseDuration     *float64 `yaml:"pause_duration"`
	UniformTypeChance *float64 `yaml:"uniform_type_chance"`

	SpikeDamage      *float64 `yaml:"spike_damage"`
	SpikeCooldown    *float64 `yaml:"spike_cooldown"`
	BroadPhaseDistSq *float64 `yaml:"broad_phase_dist_sq"`

	LavaSurfaceY *float64 `yaml:"lava_surface_y"`
	LavaRising   *bool    `yaml:"lava_rising"`
	LavaRiseBase *float64 `yaml:"lava_rise_base"`
}

// Apply copies base and applies every set override onto the copy. The base
// is never mutated, so repeated runs start from the same tuning.
func (o Overrides) Apply(base *Config) *Config {
	if base == nil {
		base = Default()
	}
	cfg := *base

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setF(&cfg.Gravity, o.Gravity)

	setF(&cfg.Player.MoveSpeed, o.MoveSpeed)
	setF(&cfg.Player.SprintMult, o.SprintMult)
	setF(&cfg.Player.MaxEnergy, o.MaxEnergy)
	setF(&cfg.Player.MaxHealth, o.MaxHealth)

	setF(&cfg.Charge.QuickJumpCost, o.QuickJumpCost)
	setF(&cfg.Charge.MaxVertical, o.MaxVertical)
	setF(&cfg.Charge.MaxForward, o.MaxForward)

	setF(&cfg.Track.SegmentLength, o.SegmentLength)
	setF(&cfg.Track.SegmentWidth, o.SegmentWidth)
	setI(&cfg.Track.GenerateAhead, o.GenerateAhead)
	setI(&cfg.Track.KeepBehind, o.KeepBehind)
	setF(&cfg.Track.TurnChance, o.TurnChance)
	setF(&cfg.Track.CrumbleChance, o.CrumbleChance)

	setF(&cfg.Motion.MaxTranslate, o.MaxTranslate)
	setF(&cfg.Motion.PauseDuration, o.PauseDuration)
	setF(&cfg.Motion.UniformTypeChance, o.UniformTypeChance)

	setF(&cfg.Hazards.SpikeDamage, o.SpikeDamage)
	setF(&cfg.Hazards.Cooldown, o.SpikeCooldown)
	setF(&cfg.Hazards.BroadPhaseDistSq, o.BroadPhaseDistSq)

	setF(&cfg.Lava.SurfaceY, o.LavaSurfaceY)
	if o.LavaRising != nil {
		cfg.Lava.Rising = *o.LavaRising
	}
	setF(&cfg.Lava.RiseBase, o.LavaRiseBase)

	return &cfg
}
