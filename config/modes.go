package config

// Mode is the track flavor a level runs with.
type Mode string

const (
	ModeDefault      Mode = "default"
	ModeChaotic      Mode = "chaotic"
	ModeModerateTilt Mode = "moderate_tilt"
	ModeNoTilt       Mode = "no_tilt"
	ModeTranslate    Mode = "translate"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeDefault, ModeChaotic, ModeModerateTilt, ModeNoTilt, ModeTranslate:
		return true
	}
	return false
}

// HeightBand is one entry of a piecewise height-delta distribution: with
// probability Weight (relative to the table total) the delta is drawn
// uniformly from [Min, Max].
type HeightBand struct {
	Weight float64
	Min    float64
	Max    float64
}

// ModeParams are the generation knobs that differ between track flavors.
type ModeParams struct {
	HeightBands  []HeightBand
	MaxAbsHeight float64

	TiltChance      float64
	SpikeChance     float64
	SpikesOnTilting bool

	// SpacingOverride replaces SegmentLength when positive.
	SpacingOverride float64

	// Kinematic marks segments as motion-driven kinematic platforms.
	Kinematic bool
}

// Params returns the generation parameters for a mode. Unknown modes get the
// default flavor.
func (m Mode) Params() ModeParams {
	switch m {
	case ModeChaotic:
		return ModeParams{
			HeightBands: []HeightBand{
				{Weight: 0.3, Min: -2.5, Max: -0.5},
				{Weight: 0.3, Min: 0.5, Max: 2.5},
				{Weight: 0.4, Min: -1.0, Max: 1.0},
			},
			MaxAbsHeight:    3.0,
			TiltChance:      0.35,
			SpikeChance:     0.35,
			SpikesOnTilting: true,
		}
	case ModeModerateTilt:
		return ModeParams{
			HeightBands: []HeightBand{
				{Weight: 0.5, Min: -0.8, Max: 0.8},
				{Weight: 0.5, Min: -1.5, Max: 1.5},
			},
			MaxAbsHeight:    2.0,
			TiltChance:      0.5,
			SpikeChance:     0.2,
			SpikesOnTilting: false,
		}
	case ModeNoTilt:
		return ModeParams{
			HeightBands: []HeightBand{
				{Weight: 0.7, Min: -0.5, Max: 0.5},
				{Weight: 0.3, Min: -1.2, Max: 1.2},
			},
			MaxAbsHeight:    1.5,
			TiltChance:      0,
			SpikeChance:     0.25,
			SpikesOnTilting: true,
		}
	case ModeTranslate:
		return ModeParams{
			HeightBands: []HeightBand{
				{Weight: 1.0, Min: -0.6, Max: 0.6},
			},
			MaxAbsHeight:    1.0,
			TiltChance:      0,
			SpikeChance:     0.1,
			SpikesOnTilting: true,
			SpacingOverride: 8.0,
			Kinematic:       true,
		}
	default:
		return ModeParams{
			HeightBands: []HeightBand{
				{Weight: 0.6, Min: -1.0, Max: 1.0},
				{Weight: 0.4, Min: -1.8, Max: 1.8},
			},
			MaxAbsHeight:    2.0,
			TiltChance:      0.15,
			SpikeChance:     0.25,
			SpikesOnTilting: true,
		}
	}
}
