package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Tuning holds every gameplay parameter. Distances are world units, speeds
// and accelerations are per tick: the simulation advances in fixed
// increments and never looks at wall-clock time.
type Tuning struct {
	// Geometry
	BlockHeight   float64 `toml:"block_height"`
	MaxSize       float64 `toml:"max_size"`       // Base block extents and growth ceiling
	SpawnDistance float64 `toml:"spawn_distance"` // Oscillation half-range

	// Difficulty
	InitialSpeed     float64 `toml:"initial_speed"`
	MaxSpeed         float64 `toml:"max_speed"`
	InitialTolerance float64 `toml:"initial_tolerance"`
	FinalTolerance   float64 `toml:"final_tolerance"`
	DifficultyRamp   int     `toml:"difficulty_ramp"` // Score at which the hard values apply

	// Combo
	ComboThreshold  int     `toml:"combo_threshold"`
	GrowthStep      float64 `toml:"growth_step"`
	ScoreMultiplied bool    `toml:"score_multiplied"` // Award the multiplier instead of one point per block

	// Debris
	MinSliverSize     float64 `toml:"min_sliver_size"`
	Gravity           float64 `toml:"gravity"`
	DebrisFloor       float64 `toml:"debris_floor"`
	DebrisBaseSpeed   float64 `toml:"debris_base_speed"`
	DebrisDeltaFactor float64 `toml:"debris_delta_factor"`
	DebrisSpread      float64 `toml:"debris_spread"`
	DebrisSpin        float64 `toml:"debris_spin"`

	// Particles
	ParticleBurst int     `toml:"particle_burst"`
	ParticleDecay float64 `toml:"particle_decay"`
	ParticleSpeed float64 `toml:"particle_speed"`

	// Presentation
	CameraEase   float64 `toml:"camera_ease"`
	PaletteCycle int     `toml:"palette_cycle"`
	TickRate     int     `toml:"tick_rate"`
}

// DefaultTuning returns the parameters the game is balanced against.
func DefaultTuning() Tuning {
	return Tuning{
		BlockHeight:   1.0,
		MaxSize:       3.0,
		SpawnDistance: 4.5,

		InitialSpeed:     0.07,
		MaxSpeed:         0.16,
		InitialTolerance: 0.3,
		FinalTolerance:   0.08,
		DifficultyRamp:   40,

		ComboThreshold: 3,
		GrowthStep:     0.15,

		MinSliverSize:     0.05,
		Gravity:           0.012,
		DebrisFloor:       -40,
		DebrisBaseSpeed:   0.04,
		DebrisDeltaFactor: 0.02,
		DebrisSpread:      0.02,
		DebrisSpin:        0.08,

		ParticleBurst: 14,
		ParticleDecay: 0.025,
		ParticleSpeed: 0.06,

		CameraEase:   0.08,
		PaletteCycle: 24,
		TickRate:     60,
	}
}

// LoadTuning reads a TOML file and overlays it on the defaults. Keys absent
// from the file keep their default value. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	meta, err := toml.DecodeFile(path, &t)
	if err != nil {
		return Tuning{}, fmt.Errorf("decode tuning %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Tuning{}, fmt.Errorf("decode tuning %s: unknown key %q", path, undecoded[0].String())
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("validate tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate reports every parameter that would break the game rules.
func (t Tuning) Validate() error {
	var errs []error
	positive := []struct {
		name  string
		value float64
	}{
		{"block_height", t.BlockHeight},
		{"max_size", t.MaxSize},
		{"spawn_distance", t.SpawnDistance},
		{"initial_speed", t.InitialSpeed},
		{"max_speed", t.MaxSpeed},
		{"final_tolerance", t.FinalTolerance},
		{"particle_decay", t.ParticleDecay},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", p.name, p.value))
		}
	}
	if t.InitialTolerance < t.FinalTolerance {
		errs = append(errs, fmt.Errorf("initial_tolerance %v is below final_tolerance %v", t.InitialTolerance, t.FinalTolerance))
	}
	if t.MaxSpeed < t.InitialSpeed {
		errs = append(errs, fmt.Errorf("max_speed %v is below initial_speed %v", t.MaxSpeed, t.InitialSpeed))
	}
	if t.DifficultyRamp < 1 {
		errs = append(errs, fmt.Errorf("difficulty_ramp must be at least 1, got %d", t.DifficultyRamp))
	}
	if t.ComboThreshold < 1 {
		errs = append(errs, fmt.Errorf("combo_threshold must be at least 1, got %d", t.ComboThreshold))
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"growth_step", t.GrowthStep},
		{"min_sliver_size", t.MinSliverSize},
		{"gravity", t.Gravity},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", p.name, p.value))
		}
	}
	if t.PaletteCycle < 1 {
		errs = append(errs, fmt.Errorf("palette_cycle must be at least 1, got %d", t.PaletteCycle))
	}
	if t.TickRate < 1 {
		errs = append(errs, fmt.Errorf("tick_rate must be at least 1, got %d", t.TickRate))
	}
	return errors.Join(errs...)
}
