// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Capsule   CapsuleConfig   `yaml:"capsule"`
	Creature  CreatureConfig  `yaml:"creature"`
	Inventory InventoryConfig `yaml:"inventory"`
	Species   []SpeciesConfig `yaml:"species"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the windowed debug view.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds terrain and scene-population parameters.
// The height field grid is centered on the origin; HalfX/HalfZ bound the
// playable area that creatures and obstacles are scattered across.
type WorldConfig struct {
	GridCols      int     `yaml:"grid_cols"`
	GridRows      int     `yaml:"grid_rows"`
	CellSize      float64 `yaml:"cell_size"`
	HeightScale   float64 `yaml:"height_scale"`
	NoiseScale    float64 `yaml:"noise_scale"`
	HalfX         float64 `yaml:"half_x"`
	HalfZ         float64 `yaml:"half_z"`
	ObstacleCount int     `yaml:"obstacle_count"`
	CreatureCount int     `yaml:"creature_count"`
	Flat          bool    `yaml:"flat"` // skip noise generation, flat plane at y=0
}

// PhysicsConfig holds projectile physics parameters.
type PhysicsConfig struct {
	DT          float64 `yaml:"dt"`       // fixed physics step
	FrameDT     float64 `yaml:"frame_dt"` // headless frame step
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"` // tangential multiplier on bounce
}

// CapsuleConfig holds capture-device parameters.
type CapsuleConfig struct {
	Radius        float64 `yaml:"radius"`
	Lifetime      float64 `yaml:"lifetime"`
	SpawnDistance float64 `yaml:"spawn_distance"`
	UpwardBoost   float64 `yaml:"upward_boost"`
	MinThrowSpeed float64 `yaml:"min_throw_speed"`
	MaxThrowSpeed float64 `yaml:"max_throw_speed"`
	MaxChargeTime float64 `yaml:"max_charge_time"`
	ShakeDuration float64 `yaml:"shake_duration"`
	MaxShakes     int     `yaml:"max_shakes"`
	LockLinger    float64 `yaml:"lock_linger"`   // seconds a locked capsule lingers before removal
	CaptureRange  float64 `yaml:"capture_range"` // base-position proximity when resolving
	ShakeOffset   float64 `yaml:"shake_offset"`  // lateral oscillation amplitude
}

// CreatureConfig holds wandering-creature parameters.
type CreatureConfig struct {
	ObstacleMargin float64 `yaml:"obstacle_margin"`
	WanderMin      float64 `yaml:"wander_min"` // min seconds between heading re-picks
	WanderMax      float64 `yaml:"wander_max"`
}

// InventoryConfig holds inventory parameters.
type InventoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// SpeciesConfig defines one creature species. The catch rate is the
// probability a single capture attempt succeeds.
type SpeciesConfig struct {
	Name         string  `yaml:"name"`
	DisplayScale float64 `yaml:"display_scale"`
	CatchRate    float64 `yaml:"catch_rate"`
	MoveSpeed    float64 `yaml:"move_speed"`
	Radius       float64 `yaml:"radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds values derived from loaded config.
type DerivedConfig struct {
	DT32          float32 // Physics.DT as float32
	FrameDT32     float32 // Physics.FrameDT as float32
	Gravity32     float32
	Restitution32 float32
	Friction32    float32
	SpeciesIndex  map[string]uint8 // name -> index for species lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.FrameDT32 = float32(c.Physics.FrameDT)
	c.Derived.Gravity32 = float32(c.Physics.Gravity)
	c.Derived.Restitution32 = float32(c.Physics.Restitution)
	c.Derived.Friction32 = float32(c.Physics.Friction)

	// Synthesize a default species if none specified
	if len(c.Species) == 0 {
		c.Species = []SpeciesConfig{
			{
				Name:         "drifter",
				DisplayScale: 1.0,
				CatchRate:    0.5,
				MoveSpeed:    2.0,
				Radius:       0.5,
			},
		}
	}

	c.Derived.SpeciesIndex = make(map[string]uint8, len(c.Species))
	for i := range c.Species {
		sp := &c.Species[i]
		if sp.DisplayScale == 0 {
			sp.DisplayScale = 1.0
		}
		if sp.MoveSpeed == 0 {
			sp.MoveSpeed = 2.0
		}
		if sp.Radius == 0 {
			sp.Radius = 0.5
		}
		c.Derived.SpeciesIndex[sp.Name] = uint8(i)
	}
}

// WriteYAML writes the current configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
