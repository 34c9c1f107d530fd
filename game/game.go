package game

import (
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/config"
	"github.com/pthm-cable/wilds/systems"
	"github.com/pthm-cable/wilds/telemetry"
)

// Options configures game construction.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	species   []components.Species
	terrain   *systems.HeightField
	obstacles []systems.Obstacle

	// Entity mappers
	creatureMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Creature,
	]
	capsuleMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Capsule,
	]
	creatureFilter *ecs.Filter4[
		components.Position,
		components.Heading,
		components.Body,
		components.Creature,
	]
	capsuleFilter *ecs.Filter2[
		components.Position,
		components.Capsule,
	]

	// Systems
	wander     *systems.WanderSystem
	ballistics *systems.BallisticsSystem
	capture    *systems.CaptureSystem
	inventory  *systems.Inventory

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	// State
	accumulator    float32
	tick           int32
	paused         bool
	speed          int // simulation speed multiplier (1-10)
	nextID         int32
	stepsPerUpdate int
	rngSeed        int64

	// Input state (graphics mode)
	charging     bool
	chargeTime   float32
	selectedSlot int
	camera       rl.Camera3D
}

// NewGameWithOptions creates a game instance with the given options.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		species:        components.SpeciesTable(cfg),
		speed:          1,
		stepsPerUpdate: stepsPerUpdate,
		logStats:       opts.LogStats,
		rngSeed:        opts.Seed,
		creatureMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Creature,
		](world),
		capsuleMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Capsule,
		](world),
		creatureFilter: ecs.NewFilter4[
			components.Position,
			components.Heading,
			components.Body,
			components.Creature,
		](world),
		capsuleFilter: ecs.NewFilter2[
			components.Position,
			components.Capsule,
		](world),
	}

	// Terrain
	if cfg.World.Flat {
		g.terrain = systems.NewFlat()
	} else {
		terrain, err := systems.FromNoise(
			opts.Seed,
			cfg.World.GridCols,
			cfg.World.GridRows,
			float32(cfg.World.CellSize),
			cfg.World.NoiseScale,
			cfg.World.HeightScale,
		)
		if err != nil {
			slog.Error("terrain generation failed, using flat plane", "error", err)
			terrain = systems.NewFlat()
		}
		g.terrain = terrain
	}

	// Scene
	g.scatterObstacles()

	// Systems
	g.inventory = systems.NewInventory(world, g.species, cfg.Inventory.Capacity)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.FrameDT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	g.wander = systems.NewWanderSystem(
		world,
		g.species,
		g.terrain,
		g.obstacles,
		g.rng,
		float32(cfg.Creature.ObstacleMargin),
		float32(cfg.Creature.WanderMin),
		float32(cfg.Creature.WanderMax),
	)
	g.ballistics = systems.NewBallisticsSystem(
		world,
		g.terrain,
		g.obstacles,
		systems.BallisticsParams{
			Gravity:       cfg.Derived.Gravity32,
			Restitution:   cfg.Derived.Restitution32,
			Friction:      cfg.Derived.Friction32,
			ShakeDuration: float32(cfg.Capsule.ShakeDuration),
			MaxShakes:     uint8(cfg.Capsule.MaxShakes),
			LockLinger:    float32(cfg.Capsule.LockLinger),
			CaptureRange:  float32(cfg.Capsule.CaptureRange),
			ShakeOffset:   float32(cfg.Capsule.ShakeOffset),
		},
		g.collector,
	)
	g.capture = systems.NewCaptureSystem(world, g.species, g.inventory, g.rng, g.collector)

	// CSV output
	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err, "dir", opts.OutputDir)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	g.scatterCreatures()

	if !opts.Headless {
		g.setupCamera()
	}

	slog.Info("world ready",
		"seed", opts.Seed,
		"creatures", cfg.World.CreatureCount,
		"obstacles", len(g.obstacles),
		"species", len(g.species),
	)

	return g
}

// config returns the global configuration.
func (g *Game) config() *config.Config {
	return config.Cfg()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Inventory exposes the capture inventory for input handling and HUD.
func (g *Game) Inventory() *systems.Inventory {
	return g.inventory
}

// Unload releases resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		g.outputManager.Close()
	}
}
