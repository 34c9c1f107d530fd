package game

import (
	"log/slog"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/telemetry"
)

// maxAccumulated caps the physics debt drained in a single frame so a long
// stall cannot trigger a catch-up spiral.
const maxAccumulated = 0.25

// Update runs one or more simulation steps based on speed setting.
// Graphics mode only; input is polled before stepping.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()

	if g.paused {
		return
	}

	dt := g.config().Derived.FrameDT32
	for i := 0; i < g.speed; i++ {
		g.simulationStep(dt)
	}
}

// UpdateHeadless runs simulation steps without touching any graphics state.
func (g *Game) UpdateHeadless() {
	dt := g.config().Derived.FrameDT32
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(dt)
	}
}

// simulationStep runs a single frame of the simulation. Creature movement
// advances once per frame; capsule physics drains a fixed-step accumulator
// so projectile flight is independent of the frame rate.
func (g *Game) simulationStep(dt float32) {
	g.perfCollector.StartTick()

	// 1. Creature wandering and capture-state timers
	g.perfCollector.StartPhase(telemetry.PhaseWander)
	g.wander.Update(dt)

	// 2. Fixed-step projectile physics
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	physDT := g.config().Derived.DT32
	g.accumulator += dt
	if g.accumulator > maxAccumulated {
		g.accumulator = maxAccumulated
	}
	for g.accumulator >= physDT {
		g.ballistics.Step(physDT)
		g.accumulator -= physDT
	}

	// 3. Capsule-creature hit tests (once per frame)
	g.perfCollector.StartPhase(telemetry.PhaseCapture)
	g.capture.Update()

	// 4. Move finished captures into the inventory
	g.perfCollector.StartPhase(telemetry.PhasePromote)
	g.inventory.Promote()

	// 5. Stats window flush
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	g.tick++
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	wild, capturing := g.countCreatures()
	sentOut := 0
	if g.inventory.HasActive() {
		sentOut = 1
	}

	stats := g.collector.Flush(g.tick, wild, capturing, g.inventory.Len(), sentOut)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf",
			"avg_tick", perfStats.AvgTickDuration,
			"max_tick", perfStats.MaxTickDuration,
			"ticks_per_sec", perfStats.TicksPerSecond,
			"fps", perfStats.FPS,
		)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(telemetry.NewPerfRecord(g.tick, perfStats)); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// countCreatures tallies roster creatures by capture progress. Sent-out
// companions are excluded from the wild count.
func (g *Game) countCreatures() (wild, capturing int) {
	query := g.creatureFilter.Query()
	for query.Next() {
		_, _, _, cr := query.Get()
		switch cr.State {
		case components.StateCapturing:
			capturing++
		case components.StateCaptured:
			// Mid-promotion; counted by the inventory next flush
		default:
			if !g.inventory.IsOwned(cr.ID) {
				wild++
			}
		}
	}
	return wild, capturing
}
