package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/systems"
)

// Rocks are unit cubes scaled per instance and sunk slightly into the
// terrain so slopes don't leave them floating.
var (
	rockLocalMin = mgl32.Vec3{-0.5, -0.5, -0.5}
	rockLocalMax = mgl32.Vec3{0.5, 0.5, 0.5}
)

// scatterObstacles places rocks at random positions across the playable
// area, snapped to the terrain surface.
func (g *Game) scatterObstacles() {
	cfg := g.config()
	halfX := float32(cfg.World.HalfX)
	halfZ := float32(cfg.World.HalfZ)

	g.obstacles = make([]systems.Obstacle, 0, cfg.World.ObstacleCount)
	for i := 0; i < cfg.World.ObstacleCount; i++ {
		x := (g.rng.Float32()*2 - 1) * halfX
		z := (g.rng.Float32()*2 - 1) * halfZ
		y := g.terrain.HeightAt(x, z)

		scale := mgl32.Vec3{
			0.4 + g.rng.Float32()*0.8,
			0.4 + g.rng.Float32()*0.8,
			0.4 + g.rng.Float32()*0.8,
		}
		pos := mgl32.Vec3{x, y + scale[1]*0.25, z}

		g.obstacles = append(g.obstacles, systems.NewObstacle(pos, scale, rockLocalMin, rockLocalMax))
	}
}

// scatterCreatures spawns the initial wild population with species assigned
// round-robin so every configured species appears.
func (g *Game) scatterCreatures() {
	cfg := g.config()
	halfX := float32(cfg.World.HalfX)
	halfZ := float32(cfg.World.HalfZ)

	for i := 0; i < cfg.World.CreatureCount; i++ {
		x := (g.rng.Float32()*2 - 1) * halfX
		z := (g.rng.Float32()*2 - 1) * halfZ
		speciesID := uint8(i % len(g.species))
		g.spawnCreature(x, z, speciesID)
	}
}

// spawnCreature creates a wild creature on the terrain surface. A zero
// wander timer makes it pick a heading on its first update.
func (g *Game) spawnCreature(x, z float32, speciesID uint8) ecs.Entity {
	sp := g.species[speciesID]

	id := g.nextID
	g.nextID++

	pos := components.Position{X: x, Y: g.terrain.HeightAt(x, z), Z: z}
	vel := components.Velocity{}
	head := components.Heading{}
	body := components.Body{Radius: sp.Radius}
	cr := components.Creature{
		ID:        id,
		SpeciesID: speciesID,
		State:     components.StateIdle,
		Visible:   true,
	}

	return g.creatureMapper.NewEntity(&pos, &vel, &head, &body, &cr)
}

// Throw launches a capture capsule from origin along dir. Charge in [0, 1]
// interpolates between the minimum and maximum throw speed. The capsule
// spawns offset along the throw direction so it clears the thrower.
func (g *Game) Throw(origin, dir mgl32.Vec3, charge float32) ecs.Entity {
	cfg := g.config()

	if charge < 0 {
		charge = 0
	} else if charge > 1 {
		charge = 1
	}
	if d := dir.Len(); d > 1e-6 {
		dir = dir.Mul(1 / d)
	} else {
		dir = mgl32.Vec3{0, 0, 1}
	}

	speed := float32(cfg.Capsule.MinThrowSpeed) +
		charge*float32(cfg.Capsule.MaxThrowSpeed-cfg.Capsule.MinThrowSpeed)

	spawn := origin.Add(dir.Mul(float32(cfg.Capsule.SpawnDistance)))
	velocity := dir.Mul(speed).Add(mgl32.Vec3{0, float32(cfg.Capsule.UpwardBoost), 0})

	pos := components.Position{X: spawn[0], Y: spawn[1], Z: spawn[2]}
	vel := components.Velocity{X: velocity[0], Y: velocity[1], Z: velocity[2]}
	body := components.Body{Radius: float32(cfg.Capsule.Radius)}
	capsule := components.Capsule{
		Phase:    components.CapsuleFlying,
		Life:     float32(cfg.Capsule.Lifetime),
		TargetID: components.NoTarget,
	}

	entity := g.capsuleMapper.NewEntity(&pos, &vel, &body, &capsule)
	if g.collector != nil {
		g.collector.RecordThrow()
	}
	return entity
}
