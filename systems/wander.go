package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
)

// WanderSystem drives creature movement and the creature side of the capture
// state machine. Creatures ride the terrain surface and steer away from
// obstacles while wandering; Capturing freezes them in place, Captured parks
// them until promotion, and CaptureFailed passes through back to Walking on
// the next update.
type WanderSystem struct {
	filter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Creature,
	]

	species   []components.Species
	terrain   *HeightField
	obstacles []Obstacle
	rng       *rand.Rand

	obstacleMargin float32
	wanderMin      float32
	wanderMax      float32
}

// NewWanderSystem creates the wander system. The obstacle slice is read-only
// and shared with the physics engine.
func NewWanderSystem(
	w *ecs.World,
	species []components.Species,
	terrain *HeightField,
	obstacles []Obstacle,
	rng *rand.Rand,
	obstacleMargin, wanderMin, wanderMax float32,
) *WanderSystem {
	return &WanderSystem{
		filter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Creature,
		](w),
		species:        species,
		terrain:        terrain,
		obstacles:      obstacles,
		rng:            rng,
		obstacleMargin: obstacleMargin,
		wanderMin:      wanderMin,
		wanderMax:      wanderMax,
	}
}

// Update advances every creature by dt seconds.
func (s *WanderSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, head, body, cr := query.Get()

		switch cr.State {
		case components.StateCaptured:
			// Parked until promotion (or until recalled, for a sent-out copy)
			continue

		case components.StateCaptureFailed:
			// One-frame pass-through: break free and resume wandering
			s.pickHeading(vel, cr)
			cr.Visible = true
			continue

		case components.StateCapturing:
			cr.CaptureTimer += dt
			continue
		}

		oldX, oldZ := pos.X, pos.Z
		nextX := pos.X + vel.X*dt
		nextZ := pos.Z + vel.Z*dt

		// Reject the move when the candidate position crowds an obstacle;
		// pick a fresh heading instead of stepping into it.
		blocked := false
		limit := body.Radius + s.obstacleMargin
		for i := range s.obstacles {
			ob := &s.obstacles[i]
			if distanceSqXZ(nextX, nextZ, ob.Pos[0], ob.Pos[2]) < limit*limit {
				blocked = true
				break
			}
		}

		if blocked {
			s.pickHeading(vel, cr)
		} else {
			pos.X = nextX
			pos.Z = nextZ
		}

		// Always ride the surface
		pos.Y = s.terrain.HeightAt(pos.X, pos.Z)

		cr.WanderTimer -= dt
		if cr.WanderTimer <= 0 {
			s.pickHeading(vel, cr)
		}

		dx := pos.X - oldX
		dz := pos.Z - oldZ
		if dx*dx+dz*dz > 1e-6 {
			head.Yaw = float32(math.Atan2(float64(dx), float64(dz)))
		}
	}
}

// pickHeading assigns a new random wander heading and re-arms the
// direction-change timer. Entering a heading always means Walking.
func (s *WanderSystem) pickHeading(vel *components.Velocity, cr *components.Creature) {
	speed := s.species[cr.SpeciesID].MoveSpeed
	angle := s.rng.Float32() * 2 * math.Pi

	vel.X = float32(math.Cos(float64(angle))) * speed
	vel.Y = 0
	vel.Z = float32(math.Sin(float64(angle))) * speed

	cr.WanderTimer = s.wanderMin + s.rng.Float32()*(s.wanderMax-s.wanderMin)
	cr.State = components.StateWalking
}
