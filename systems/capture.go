package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/telemetry"
)

// CaptureOutcome decides a capture attempt from a single random sample in
// [0,1): success iff the sample does not exceed the species catch rate.
// Replaying the same sample always reproduces the same outcome.
func CaptureOutcome(sample, catchRate float32) bool {
	return sample <= catchRate
}

// CaptureSystem runs the collision-driven capture initiation pass: once per
// frame, every flying capsule is tested against every catchable creature.
// On the first overlap the capsule locks on, the creature enters Capturing,
// and the outcome is sampled immediately; the shake animation that follows
// is pure presentation.
type CaptureSystem struct {
	capsuleFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Capsule,
	]
	creatureFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Creature,
	]

	capsulePosMap  *ecs.Map1[components.Position]
	capsuleVelMap  *ecs.Map1[components.Velocity]
	capsuleBodyMap *ecs.Map1[components.Body]
	capsuleMap     *ecs.Map1[components.Capsule]

	species   []components.Species
	inventory *Inventory
	rng       *rand.Rand
	collector *telemetry.Collector
}

// NewCaptureSystem creates the capture initiation system.
func NewCaptureSystem(
	w *ecs.World,
	species []components.Species,
	inventory *Inventory,
	rng *rand.Rand,
	collector *telemetry.Collector,
) *CaptureSystem {
	return &CaptureSystem{
		capsuleFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Capsule,
		](w),
		creatureFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Creature,
		](w),
		capsulePosMap:  ecs.NewMap1[components.Position](w),
		capsuleVelMap:  ecs.NewMap1[components.Velocity](w),
		capsuleBodyMap: ecs.NewMap1[components.Body](w),
		capsuleMap:     ecs.NewMap1[components.Capsule](w),
		species:        species,
		inventory:      inventory,
		rng:            rng,
		collector:      collector,
	}
}

// Update runs the hit test for the current frame.
func (s *CaptureSystem) Update() {
	// Collect flying capsules first; the creature query below mutates them
	// through mappers.
	var flying []ecs.Entity
	cq := s.capsuleFilter.Query()
	for cq.Next() {
		_, _, _, c := cq.Get()
		if c.Flying() {
			flying = append(flying, cq.Entity())
		}
	}
	if len(flying) == 0 {
		return
	}

	query := s.creatureFilter.Query()
	for query.Next() {
		pos, vel, body, cr := query.Get()

		// Only wandering creatures can be hit: a creature mid-capture or
		// already resolved is never the target of a second capsule.
		if !cr.State.Wandering() {
			continue
		}
		// A player's own companion is off limits
		if s.inventory.IsOwned(cr.ID) {
			continue
		}

		for _, e := range flying {
			c := s.capsuleMap.Get(e)
			if !c.Flying() {
				continue // locked earlier this same pass
			}
			if c.TargetID == cr.ID {
				continue // this capsule already attempted this creature
			}

			bp := s.capsulePosMap.Get(e)
			bb := s.capsuleBodyMap.Get(e)
			if !spheresOverlap(bp.X, bp.Y, bp.Z, bb.Radius, pos.X, pos.Y, pos.Z, body.Radius) {
				continue
			}

			s.lockOn(e, c, bp, pos, body, cr)
			vel.X, vel.Y, vel.Z = 0, 0, 0
			break
		}
	}
}

// lockOn transitions the capsule and creature into the capture sequence and
// decides the outcome.
func (s *CaptureSystem) lockOn(
	e ecs.Entity,
	c *components.Capsule,
	bp *components.Position,
	pos *components.Position,
	body *components.Body,
	cr *components.Creature,
) {
	cr.State = components.StateCapturing
	cr.CaptureTimer = 0
	cr.Visible = false

	if s.collector != nil {
		s.collector.RecordHit()
		s.collector.RecordFlightTime(float64(c.Age))
	}

	c.Phase = components.CapsuleLocked
	c.LockTimer = 0
	c.ShakePhase = 0
	c.ShakeCount = 0
	c.TargetID = cr.ID

	bv := s.capsuleVelMap.Get(e)
	bv.X, bv.Y, bv.Z = 0, 0, 0

	// Snap onto the creature
	bp.X = pos.X
	bp.Y = pos.Y + body.Radius
	bp.Z = pos.Z
	c.BaseX, c.BaseY, c.BaseZ = bp.X, bp.Y, bp.Z

	// Outcome is decided now; the shakes only delay the reveal
	c.WillCapture = CaptureOutcome(s.rng.Float32(), s.species[cr.SpeciesID].CatchRate)
}

// spheresOverlap tests two spheres using squared distance, no square root.
func spheresOverlap(x1, y1, z1, r1, x2, y2, z2, r2 float32) bool {
	dx := x1 - x2
	dy := y1 - y2
	dz := z1 - z2
	rsum := r1 + r2
	return dx*dx+dy*dy+dz*dz <= rsum*rsum
}
