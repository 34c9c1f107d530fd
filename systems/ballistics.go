package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/telemetry"
)

// upAxis is the fallback contact normal for degenerate geometry.
var upAxis = mgl32.Vec3{0, 1, 0}

// BallisticsParams holds the tuning constants for projectile flight and the
// capture shake sequence.
type BallisticsParams struct {
	Gravity       float32
	Restitution   float32
	Friction      float32 // tangential multiplier on bounce
	ShakeDuration float32
	MaxShakes     uint8
	LockLinger    float32
	CaptureRange  float32
	ShakeOffset   float32
}

// BallisticsSystem owns capsule motion. Flying capsules integrate under
// gravity and bounce off obstacles and the terrain; locked capsules run the
// shake animation and resolve the pending capture outcome when the final
// shake completes. Capsules whose lifetime or post-lock linger elapses are
// removed from the live set.
type BallisticsSystem struct {
	capsuleFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Capsule,
	]
	capsuleMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Capsule,
	]
	creatureFilter *ecs.Filter2[
		components.Position,
		components.Creature,
	]

	terrain   *HeightField
	obstacles []Obstacle
	params    BallisticsParams
	collector *telemetry.Collector
}

// NewBallisticsSystem creates the projectile physics engine. The obstacle
// slice is read-only and shared with the wander system.
func NewBallisticsSystem(
	w *ecs.World,
	terrain *HeightField,
	obstacles []Obstacle,
	params BallisticsParams,
	collector *telemetry.Collector,
) *BallisticsSystem {
	return &BallisticsSystem{
		capsuleFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Capsule,
		](w),
		capsuleMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Capsule,
		](w),
		creatureFilter: ecs.NewFilter2[
			components.Position,
			components.Creature,
		](w),
		terrain:   terrain,
		obstacles: obstacles,
		params:    params,
		collector: collector,
	}
}

// resolution is a completed shake sequence awaiting creature-side hand-off.
type resolution struct {
	base    mgl32.Vec3
	success bool
}

// Step advances every capsule by one fixed increment of dt seconds.
func (s *BallisticsSystem) Step(dt float32) {
	var expired []ecs.Entity
	var resolutions []resolution

	query := s.capsuleFilter.Query()
	for query.Next() {
		pos, vel, body, c := query.Get()

		if c.Locked() {
			if done := s.stepLocked(dt, pos, c); done {
				resolutions = append(resolutions, resolution{
					base:    mgl32.Vec3{c.BaseX, c.BaseY, c.BaseZ},
					success: c.WillCapture,
				})
			}
			if c.LockTimer > s.params.LockLinger {
				expired = append(expired, query.Entity())
			}
			continue
		}

		s.stepFlying(dt, pos, vel, body, c)
		if c.Life <= 0 {
			expired = append(expired, query.Entity())
			if s.collector != nil {
				s.collector.RecordExpiry()
				s.collector.RecordFlightTime(float64(c.Age))
			}
		}
	}

	// Structural changes and the creature-side hand-off happen only after
	// the capsule query has been fully consumed.
	for _, r := range resolutions {
		s.resolve(r)
	}
	for _, e := range expired {
		s.capsuleMapper.Remove(e)
	}
}

// stepLocked advances the shake animation. Position is governed solely by
// the oscillation around the captured base position; gravity never applies
// again once a capsule locks. Returns true on the increment the final shake
// completes.
func (s *BallisticsSystem) stepLocked(dt float32, pos *components.Position, c *components.Capsule) bool {
	c.LockTimer += dt

	if c.ShakeCount >= s.params.MaxShakes {
		// Resolved; hold at base until cleanup
		pos.X, pos.Y, pos.Z = c.BaseX, c.BaseY, c.BaseZ
		return false
	}

	c.ShakePhase += dt / s.params.ShakeDuration
	if c.ShakePhase >= 1 {
		c.ShakePhase = 0
		c.ShakeCount++
		if c.ShakeCount >= s.params.MaxShakes {
			pos.X, pos.Y, pos.Z = c.BaseX, c.BaseY, c.BaseZ
			return true
		}
	}

	// Cosmetic lateral wobble
	offset := s.params.ShakeOffset * float32(math.Sin(float64(c.ShakePhase)*2*math.Pi))
	pos.X = c.BaseX + offset
	pos.Y = c.BaseY
	pos.Z = c.BaseZ
	return false
}

// stepFlying integrates one physics increment: gravity, then collision
// response against obstacles and the terrain surface.
func (s *BallisticsSystem) stepFlying(
	dt float32,
	pos *components.Position,
	vel *components.Velocity,
	body *components.Body,
	c *components.Capsule,
) {
	// Semi-implicit Euler
	vel.Y -= s.params.Gravity * dt
	pos.X += vel.X * dt
	pos.Y += vel.Y * dt
	pos.Z += vel.Z * dt

	p := pos.Vec()
	radius := body.Radius

	for i := range s.obstacles {
		ob := &s.obstacles[i]
		closest := ob.ClosestPoint(p)
		delta := p.Sub(closest)
		distSq := delta.Dot(delta)
		if distSq >= radius*radius {
			continue
		}

		dist := float32(math.Sqrt(float64(distSq)))
		normal := upAxis
		if dist > 1e-4 {
			normal = delta.Mul(1 / dist)
		}

		p = p.Add(normal.Mul(radius - dist))
		s.bounce(vel, normal)
	}

	// Terrain contact: signed distance from the surface plane to the center
	height := s.terrain.HeightAt(p[0], p[2])
	normal := s.terrain.NormalAt(p[0], p[2])
	toCenter := p.Sub(mgl32.Vec3{p[0], height, p[2]})
	dist := toCenter.Dot(normal)
	if dist < radius {
		p = p.Add(normal.Mul(radius - dist))
		s.bounce(vel, normal)
	}

	pos.SetVec(p)
	c.Life -= dt
	c.Age += dt
}

// bounce reflects velocity about the contact normal, scaled by restitution,
// then applies friction to the tangential component only. Capsules moving
// away from the surface are left alone.
func (s *BallisticsSystem) bounce(vel *components.Velocity, normal mgl32.Vec3) {
	v := vel.Vec()
	vn := v.Dot(normal)
	if vn >= 0 {
		return
	}

	reflected := v.Sub(normal.Mul(2 * vn)).Mul(s.params.Restitution)

	normalPart := normal.Mul(reflected.Dot(normal))
	tangentPart := reflected.Sub(normalPart).Mul(s.params.Friction)
	vel.SetVec(normalPart.Add(tangentPart))

	if s.collector != nil {
		s.collector.RecordBounce()
	}
}

// resolve finishes a shake sequence: the creature that was being captured is
// located by proximity to the capsule's base position and moved to its
// terminal state.
func (s *BallisticsSystem) resolve(r resolution) {
	rangeSq := s.params.CaptureRange * s.params.CaptureRange
	handled := false

	query := s.creatureFilter.Query()
	for query.Next() {
		pos, cr := query.Get()
		if handled || cr.State != components.StateCapturing {
			continue
		}
		d := pos.Vec().Sub(r.base)
		if d.Dot(d) >= rangeSq {
			continue
		}

		if r.success {
			cr.State = components.StateCaptured
			cr.Visible = false
			if s.collector != nil {
				s.collector.RecordCapture()
			}
		} else {
			// Stays invisible for this one frame; the next wander update
			// restores visibility and a fresh heading.
			cr.State = components.StateCaptureFailed
			if s.collector != nil {
				s.collector.RecordEscape()
			}
		}
		handled = true
	}
}
