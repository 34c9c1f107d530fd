package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
)

var testParams = BallisticsParams{
	Gravity:       9.8,
	Restitution:   0.6,
	Friction:      0.95,
	ShakeDuration: 0.1,
	MaxShakes:     3,
	LockLinger:    2.8,
	CaptureRange:  1.0,
	ShakeOffset:   0.12,
}

func newBallisticsWorld(t *testing.T, obstacles []Obstacle) (*ecs.World, *BallisticsSystem) {
	t.Helper()
	w := ecs.NewWorld()
	sys := NewBallisticsSystem(w, NewFlat(), obstacles, testParams, nil)
	return w, sys
}

func spawnCapsule(w *ecs.World, pos components.Position, vel components.Velocity, c components.Capsule) ecs.Entity {
	mapper := ecs.NewMap4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Capsule,
	](w)
	body := components.Body{Radius: 0.2}
	return mapper.NewEntity(&pos, &vel, &body, &c)
}

func countCapsules(w *ecs.World) int {
	filter := ecs.NewFilter1[components.Capsule](w)
	n := 0
	query := filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// ---------- flight ----------

func TestStep_GravityPullsCapsulesDown(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	e := spawnCapsule(w,
		components.Position{Y: 5},
		components.Velocity{X: 2},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	dt := float32(1.0 / 120.0)
	sys.Step(dt)

	velMap := ecs.NewMap1[components.Velocity](w)
	posMap := ecs.NewMap1[components.Position](w)
	vel := velMap.Get(e)
	pos := posMap.Get(e)

	wantVelY := -testParams.Gravity * dt
	if math.Abs(float64(vel.Y-wantVelY)) > 1e-5 {
		t.Errorf("vel.Y = %v, want %v", vel.Y, wantVelY)
	}
	if pos.X <= 0 {
		t.Errorf("pos.X = %v, want forward motion", pos.X)
	}
	if pos.Y >= 5 {
		t.Errorf("pos.Y = %v, want descent from 5", pos.Y)
	}
}

func TestStep_AgeAndLifeTrackFlightTime(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	e := spawnCapsule(w,
		components.Position{Y: 5},
		components.Velocity{},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	dt := float32(1.0 / 120.0)
	for i := 0; i < 12; i++ {
		sys.Step(dt)
	}

	capMap := ecs.NewMap1[components.Capsule](w)
	c := capMap.Get(e)
	if math.Abs(float64(c.Age-12*dt)) > 1e-4 {
		t.Errorf("Age = %v, want %v", c.Age, 12*dt)
	}
	if math.Abs(float64(c.Life-(15-12*dt))) > 1e-4 {
		t.Errorf("Life = %v, want %v", c.Life, 15-12*dt)
	}
}

// ---------- collision response ----------

func TestStep_TerrainBounceReflectsAndDamps(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	e := spawnCapsule(w,
		components.Position{Y: 0.1}, // below contact height for radius 0.2
		components.Velocity{X: 3, Y: -4},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	sys.Step(1.0 / 120.0)

	velMap := ecs.NewMap1[components.Velocity](w)
	posMap := ecs.NewMap1[components.Position](w)
	vel := velMap.Get(e)
	pos := posMap.Get(e)

	if pos.Y < 0.2-1e-4 {
		t.Errorf("pos.Y = %v, want pushed out to at least radius 0.2", pos.Y)
	}
	if vel.Y <= 0 {
		t.Errorf("vel.Y = %v, want upward after bounce", vel.Y)
	}

	// Vertical impulse scaled by restitution; the incoming Y speed includes
	// the gravity increment applied before the contact check.
	impactVy := float32(-4) - testParams.Gravity/120
	wantVy := -impactVy * testParams.Restitution
	if math.Abs(float64(vel.Y-wantVy)) > 1e-3 {
		t.Errorf("vel.Y = %v, want %v", vel.Y, wantVy)
	}

	// Tangential speed damped by restitution then friction
	wantVx := 3 * testParams.Restitution * testParams.Friction
	if math.Abs(float64(vel.X-wantVx)) > 1e-3 {
		t.Errorf("vel.X = %v, want %v", vel.X, wantVx)
	}
}

func TestStep_SeparatingContactDoesNotBounce(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	e := spawnCapsule(w,
		components.Position{Y: 0.1},
		components.Velocity{Y: 5}, // moving away from the surface
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	dt := float32(1.0 / 120.0)
	sys.Step(dt)

	velMap := ecs.NewMap1[components.Velocity](w)
	vel := velMap.Get(e)

	// Still rising at the pre-step speed minus one gravity increment; a
	// bounce would have scaled it by restitution.
	want := 5 - testParams.Gravity*dt
	if math.Abs(float64(vel.Y-want)) > 1e-4 {
		t.Errorf("vel.Y = %v, want %v (no bounce on separating contact)", vel.Y, want)
	}
}

func TestStep_ObstaclePushesCapsuleOut(t *testing.T) {
	ob := NewObstacle(
		mgl32.Vec3{0, 5, 0},
		mgl32.Vec3{1, 1, 1},
		mgl32.Vec3{-0.5, -0.5, -0.5},
		mgl32.Vec3{0.5, 0.5, 0.5},
	)
	w, sys := newBallisticsWorld(t, []Obstacle{ob})

	// Overlapping the -x face, moving into it
	e := spawnCapsule(w,
		components.Position{X: -0.55, Y: 5},
		components.Velocity{X: 2},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	sys.Step(1.0 / 120.0)

	velMap := ecs.NewMap1[components.Velocity](w)
	posMap := ecs.NewMap1[components.Position](w)
	vel := velMap.Get(e)
	pos := posMap.Get(e)

	if pos.X > -0.7+1e-4 {
		t.Errorf("pos.X = %v, want pushed out past face - radius", pos.X)
	}
	if vel.X >= 0 {
		t.Errorf("vel.X = %v, want reflected away from obstacle", vel.X)
	}
}

// ---------- lifetime ----------

func TestStep_ExpiredCapsulesAreRemoved(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	spawnCapsule(w,
		components.Position{Y: 5},
		components.Velocity{},
		components.Capsule{Phase: components.CapsuleFlying, Life: 0.01, TargetID: components.NoTarget},
	)

	for i := 0; i < 4; i++ {
		sys.Step(1.0 / 120.0)
	}

	if n := countCapsules(w); n != 0 {
		t.Errorf("capsule count = %d, want 0 after expiry", n)
	}
}

// ---------- locked state ----------

func TestStep_LockFreezesFlightPhysics(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	e := spawnCapsule(w,
		components.Position{X: 1, Y: 0.7, Z: 2},
		components.Velocity{},
		components.Capsule{
			Phase: components.CapsuleLocked,
			BaseX: 1, BaseY: 0.7, BaseZ: 2,
			TargetID: 7,
		},
	)

	dt := float32(1.0 / 120.0)
	for i := 0; i < 60; i++ {
		sys.Step(dt)
	}

	velMap := ecs.NewMap1[components.Velocity](w)
	posMap := ecs.NewMap1[components.Position](w)
	capMap := ecs.NewMap1[components.Capsule](w)
	vel := velMap.Get(e)
	pos := posMap.Get(e)
	c := capMap.Get(e)

	if vel.Y != 0 {
		t.Errorf("vel.Y = %v, want gravity suspended while locked", vel.Y)
	}
	if pos.Y != 0.7 || pos.Z != 2 {
		t.Errorf("pos = (%v,%v,%v), want held at base height/depth", pos.X, pos.Y, pos.Z)
	}
	if math.Abs(float64(pos.X-1)) > float64(testParams.ShakeOffset)+1e-4 {
		t.Errorf("pos.X = %v, want within shake offset of base 1", pos.X)
	}
	if c.LockTimer <= 0 {
		t.Errorf("LockTimer = %v, want advancing", c.LockTimer)
	}
}

func TestStep_ShakesResolveCapture(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)

	creatureMapper := ecs.NewMap2[components.Position, components.Creature](w)
	cpos := components.Position{X: 1, Y: 0, Z: 2}
	cr := components.Creature{ID: 7, State: components.StateCapturing}
	ce := creatureMapper.NewEntity(&cpos, &cr)

	spawnCapsule(w,
		components.Position{X: 1, Y: 0.7, Z: 2},
		components.Velocity{},
		components.Capsule{
			Phase: components.CapsuleLocked,
			BaseX: 1, BaseY: 0.7, BaseZ: 2,
			TargetID:    7,
			WillCapture: true,
		},
	)

	// 3 shakes at 0.1s each; generous step count
	for i := 0; i < 60; i++ {
		sys.Step(1.0 / 120.0)
	}

	crMap := ecs.NewMap1[components.Creature](w)
	got := crMap.Get(ce)
	if got.State != components.StateCaptured {
		t.Errorf("creature state = %v, want Captured", got.State)
	}
	if got.Visible {
		t.Error("captured creature should stay invisible")
	}
}

func TestStep_ShakesResolveEscape(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)

	creatureMapper := ecs.NewMap2[components.Position, components.Creature](w)
	cpos := components.Position{X: 1, Y: 0, Z: 2}
	cr := components.Creature{ID: 7, State: components.StateCapturing}
	ce := creatureMapper.NewEntity(&cpos, &cr)

	spawnCapsule(w,
		components.Position{X: 1, Y: 0.7, Z: 2},
		components.Velocity{},
		components.Capsule{
			Phase: components.CapsuleLocked,
			BaseX: 1, BaseY: 0.7, BaseZ: 2,
			TargetID:    7,
			WillCapture: false,
		},
	)

	for i := 0; i < 60; i++ {
		sys.Step(1.0 / 120.0)
	}

	crMap := ecs.NewMap1[components.Creature](w)
	got := crMap.Get(ce)
	if got.State != components.StateCaptureFailed {
		t.Errorf("creature state = %v, want CaptureFailed", got.State)
	}
}

func TestStep_LockedCapsuleRemovedAfterLinger(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)
	spawnCapsule(w,
		components.Position{Y: 0.7},
		components.Velocity{},
		components.Capsule{
			Phase: components.CapsuleLocked,
			BaseY: 0.7,
			// Past the full shake sequence already
			ShakeCount: testParams.MaxShakes,
			LockTimer:  testParams.LockLinger,
			TargetID:   7,
		},
	)

	sys.Step(1.0 / 120.0)

	if n := countCapsules(w); n != 0 {
		t.Errorf("capsule count = %d, want 0 after lock linger", n)
	}
}
