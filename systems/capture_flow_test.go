package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
)

// newFlowWorld wires the full capture pipeline over a flat world.
func newFlowWorld(t *testing.T, catchRate float32) (*ecs.World, *WanderSystem, *BallisticsSystem, *CaptureSystem, *Inventory) {
	t.Helper()
	species := []components.Species{
		{Name: "volt", DisplayScale: 1, CatchRate: catchRate, MoveSpeed: 2, Radius: 0.5},
	}

	w := ecs.NewWorld()
	terrain := NewFlat()
	rng := rand.New(rand.NewSource(1))

	inv := NewInventory(w, species, 30)
	wander := NewWanderSystem(w, species, terrain, nil, rng, 0.7, 1.0, 3.0)
	ballistics := NewBallisticsSystem(w, terrain, nil, testParams, nil)
	capture := NewCaptureSystem(w, species, inv, rng, nil)
	return w, wander, ballistics, capture, inv
}

// runFrames drives the systems with the production step order: wander, fixed
// physics increments, capture hit test, promotion.
func runFrames(w *WanderSystem, b *BallisticsSystem, c *CaptureSystem, inv *Inventory, frames int) {
	const frameDT = 1.0 / 60.0
	const physDT = 1.0 / 120.0
	for i := 0; i < frames; i++ {
		w.Update(frameDT)
		b.Step(physDT)
		b.Step(physDT)
		c.Update()
		inv.Promote()
	}
}

func TestCaptureFlow_GuaranteedCatchEndsInInventory(t *testing.T) {
	w, wander, ballistics, capture, inv := newFlowWorld(t, 1.0)

	ce := spawnCaptureCreature(w, 7, 0, 0, 0, 0)
	crMap := ecs.NewMap1[components.Creature](w)
	velMap := ecs.NewMap1[components.Velocity](w)
	// Stationary target
	v := velMap.Get(ce)
	v.X, v.Y, v.Z = 0, 0, 0
	crMap.Get(ce).WanderTimer = 100

	// Capsule dropped straight onto the creature
	spawnCapsule(w,
		components.Position{X: 0, Y: 2, Z: 0},
		components.Velocity{},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	// Ample time to fall, lock, shake 3 times (0.3s) and promote
	runFrames(wander, ballistics, capture, inv, 120)

	if inv.Len() != 1 {
		t.Fatalf("inventory len = %d, want the captured creature promoted", inv.Len())
	}
	entry, _ := inv.Entry(0)
	if entry.ID != 7 {
		t.Errorf("inventory entry ID = %d, want 7", entry.ID)
	}
	if n := countLiveCreatures(w); n != 0 {
		t.Errorf("live creatures = %d, want 0 after promotion", n)
	}
}

func TestCaptureFlow_GuaranteedEscapeResumesWandering(t *testing.T) {
	w, wander, ballistics, capture, inv := newFlowWorld(t, 0.0)

	ce := spawnCaptureCreature(w, 7, 0, 0, 0, 0)
	crMap := ecs.NewMap1[components.Creature](w)
	velMap := ecs.NewMap1[components.Velocity](w)
	v := velMap.Get(ce)
	v.X, v.Y, v.Z = 0, 0, 0
	crMap.Get(ce).WanderTimer = 100

	spawnCapsule(w,
		components.Position{X: 0, Y: 2, Z: 0},
		components.Velocity{},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	runFrames(wander, ballistics, capture, inv, 120)

	cr := crMap.Get(ce)
	if cr.State != components.StateWalking {
		t.Errorf("creature state = %v, want Walking after the escape", cr.State)
	}
	if !cr.Visible {
		t.Error("escaped creature should be visible again")
	}
	if inv.Len() != 0 {
		t.Errorf("inventory len = %d, want 0 after a failed capture", inv.Len())
	}
	if n := countLiveCreatures(w); n != 1 {
		t.Errorf("live creatures = %d, want the escapee still in the world", n)
	}
}

func TestStep_RestingContactStaysPut(t *testing.T) {
	w, sys := newBallisticsWorld(t, nil)

	// Center exactly one radius above the flat terrain, at rest
	e := spawnCapsule(w,
		components.Position{Y: 0.2},
		components.Velocity{},
		components.Capsule{Phase: components.CapsuleFlying, Life: 15, TargetID: components.NoTarget},
	)

	dt := float32(1.0 / 120.0)
	for i := 0; i < 120; i++ {
		sys.Step(dt)
	}

	posMap := ecs.NewMap1[components.Position](w)
	velMap := ecs.NewMap1[components.Velocity](w)
	pos := posMap.Get(e)
	vel := velMap.Get(e)

	if math.Abs(float64(pos.Y-0.2)) > 0.01 {
		t.Errorf("pos.Y = %v, want held at the contact height 0.2", pos.Y)
	}
	if pos.X != 0 || pos.Z != 0 {
		t.Errorf("pos = (%v, _, %v), want no lateral drift", pos.X, pos.Z)
	}
	// Only the single-step gravity increment may survive a resting contact
	if math.Abs(float64(vel.Y)) > float64(testParams.Gravity*dt) {
		t.Errorf("vel.Y = %v, want bounded by one gravity increment", vel.Y)
	}
}
