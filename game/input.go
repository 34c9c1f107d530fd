package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// setupCamera places the debug camera above the play area.
func (g *Game) setupCamera() {
	g.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: 10, Z: 16},
		Target:     rl.Vector3{X: 0, Y: 0, Z: 0},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	cfg := g.config()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.speed > 1 {
		g.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < 10 {
		g.speed++
	}

	rl.UpdateCamera(&g.camera, rl.CameraOrbital)

	// Charge-and-release throw along the mouse ray
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		g.charging = true
		g.chargeTime += rl.GetFrameTime()
		if limit := float32(cfg.Capsule.MaxChargeTime); g.chargeTime > limit {
			g.chargeTime = limit
		}
	} else if g.charging {
		ray := rl.GetMouseRay(rl.GetMousePosition(), g.camera)
		origin := mgl32.Vec3{ray.Position.X, ray.Position.Y, ray.Position.Z}
		dir := mgl32.Vec3{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
		charge := g.chargeTime / float32(cfg.Capsule.MaxChargeTime)
		g.Throw(origin, dir, charge)

		g.charging = false
		g.chargeTime = 0
	}

	// Number keys toggle inventory slots: send out if idle, recall if active
	for key, slot := range slotKeys {
		if !rl.IsKeyPressed(key) {
			continue
		}
		g.selectedSlot = slot
		if g.inventory.IsSlotActive(slot) {
			g.inventory.Recall(slot)
		} else {
			x, z := g.camera.Target.X, g.camera.Target.Z
			g.inventory.SendOut(slot, x, g.terrain.HeightAt(x, z), z)
		}
	}
}

var slotKeys = map[int32]int{
	rl.KeyOne:   0,
	rl.KeyTwo:   1,
	rl.KeyThree: 2,
	rl.KeyFour:  3,
	rl.KeyFive:  4,
	rl.KeySix:   5,
	rl.KeySeven: 6,
	rl.KeyEight: 7,
	rl.KeyNine:  8,
}
