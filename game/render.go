package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wilds/components"
)

// speciesColors is indexed by SpeciesID modulo its length.
var speciesColors = []rl.Color{
	rl.Yellow,
	rl.Orange,
	rl.SkyBlue,
	rl.Lime,
	rl.Purple,
	rl.Pink,
}

// Draw renders the debug view.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	rl.BeginMode3D(g.camera)
	g.drawTerrain()
	g.drawObstacles()
	g.drawCreatures()
	g.drawCapsules()
	rl.EndMode3D()

	g.drawHUD()

	rl.EndDrawing()
}

// drawTerrain renders the height field as a wire grid.
func (g *Game) drawTerrain() {
	halfX, halfZ := g.terrain.Bounds()
	step := g.terrain.CellSize()

	for x := -halfX; x <= halfX; x += step {
		for z := -halfZ; z < halfZ; z += step {
			a := rl.Vector3{X: x, Y: g.terrain.HeightAt(x, z), Z: z}
			b := rl.Vector3{X: x, Y: g.terrain.HeightAt(x, z+step), Z: z + step}
			rl.DrawLine3D(a, b, rl.LightGray)
		}
	}
	for z := -halfZ; z <= halfZ; z += step {
		for x := -halfX; x < halfX; x += step {
			a := rl.Vector3{X: x, Y: g.terrain.HeightAt(x, z), Z: z}
			b := rl.Vector3{X: x + step, Y: g.terrain.HeightAt(x+step, z), Z: z}
			rl.DrawLine3D(a, b, rl.LightGray)
		}
	}
}

// drawObstacles renders rocks as solid boxes.
func (g *Game) drawObstacles() {
	for i := range g.obstacles {
		ob := &g.obstacles[i]
		size := ob.Max.Sub(ob.Min)
		center := ob.Min.Add(size.Mul(0.5))

		c := rl.Vector3{X: center[0], Y: center[1], Z: center[2]}
		s := rl.Vector3{X: size[0], Y: size[1], Z: size[2]}
		rl.DrawCubeV(c, s, rl.Gray)
		rl.DrawCubeWiresV(c, s, rl.DarkGray)
	}
}

// drawCreatures renders visible creatures as spheres with a heading tick.
func (g *Game) drawCreatures() {
	query := g.creatureFilter.Query()
	for query.Next() {
		pos, _, body, cr := query.Get()
		if !cr.Visible {
			continue
		}

		sp := g.species[cr.SpeciesID]
		radius := body.Radius * sp.DisplayScale
		color := speciesColors[int(cr.SpeciesID)%len(speciesColors)]
		if cr.State == components.StateCapturing {
			color = rl.Red
		}

		center := rl.Vector3{X: pos.X, Y: pos.Y + radius, Z: pos.Z}
		rl.DrawSphere(center, radius, color)
		rl.DrawSphereWires(center, radius, 6, 6, rl.DarkGray)
	}
}

// drawCapsules renders live capsules; locked capsules turn white while they
// shake.
func (g *Game) drawCapsules() {
	query := g.capsuleFilter.Query()
	for query.Next() {
		pos, c := query.Get()

		color := rl.Red
		if c.Locked() {
			color = rl.White
		}

		center := rl.Vector3{X: pos.X, Y: pos.Y, Z: pos.Z}
		rl.DrawSphere(center, float32(g.config().Capsule.Radius), color)
		rl.DrawSphereWires(center, float32(g.config().Capsule.Radius), 6, 6, rl.DarkGray)
	}
}

// drawHUD renders the 2D overlay: sim state, charge meter, inventory slots.
func (g *Game) drawHUD() {
	cfg := g.config()

	wild, capturing := g.countCreatures()
	rl.DrawText(fmt.Sprintf("Tick: %d", g.tick), 10, 10, 20, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Wild: %d  Capturing: %d  Inventory: %d/%d",
		wild, capturing, g.inventory.Len(), g.inventory.Capacity()), 10, 35, 20, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]  Seed: %d", g.speed, g.rngSeed), 10, 60, 20, rl.DarkGray)
	if g.paused {
		rl.DrawText("PAUSED", 10, 85, 20, rl.Orange)
	}

	// Charge meter while the throw button is held
	if g.charging {
		gui.ProgressBar(
			rl.Rectangle{X: 10, Y: float32(cfg.Screen.Height) - 40, Width: 200, Height: 20},
			"", "charge",
			g.chargeTime/float32(cfg.Capsule.MaxChargeTime), 0, 1,
		)
	}

	// Inventory slot buttons: click to send out or recall
	y := float32(110)
	for slot := 0; slot < g.inventory.Len() && slot < 9; slot++ {
		entry, ok := g.inventory.Entry(slot)
		if !ok {
			continue
		}
		name := g.species[entry.SpeciesID].Name
		label := fmt.Sprintf("%d: %s", slot+1, name)
		if g.inventory.IsSlotActive(slot) {
			label += " (out)"
		}
		if slot == g.selectedSlot {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: 10, Y: y, Width: 160, Height: 24}, label) {
			g.selectedSlot = slot
			if g.inventory.IsSlotActive(slot) {
				g.inventory.Recall(slot)
			} else {
				x, z := g.camera.Target.X, g.camera.Target.Z
				g.inventory.SendOut(slot, x, g.terrain.HeightAt(x, z), z)
			}
		}
		y += 28
	}
}
