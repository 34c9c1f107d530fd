package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wilds/components"
)

// InventoryRecord is one captured creature at rest in the inventory. The
// record keeps only identity; transient in-world state is rebuilt when the
// creature is sent out.
type InventoryRecord struct {
	ID        int32
	SpeciesID uint8
}

// Inventory owns the bounded list of captured creatures and enforces the
// single-active-companion invariant: at most one slot may have a live
// sent-out copy in the world at any instant. The invariant lives entirely
// inside this type; nothing else mutates the active-slot list.
type Inventory struct {
	creatureMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Heading,
		components.Body,
		components.Creature,
	]
	creatureFilter *ecs.Filter1[components.Creature]

	species  []components.Species
	capacity int

	entries     []InventoryRecord
	activeSlots []int // slot indices with a live sent-out copy; len is 0 or 1
}

// NewInventory creates an inventory manager bound to the given world.
func NewInventory(w *ecs.World, species []components.Species, capacity int) *Inventory {
	return &Inventory{
		creatureMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Heading,
			components.Body,
			components.Creature,
		](w),
		creatureFilter: ecs.NewFilter1[components.Creature](w),
		species:        species,
		capacity:       capacity,
	}
}

// Promote moves captured, invisible, non-owned creatures from the roster
// into the inventory. Returns the number of creatures promoted.
func (inv *Inventory) Promote() int {
	type promoted struct {
		entity ecs.Entity
		rec    InventoryRecord
	}
	var found []promoted

	query := inv.creatureFilter.Query()
	for query.Next() {
		cr := query.Get()
		if cr.State != components.StateCaptured || cr.Visible {
			continue
		}
		// A sent-out copy marked Captured is resting, not newly caught
		if inv.IsOwned(cr.ID) {
			continue
		}
		found = append(found, promoted{
			entity: query.Entity(),
			rec:    InventoryRecord{ID: cr.ID, SpeciesID: cr.SpeciesID},
		})
	}

	n := 0
	for _, p := range found {
		if len(inv.entries) >= inv.capacity {
			slog.Warn("inventory full, creature left in roster", "id", p.rec.ID)
			continue
		}
		inv.entries = append(inv.entries, p.rec)
		inv.creatureMapper.Remove(p.entity)
		n++
	}
	return n
}

// SendOut instantiates the inventory entry at slot as a live creature at the
// given position. It fails if the slot is invalid, if any slot already has a
// live copy out, or if this slot is itself flagged active. The clone shares
// the entry's identity but starts a fresh in-world lifecycle.
func (inv *Inventory) SendOut(slot int, x, y, z float32) bool {
	if slot < 0 || slot >= len(inv.entries) {
		return false
	}
	// Only one companion out at a time
	if len(inv.activeSlots) > 0 {
		return false
	}
	if inv.isSlotActive(slot) {
		return false
	}

	rec := inv.entries[slot]
	sp := inv.species[rec.SpeciesID]

	pos := components.Position{X: x, Y: y, Z: z}
	vel := components.Velocity{}
	head := components.Heading{}
	body := components.Body{Radius: sp.Radius}
	cr := components.Creature{
		ID:        rec.ID,
		SpeciesID: rec.SpeciesID,
		State:     components.StateIdle,
		Visible:   true,
	}
	inv.creatureMapper.NewEntity(&pos, &vel, &head, &body, &cr)

	inv.activeSlots = append(inv.activeSlots, slot)
	return true
}

// Recall removes the live sent-out copy of the given slot from the world and
// clears its active flag. Fails if the slot is not flagged active or the
// copy cannot be found.
func (inv *Inventory) Recall(slot int) bool {
	if !inv.isSlotActive(slot) {
		return false
	}
	targetID := inv.entries[slot].ID

	// Identity is unique in the roster: the wild original was removed at
	// promotion, so at most one entity carries this id.
	var found ecs.Entity
	ok := false
	query := inv.creatureFilter.Query()
	for query.Next() {
		cr := query.Get()
		if cr.ID == targetID {
			found = query.Entity()
			ok = true
		}
	}
	if !ok {
		return false
	}

	inv.creatureMapper.Remove(found)
	for i, s := range inv.activeSlots {
		if s == slot {
			inv.activeSlots = append(inv.activeSlots[:i], inv.activeSlots[i+1:]...)
			break
		}
	}
	return true
}

// IsOwned reports whether a roster identity matches any inventory slot
// currently flagged active. Used by the capture hit test to keep a player's
// own companion from being re-captured.
func (inv *Inventory) IsOwned(id int32) bool {
	for _, slot := range inv.activeSlots {
		if slot < len(inv.entries) && inv.entries[slot].ID == id {
			return true
		}
	}
	return false
}

// HasActive reports whether any slot currently has a live copy out.
func (inv *Inventory) HasActive() bool {
	return len(inv.activeSlots) > 0
}

// IsSlotActive reports whether the given slot has a live copy out.
func (inv *Inventory) IsSlotActive(slot int) bool {
	return inv.isSlotActive(slot)
}

func (inv *Inventory) isSlotActive(slot int) bool {
	for _, s := range inv.activeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Len returns the number of captured creatures held.
func (inv *Inventory) Len() int {
	return len(inv.entries)
}

// Capacity returns the maximum number of creatures the inventory holds.
func (inv *Inventory) Capacity() int {
	return inv.capacity
}

// Entry returns the record at slot. The bool is false for an invalid slot.
func (inv *Inventory) Entry(slot int) (InventoryRecord, bool) {
	if slot < 0 || slot >= len(inv.entries) {
		return InventoryRecord{}, false
	}
	return inv.entries[slot], true
}
