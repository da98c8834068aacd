package appliance

import (
	"math/rand"

	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/effects"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// TickIntervalSecs is the nominal 1 s cadence a burning campfire's
// ScheduleApplianceProcessing row fires at (spec.md §4.6 "Per-appliance |
// 1 s while burning").
const TickIntervalSecs = 1.0

// Tick advances one burning campfire by one tick (spec.md §4.8 step 2):
// hot-zone damage, then cooking, then fuel burn. Callers hold the Tx
// returned by Begin and fire this from the campfire's schedule row. The
// campfire row is read once, mutated in memory by each phase, and
// written back exactly once at the end, so a cooked-output or charcoal
// placement earlier in the tick can't be clobbered by a later write.
func Tick(tx *store.Tx, d *db.Database, cat *catalog.Catalog, rng *rand.Rand, campfireID model.CampfireID, now int64) {
	row, ok := store.Get(tx, d.Campfires, store.ID(campfireID))
	if !ok || row.Destroyed || !row.IsBurning {
		return
	}

	applyHotZone(tx, d, &row, now)
	advanceCooking(tx, d, cat, rng, &row, now)
	advanceFuel(tx, d, cat, rng, &row, now)

	store.Put(tx, d.Campfires, store.ID(campfireID), row)
	if !row.IsBurning {
		Extinguish(tx, d, campfireID)
	}
}

// applyHotZone implements spec.md §4.8 step 1: every live player within
// HotZoneRadiusUnits of the campfire (measured from the player's
// visually-offset position) takes a short environmental Burn.
func applyHotZone(tx *store.Tx, d *db.Database, row *model.Campfire, now int64) {
	const r2 = HotZoneRadiusUnits * HotZoneRadiusUnits
	var inZone []model.PlayerID
	store.RangeKeyed(tx, d.Players, func(id model.PlayerID, p model.Player) bool {
		if p.Dead {
			return true
		}
		dx := p.X - row.X
		dy := (p.Y - VisualOffsetY) - row.Y
		if dx*dx+dy*dy <= r2 {
			inZone = append(inZone, id)
		}
		return true
	})
	for _, id := range inZone {
		effects.InsertEnvironmentalBurn(tx, d, id, HotZoneDamagePerTick, HotZoneEffectDuration, now)
	}
	row.IsPlayerInHotZone = len(inZone) > 0
}

// advanceCooking implements spec.md §4.8 step 2: every non-fuel slot
// holding an item with a cook time advances by one tick; on completion
// the raw stack is decremented, one cooked item is placed per the
// merge/place/spill rule, and cook progress either re-seeds for the next
// raw unit or clears.
func advanceCooking(tx *store.Tx, d *db.Database, cat *catalog.Catalog, rng *rand.Rand, row *model.Campfire, now int64) {
	for slot := 0; slot < model.CampfireSlotCount; slot++ {
		if slot == row.CurrentFuelSlot || row.Definitions[slot] == 0 {
			continue
		}
		def, ok := cat.Item(row.Definitions[slot])
		if !ok || def.CookTimeSecs <= 0 || def.CookedOutputName == "" {
			continue
		}

		row.CookProgressSecs[slot] += TickIntervalSecs
		if row.CookProgressSecs[slot] < def.CookTimeSecs {
			continue
		}

		cookedDef, ok := cat.ItemByName(def.CookedOutputName)
		if !ok {
			row.CookProgressSecs[slot] = 0
			continue
		}

		instance, ok := store.Get(tx, d.Items, store.ID(row.Instances[slot]))
		if !ok {
			row.Instances[slot], row.Definitions[slot] = 0, 0
			row.CookProgressSecs[slot] = 0
			continue
		}
		instance.Quantity--
		if instance.Quantity <= 0 {
			store.Delete(tx, d.Items, store.ID(row.Instances[slot]))
			row.Instances[slot], row.Definitions[slot] = 0, 0
			row.CookProgressSecs[slot] = 0
		} else {
			store.Put(tx, d.Items, store.ID(row.Instances[slot]), instance)
			row.CookProgressSecs[slot] = 0
		}

		placeOutput(tx, d, row, cookedDef.ID, 1, rng, now)
	}
}

// advanceFuel implements spec.md §4.8 step 3: subtract the tick from the
// current fuel stack's remaining burn time; on exhaustion, consume one
// unit, produce Charcoal with 75% probability, and either re-seed from
// the remaining fuel stack or search for the next fuel-bearing stack; if
// none, extinguish.
func advanceFuel(tx *store.Tx, d *db.Database, cat *catalog.Catalog, rng *rand.Rand, row *model.Campfire, now int64) {
	row.RemainingBurnSecs -= TickIntervalSecs
	if row.RemainingBurnSecs > 0 {
		return
	}

	fuelSlot := row.CurrentFuelSlot
	instance, ok := store.Get(tx, d.Items, store.ID(row.Instances[fuelSlot]))
	if !ok {
		row.Instances[fuelSlot], row.Definitions[fuelSlot] = 0, 0
	} else {
		instance.Quantity--
		if instance.Quantity <= 0 {
			store.Delete(tx, d.Items, store.ID(row.Instances[fuelSlot]))
			row.Instances[fuelSlot], row.Definitions[fuelSlot] = 0, 0
		} else {
			store.Put(tx, d.Items, store.ID(row.Instances[fuelSlot]), instance)
		}
	}

	// charcoalYieldProbability is spec.md §4.8's own number ("produce
	// Charcoal with 75% probability").
	const charcoalYieldProbability = 0.75
	if rng.Float64() < charcoalYieldProbability {
		if charcoal, ok := cat.ItemByName("charcoal"); ok {
			placeOutput(tx, d, row, charcoal.ID, 1, rng, now)
		}
	}

	if row.Definitions[fuelSlot] != 0 {
		if def, ok := cat.Item(row.Definitions[fuelSlot]); ok && def.FuelBurnDurationSecs > 0 {
			row.RemainingBurnSecs = def.FuelBurnDurationSecs
			return
		}
	}

	if slot, remaining, found := findFuelSlot(*row, cat, fuelSlot); found {
		row.CurrentFuelSlot = slot
		row.RemainingBurnSecs = remaining
		return
	}

	row.IsBurning = false
	row.CurrentFuelSlot = -1
	row.RemainingBurnSecs = 0
}

// scheduleDroppedDespawn inserts the one-shot ScheduleDroppedItemDespawn
// row for a freshly created DroppedItem (spec.md §3.1's despawn timestamp).
func scheduleDroppedDespawn(tx *store.Tx, d *db.Database, dropID store.ID, now int64) {
	store.Insert(tx, d.Schedules, func(id store.ID) model.ScheduleRow {
		return model.ScheduleRow{ID: model.ScheduleID(id), FiresAt: now + model.DroppedItemDespawnSecs, Kind: model.ScheduleDroppedItemDespawn, TargetID: int64(dropID)}
	})
}

// placeOutput implements the shared merge/place/spill placement rule
// spec.md §4.8 names for both cooked output and fuel-burn byproducts:
// merge into an existing campfire slot of the same definition; else an
// empty slot; else spill as a jittered DroppedItem. Mutates row in
// memory rather than re-reading the campfire from the store, since
// row's own slot assignment is the only in-flight write Tick has not yet
// persisted this tick.
func placeOutput(tx *store.Tx, d *db.Database, row *model.Campfire, defID model.ItemDefID, qty int, rng *rand.Rand, now int64) {
	for slot := 0; slot < model.CampfireSlotCount; slot++ {
		if row.Definitions[slot] == defID && row.Instances[slot] != 0 {
			if item, ok := store.Get(tx, d.Items, store.ID(row.Instances[slot])); ok {
				item.Quantity += qty
				store.Put(tx, d.Items, store.ID(row.Instances[slot]), item)
				return
			}
		}
	}

	for slot := 0; slot < model.CampfireSlotCount; slot++ {
		if row.Definitions[slot] == 0 {
			loc := model.InContainer(model.ContainerKindCampfire, store.ID(row.ID), slot)
			id, _ := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
				return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: loc}
			})
			row.Instances[slot] = model.InstanceID(id)
			row.Definitions[slot] = defID
			return
		}
	}

	jx := row.X + (rng.Float64()*2-1)*JitterRadiusUnits
	jy := row.Y + (rng.Float64()*2-1)*JitterRadiusUnits
	despawnAt := now + model.DroppedItemDespawnSecs
	dropID, _ := store.Insert(tx, d.Dropped, func(id store.ID) model.DroppedItem {
		return model.DroppedItem{ID: model.DroppedID(id), X: jx, Y: jy, DefinitionID: defID, Quantity: qty, DespawnAt: despawnAt}
	})
	scheduleDroppedDespawn(tx, d, dropID, now)
	store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
		return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: model.Dropped(model.DroppedID(dropID))}
	})
}
