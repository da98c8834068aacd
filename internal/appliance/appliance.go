// Package appliance implements spec.md §4.8's campfire contract: lighting
// and extinguishing, and the per-tick hot-zone damage / cooking / fuel
// burn triple. Grounded on fight-club-go/internal/game/effects.go's
// per-tick state-advance style (internal/effects adapts the same pattern
// for player status effects; this package adapts it for a placeable's
// own per-slot state) and on internal/container's capability-set view of
// a Campfire's slots for the merge/place/spill placement rule.
package appliance

import (
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Campfires, d.Items, d.Players, d.Effects, d.Schedules, d.Dropped}
}

// Begin starts a Tx over every table an appliance operation can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// HotZoneRadiusUnits and HotZoneDamagePerTick are spec.md §4.8's
// unspecified hot-zone numbers ("within the damage radius ... fixed
// per-tick damage") — this implementation's own judgment call, sized so
// a player standing at a campfire for several seconds takes meaningful
// but not instantly lethal damage.
const (
	HotZoneRadiusUnits    = 60.0
	HotZoneDamagePerTick  = 3.0
	HotZoneEffectDuration = 1.0
)

// VisualOffsetY is the Y-offset spec.md §4.8 step 1 applies to a
// player's position before the hot-zone distance check ("(x, y −
// visual-offset)") — this implementation's own figure, matching the
// "visual center" offset combat's cone targeting already names for
// per-kind Y-alignment (spec.md §4.4 step 3) but never numbers.
const VisualOffsetY = 16.0

// JitterRadiusUnits bounds the scatter offset for spilled cooked/fuel
// output, matching internal/combat's content-spill jitter.
const JitterRadiusUnits = 20.0

// Light starts a campfire burning if it has at least one fuel-bearing
// stack in any slot (spec.md §4.8 Lighting), inserting its processing
// schedule row.
func Light(tx *store.Tx, d *db.Database, cat *catalog.Catalog, campfireID model.CampfireID, now int64) bool {
	row, ok := store.Get(tx, d.Campfires, store.ID(campfireID))
	if !ok || row.Destroyed || row.IsBurning {
		return false
	}

	fuelSlot, remaining, found := findFuelSlot(row, cat, -1)
	if !found {
		return false
	}
	row.IsBurning = true
	row.CurrentFuelSlot = fuelSlot
	row.RemainingBurnSecs = remaining
	store.Put(tx, d.Campfires, store.ID(campfireID), row)

	store.Insert(tx, d.Schedules, func(id store.ID) model.ScheduleRow {
		return model.ScheduleRow{ID: model.ScheduleID(id), FiresAt: now + 1, Interval: 1, Kind: model.ScheduleApplianceProcessing, TargetID: int64(campfireID)}
	})
	return true
}

// Extinguish clears burning state and deletes the processing schedule
// row (spec.md §4.8 Extinguishing).
func Extinguish(tx *store.Tx, d *db.Database, campfireID model.CampfireID) {
	row, ok := store.Get(tx, d.Campfires, store.ID(campfireID))
	if !ok {
		return
	}
	row.IsBurning = false
	row.CurrentFuelSlot = -1
	row.RemainingBurnSecs = 0
	store.Put(tx, d.Campfires, store.ID(campfireID), row)

	var toDelete []store.ID
	store.Range(tx, d.Schedules, func(id store.ID, sched model.ScheduleRow) bool {
		if sched.Kind == model.ScheduleApplianceProcessing && sched.TargetID == int64(campfireID) {
			toDelete = append(toDelete, id)
		}
		return true
	})
	for _, id := range toDelete {
		store.Delete(tx, d.Schedules, id)
	}
}

// findFuelSlot searches row's slots in index order, starting just after
// skipSlot, for the first one holding a fuel-bearing item (spec.md §4.8
// fuel burn: "search all slots in index order for the next fuel-bearing
// stack").
func findFuelSlot(row model.Campfire, cat *catalog.Catalog, skipSlot int) (slot int, remainingSecs float64, found bool) {
	for i := 0; i < model.CampfireSlotCount; i++ {
		if i == skipSlot || row.Definitions[i] == 0 {
			continue
		}
		def, ok := cat.Item(row.Definitions[i])
		if !ok || def.FuelBurnDurationSecs <= 0 {
			continue
		}
		return i, def.FuelBurnDurationSecs, true
	}
	return 0, 0, false
}
