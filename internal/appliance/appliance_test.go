package appliance

import (
	"math/rand"
	"testing"

	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func newTestDB(t *testing.T) (*db.Database, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return db.New(), cat
}

func mustItemByName(t *testing.T, cat *catalog.Catalog, name string) catalog.ItemDefinition {
	t.Helper()
	def, ok := cat.ItemByName(name)
	if !ok {
		t.Fatalf("catalog has no item named %q", name)
	}
	return def
}

func putCampfire(d *db.Database) model.CampfireID {
	tx := store.Begin(d.Campfires)
	id, _ := store.Insert(tx, d.Campfires, func(id store.ID) model.Campfire {
		return model.Campfire{ID: model.CampfireID(id), X: 0, Y: 0, Health: 100, CurrentFuelSlot: -1}
	})
	tx.Commit()
	return model.CampfireID(id)
}

func putSlotItem(d *db.Database, campfireID model.CampfireID, slot int, defID model.ItemDefID, qty int) {
	tx := store.Begin(d.Campfires, d.Items)
	row, _ := store.Get(tx, d.Campfires, store.ID(campfireID))
	loc := model.InContainer(model.ContainerKindCampfire, store.ID(campfireID), slot)
	id, _ := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
		return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: loc}
	})
	row.Instances[slot] = model.InstanceID(id)
	row.Definitions[slot] = defID
	store.Put(tx, d.Campfires, store.ID(campfireID), row)
	tx.Commit()
}

func TestLightRequiresFuelBearingStack(t *testing.T) {
	d, cat := newTestDB(t)
	campfireID := putCampfire(d)

	tx := Begin(d)
	lit := Light(tx, d, cat, campfireID, 0)
	tx.Commit()
	if lit {
		t.Fatal("expected Light to refuse an empty campfire")
	}

	wood := mustItemByName(t, cat, "wood")
	putSlotItem(d, campfireID, 0, wood.ID, 10)

	tx = Begin(d)
	lit = Light(tx, d, cat, campfireID, 0)
	tx.Commit()
	if !lit {
		t.Fatal("expected Light to succeed with a fuel-bearing stack present")
	}

	tx = store.Begin(d.Schedules)
	found := false
	store.Range(tx, d.Schedules, func(id store.ID, row model.ScheduleRow) bool {
		if row.Kind == model.ScheduleApplianceProcessing && row.TargetID == int64(campfireID) {
			found = true
		}
		return true
	})
	tx.Commit()
	if !found {
		t.Fatal("expected a processing schedule row after lighting")
	}
}

// TestCookAndScatter follows spec.md's worked scenario: 10 Wood (5 s/unit)
// in slot 0, 2 raw fish (10 s cook time) in slot 1. Each burn completion
// consumes exactly one Wood unit, so 10 units cover 50 s of fuel; after
// 60 s the campfire has extinguished and both fish have cooked.
func TestCookAndScatter(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	fish := mustItemByName(t, cat, "raw_fish")
	cookedFish := mustItemByName(t, cat, "cooked_fish")

	campfireID := putCampfire(d)
	putSlotItem(d, campfireID, 0, wood.ID, 10)
	putSlotItem(d, campfireID, 1, fish.ID, 2)

	tx := Begin(d)
	if !Light(tx, d, cat, campfireID, 0) {
		t.Fatal("expected Light to succeed")
	}
	tx.Commit()

	rng := rand.New(rand.NewSource(1))
	for now := int64(1); now <= 60; now++ {
		tx := Begin(d)
		row, ok := store.Get(tx, d.Campfires, store.ID(campfireID))
		if ok && row.IsBurning {
			Tick(tx, d, cat, rng, campfireID, now)
		}
		tx.Commit()
	}

	tx = store.Begin(d.Campfires)
	row, ok := store.Get(tx, d.Campfires, store.ID(campfireID))
	tx.Commit()
	if !ok {
		t.Fatal("expected campfire row to still exist")
	}
	if row.IsBurning {
		t.Fatal("expected campfire to have extinguished after 60s with 10 Wood at 5s/unit")
	}

	tx = store.Begin(d.Items)
	gotCookedFish := false
	remainingWood := 0
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.DefinitionID == cookedFish.ID {
			gotCookedFish = true
		}
		if item.DefinitionID == wood.ID {
			remainingWood += item.Quantity
		}
		return true
	})
	tx.Commit()
	if !gotCookedFish {
		t.Fatal("expected at least one cooked fish to have been produced")
	}
	if remainingWood >= 10 {
		t.Fatalf("expected wood stack to shrink from fuel burn, got %d remaining", remainingWood)
	}
}

func TestHotZoneDamagesNearbyPlayer(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	campfireID := putCampfire(d)
	putSlotItem(d, campfireID, 0, wood.ID, 10)

	tx := store.Begin(d.Players)
	store.PutKeyed(tx, d.Players, model.PlayerID("alice"), model.Player{ID: "alice", X: 10, Y: 10, Health: 100, Stamina: 100, Thirst: 100, Hunger: 100, Warmth: 100})
	tx.Commit()

	tx = Begin(d)
	Light(tx, d, cat, campfireID, 0)
	tx.Commit()

	tx = Begin(d)
	Tick(tx, d, cat, rand.New(rand.NewSource(1)), campfireID, 1)
	tx.Commit()

	tx = store.Begin(d.Effects)
	foundBurn := false
	store.Range(tx, d.Effects, func(id store.ID, row model.ActiveConsumableEffect) bool {
		if row.Owner == model.PlayerID("alice") && row.Kind == model.EffectBurn {
			foundBurn = true
		}
		return true
	})
	tx.Commit()
	if !foundBurn {
		t.Fatal("expected a Burn effect on a player standing in the hot zone")
	}
}

func TestExtinguishDeletesProcessingSchedule(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	campfireID := putCampfire(d)
	putSlotItem(d, campfireID, 0, wood.ID, 10)

	tx := Begin(d)
	Light(tx, d, cat, campfireID, 0)
	tx.Commit()

	tx = Begin(d)
	Extinguish(tx, d, campfireID)
	tx.Commit()

	tx = store.Begin(d.Schedules)
	found := false
	store.Range(tx, d.Schedules, func(id store.ID, row model.ScheduleRow) bool {
		if row.Kind == model.ScheduleApplianceProcessing && row.TargetID == int64(campfireID) {
			found = true
		}
		return true
	})
	tx.Commit()
	if found {
		t.Fatal("expected processing schedule row to be deleted on extinguish")
	}

	tx = store.Begin(d.Campfires)
	row, _ := store.Get(tx, d.Campfires, store.ID(campfireID))
	tx.Commit()
	if row.IsBurning {
		t.Fatal("expected campfire to report not burning after extinguish")
	}
}
