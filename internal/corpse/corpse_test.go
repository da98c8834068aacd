package corpse

import (
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

func putItem(d *db.Database, defID model.ItemDefID, qty int, loc model.ItemLocation) model.InstanceID {
	tx := store.Begin(d.Items)
	id, _ := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
		return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: loc}
	})
	tx.Commit()
	return model.InstanceID(id)
}

func TestCreateOnDeathGathersItemsAndSchedulesDespawn(t *testing.T) {
	d, cat := newTestDB(t)
	hatchet := mustItemByName(t, cat, "hatchet")
	wood := mustItemByName(t, cat, "wood")

	putItem(d, hatchet.ID, 1, model.InHotbar("alice", 0))
	putItem(d, wood.ID, 40, model.InInventory("alice", 0))

	tx := Begin(d)
	corpseID := CreateOnDeath(tx, d, cat, "alice", 10, 20, 1000)
	tx.Commit()

	tx = store.Begin(d.Corpses)
	row, ok := store.Get(tx, d.Corpses, store.ID(corpseID))
	tx.Commit()
	if !ok {
		t.Fatal("expected corpse row to exist")
	}
	if row.Instances[0] == 0 || row.Instances[1] == 0 {
		t.Fatal("expected both gathered items placed into corpse slots")
	}
	if row.DespawnAt != 1000+DefaultDespawnSecs {
		t.Fatalf("expected default despawn window, got despawn at %d", row.DespawnAt)
	}

	tx = store.Begin(d.Schedules)
	found := false
	store.Range(tx, d.Schedules, func(id store.ID, r model.ScheduleRow) bool {
		if r.Kind == model.ScheduleCorpseDespawn && r.TargetID == int64(corpseID) {
			found = true
		}
		return true
	})
	tx.Commit()
	if !found {
		t.Fatal("expected a corpse-despawn schedule row")
	}
}

func TestCreateOnDeathOverflowMarkedUnknown(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	for i := 0; i < model.PlayerCorpseSlotCount+2; i++ {
		putItem(d, wood.ID, 1, model.InInventory("bob", i%model.InventorySlotCount))
	}

	tx := Begin(d)
	CreateOnDeath(tx, d, cat, "bob", 0, 0, 1000)
	tx.Commit()

	tx = store.Begin(d.Items)
	unknownCount := 0
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Kind == model.LocationUnknown {
			unknownCount++
		}
		return true
	})
	tx.Commit()
	if unknownCount != 2 {
		t.Fatalf("expected 2 overflow items marked Unknown, got %d", unknownCount)
	}
}

func TestDespawnDeletesCorpseAndContents(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	putItem(d, wood.ID, 10, model.InInventory("carol", 0))

	tx := Begin(d)
	corpseID := CreateOnDeath(tx, d, cat, "carol", 0, 0, 1000)
	tx.Commit()

	tx = Begin(d)
	Despawn(tx, d, corpseID)
	tx.Commit()

	tx = store.Begin(d.Corpses)
	_, ok := store.Get(tx, d.Corpses, store.ID(corpseID))
	tx.Commit()
	if ok {
		t.Fatal("expected corpse row to be deleted")
	}
}

func TestRespawnRandomResetsVitalsAndGrantsStarterKit(t *testing.T) {
	d, cat := newTestDB(t)

	tx := store.Begin(d.Players)
	store.PutKeyed(tx, d.Players, model.PlayerID("dave"), model.Player{ID: "dave", Health: 0, Dead: true, DiedAt: 1000})
	tx.Commit()

	tx = Begin(d)
	RespawnRandom(tx, d, cat, "dave", 1000, 1000, func() float64 { return 0.5 })
	tx.Commit()

	tx = store.Begin(d.Players)
	p, _ := store.GetKeyed(tx, d.Players, model.PlayerID("dave"))
	tx.Commit()
	if p.Health != 100 || p.Dead {
		t.Fatalf("expected full vitals and alive after respawn, got %+v", p)
	}

	tx = store.Begin(d.Items)
	count := 0
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Owner == model.PlayerID("dave") {
			count++
		}
		return true
	})
	tx.Commit()
	if count != len(starterKit) {
		t.Fatalf("expected %d starter items, got %d", len(starterKit), count)
	}
}

func TestRespawnAtBagRejectsDestroyedBag(t *testing.T) {
	d, cat := newTestDB(t)

	tx := store.Begin(d.Bags)
	bagID, _ := store.Insert(tx, d.Bags, func(id store.ID) model.SleepingBag {
		return model.SleepingBag{ID: model.BagID(id), Owner: "erin", X: 5, Y: 5, Destroyed: true}
	})
	tx.Commit()

	tx = Begin(d)
	ok := RespawnAtBag(tx, d, cat, "erin", model.BagID(bagID))
	tx.Commit()

	if ok {
		t.Fatal("expected destroyed bag to be rejected")
	}
}
