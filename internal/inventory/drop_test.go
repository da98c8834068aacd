package inventory

import (
	"testing"

	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func TestDropFullStackDeletesOriginal(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	instance := putItem(t, d, wood.ID, 10, model.InInventory("alice", 0))

	tx := BeginMove(d)
	dropID, err := Drop(tx, d, "alice", instance, 10, 100, 100, model.FacingRight, 1)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}

	txCheck := store.Begin(d.Items)
	_, stillExists := store.Get(txCheck, d.Items, store.ID(instance))
	txCheck.Commit()
	if stillExists {
		t.Fatal("expected original instance to be deleted on a full drop")
	}

	dropped := dropItemRow(t, d, dropID)
	if dropped.X != 124 || dropped.Y != 100 {
		t.Fatalf("expected drop point offset along facing, got (%v,%v)", dropped.X, dropped.Y)
	}
}

func TestDropPartialStackDecrementsSource(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	instance := putItem(t, d, wood.ID, 10, model.InInventory("alice", 0))

	tx := BeginMove(d)
	_, err := Drop(tx, d, "alice", instance, 4, 0, 0, model.FacingDown, 1)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}

	remaining := getItemDirect(t, d, instance)
	if remaining.Quantity != 6 {
		t.Fatalf("expected source to retain 6, got %d", remaining.Quantity)
	}
}

func TestDropClearsArmorSlotWhenEquipped(t *testing.T) {
	d, cat := newTestDB(t)
	chest := mustItemByName(t, cat, "hide_armor_chest")

	instance := putItem(t, d, chest.ID, 1, model.Equipped("alice", model.ArmorSlotChest))
	tx := store.Begin(d.Equipment)
	equip := model.ActiveEquipment{Owner: "alice"}
	equip.ArmorSlots[model.ArmorSlotChest] = instance
	store.PutKeyed(tx, d.Equipment, "alice", equip)
	tx.Commit()

	tx = BeginMove(d)
	_, err := Drop(tx, d, "alice", instance, 1, 0, 0, model.FacingUp, 1)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}

	tx = store.Begin(d.Equipment)
	after, _ := store.GetKeyed(tx, d.Equipment, "alice")
	tx.Commit()
	if after.ArmorSlots[model.ArmorSlotChest] != 0 {
		t.Fatalf("expected armor slot to be cleared, got instance %d", after.ArmorSlots[model.ArmorSlotChest])
	}
}

func dropItemRow(t *testing.T, d *db.Database, id model.DroppedID) model.DroppedItem {
	t.Helper()
	tx := store.Begin(d.Dropped)
	defer tx.Commit()
	row, _ := store.Get(tx, d.Dropped, store.ID(id))
	return row
}
