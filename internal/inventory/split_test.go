package inventory

import (
	"testing"

	"ashfall/internal/apperr"
	"ashfall/internal/container"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func TestSplitIntoEmptyInventorySlot(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	source := putItem(t, d, wood.ID, 50, model.InInventory("alice", 0))

	tx := BeginMove(d)
	newInstance, err := Split(tx, d, cat, source, 20, model.InInventory("alice", 1))
	tx.Done(&err)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	remaining := getItemDirect(t, d, source)
	if remaining.Quantity != 30 {
		t.Fatalf("expected source to retain 30, got %d", remaining.Quantity)
	}
	newItem := getItemDirect(t, d, newInstance)
	if newItem.Quantity != 20 || newItem.Location.Slot != 1 {
		t.Fatalf("unexpected new item %+v", newItem)
	}
}

func TestSplitRejectsFullStackQuantity(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	source := putItem(t, d, wood.ID, 50, model.InInventory("alice", 0))

	tx := BeginMove(d)
	_, err := Split(tx, d, cat, source, 50, model.InInventory("alice", 1))
	tx.Done(&err)
	if apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("expected InvalidState for qty == source.Quantity, got %v", err)
	}
}

func TestSplitIntoOccupiedIncompatibleContainerSlotConflicts(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	stone := mustItemByName(t, cat, "stone_material")

	tx := store.Begin(d.Boxes)
	boxID, _ := store.Insert(tx, d.Boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	occupant := putItem(t, d, stone.ID, 5, model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 0))
	tx = store.Begin(d.Boxes)
	c, _ := container.Open(tx, containerTables(d), model.ContainerKindWoodenStorageBox, store.ID(boxID))
	c.SetSlot(0, occupant, stone.ID)
	tx.Commit()

	source := putItem(t, d, wood.ID, 50, model.InInventory("alice", 0))

	tx = BeginMove(d)
	_, err := Split(tx, d, cat, source, 20, model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 0))
	tx.Done(&err)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("expected Conflict, got %v", err)
	}

	// Rollback must have left the source stack untouched.
	remaining := getItemDirect(t, d, source)
	if remaining.Quantity != 50 {
		t.Fatalf("expected rollback to restore source quantity to 50, got %d", remaining.Quantity)
	}
}
