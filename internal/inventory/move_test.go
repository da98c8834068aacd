package inventory

import (
	"testing"

	"ashfall/internal/apperr"
	"ashfall/internal/container"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func TestMoveToEmptyContainerSlot(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	tx := store.Begin(d.Boxes)
	boxID, _ := store.Insert(tx, d.Boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	instance := putItem(t, d, wood.ID, 10, model.InInventory("alice", 0))

	tx = BeginMove(d)
	err := MoveToContainer(tx, d, cat, "alice", instance, model.ContainerKindWoodenStorageBox, store.ID(boxID), 3)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("MoveToContainer: %v", err)
	}

	item := getItemDirect(t, d, instance)
	want := model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 3)
	if !item.Location.Equal(want) {
		t.Fatalf("expected location %+v, got %+v", want, item.Location)
	}
}

func TestMoveToContainerMergesCompatibleStack(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	tx := store.Begin(d.Boxes)
	boxID, _ := store.Insert(tx, d.Boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	occupant := putItem(t, d, wood.ID, 100, model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 0))
	tx = store.Begin(d.Boxes)
	c, _ := container.Open(tx, containerTables(d), model.ContainerKindWoodenStorageBox, store.ID(boxID))
	c.SetSlot(0, occupant, wood.ID)
	tx.Commit()

	instance := putItem(t, d, wood.ID, 10, model.InInventory("alice", 0))

	tx = BeginMove(d)
	err := MoveToContainer(tx, d, cat, "alice", instance, model.ContainerKindWoodenStorageBox, store.ID(boxID), 0)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("MoveToContainer: %v", err)
	}

	merged := getItemDirect(t, d, occupant)
	if merged.Quantity != 110 {
		t.Fatalf("expected merged quantity 110, got %d", merged.Quantity)
	}
}

func TestMoveToContainerRejectsOtherPlayersItem(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	tx := store.Begin(d.Boxes)
	boxID, _ := store.Insert(tx, d.Boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	instance := putItem(t, d, wood.ID, 10, model.InInventory("alice", 0))

	tx = BeginMove(d)
	err := MoveToContainer(tx, d, cat, "bob", instance, model.ContainerKindWoodenStorageBox, store.ID(boxID), 0)
	tx.Done(&err)
	if apperr.KindOf(err) != apperr.Unauthorized {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestMoveWithinContainerSwapsIncompatibleStacks(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	stone := mustItemByName(t, cat, "stone_material")

	tx := store.Begin(d.Boxes)
	boxID, _ := store.Insert(tx, d.Boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	woodInstance := putItem(t, d, wood.ID, 10, model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 0))
	stoneInstance := putItem(t, d, stone.ID, 5, model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 1))

	tx = store.Begin(d.Boxes)
	c, _ := container.Open(tx, containerTables(d), model.ContainerKindWoodenStorageBox, store.ID(boxID))
	c.SetSlot(0, woodInstance, wood.ID)
	c.SetSlot(1, stoneInstance, stone.ID)
	tx.Commit()

	tx = BeginMove(d)
	err := MoveWithinContainer(tx, d, cat, "alice", model.ContainerKindWoodenStorageBox, store.ID(boxID), 0, 1)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("MoveWithinContainer: %v", err)
	}

	wItem := getItemDirect(t, d, woodInstance)
	sItem := getItemDirect(t, d, stoneInstance)
	if wItem.Location.Slot != 1 || sItem.Location.Slot != 0 {
		t.Fatalf("expected swap, got wood slot=%d stone slot=%d", wItem.Location.Slot, sItem.Location.Slot)
	}
}

func TestMoveFromContainerToFreeHotbarSlot(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	tx := store.Begin(d.Boxes)
	boxID, _ := store.Insert(tx, d.Boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	instance := putItem(t, d, wood.ID, 10, model.InContainer(model.ContainerKindWoodenStorageBox, store.ID(boxID), 0))
	tx = store.Begin(d.Boxes)
	c, _ := container.Open(tx, containerTables(d), model.ContainerKindWoodenStorageBox, store.ID(boxID))
	c.SetSlot(0, instance, wood.ID)
	tx.Commit()

	tx = BeginMove(d)
	err := MoveFromContainer(tx, d, cat, "alice", instance, true, 2)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("MoveFromContainer: %v", err)
	}

	item := getItemDirect(t, d, instance)
	if item.Location.Kind != model.LocationHotbar || item.Location.Slot != 2 {
		t.Fatalf("expected hotbar slot 2, got %+v", item.Location)
	}
}

func TestMoveToContainerRejectsHiddenStashForNonOwner(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	tx := store.Begin(d.Stashes)
	stashID, _ := store.Insert(tx, d.Stashes, func(id store.ID) model.Stash {
		return model.Stash{ID: model.StashID(id), Owner: "alice", Hidden: true}
	})
	tx.Commit()

	instance := putItem(t, d, wood.ID, 10, model.InInventory("bob", 0))

	tx = BeginMove(d)
	err := MoveToContainer(tx, d, cat, "bob", instance, model.ContainerKindStash, store.ID(stashID), 0)
	tx.Done(&err)
	if apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestMoveToContainerAllowsOwnerIntoHiddenStash(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")

	tx := store.Begin(d.Stashes)
	stashID, _ := store.Insert(tx, d.Stashes, func(id store.ID) model.Stash {
		return model.Stash{ID: model.StashID(id), Owner: "alice", Hidden: true}
	})
	tx.Commit()

	instance := putItem(t, d, wood.ID, 10, model.InInventory("alice", 0))

	tx = BeginMove(d)
	err := MoveToContainer(tx, d, cat, "alice", instance, model.ContainerKindStash, store.ID(stashID), 0)
	tx.Done(&err)
	if err != nil {
		t.Fatalf("MoveToContainer: %v", err)
	}
}

func TestToggleStashVisibilityRejectsNonOwner(t *testing.T) {
	d, _ := newTestDB(t)

	tx := store.Begin(d.Stashes)
	stashID, _ := store.Insert(tx, d.Stashes, func(id store.ID) model.Stash {
		return model.Stash{ID: model.StashID(id), Owner: "alice"}
	})
	tx.Commit()

	tx = BeginMove(d)
	err := ToggleStashVisibility(tx, d, "bob", store.ID(stashID))
	tx.Done(&err)
	if apperr.KindOf(err) != apperr.Unauthorized {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestToggleStashVisibilityFlipsHidden(t *testing.T) {
	d, _ := newTestDB(t)

	tx := store.Begin(d.Stashes)
	stashID, _ := store.Insert(tx, d.Stashes, func(id store.ID) model.Stash {
		return model.Stash{ID: model.StashID(id), Owner: "alice"}
	})
	tx.Commit()

	tx = BeginMove(d)
	err := ToggleStashVisibility(tx, d, "alice", store.ID(stashID))
	tx.Done(&err)
	if err != nil {
		t.Fatalf("ToggleStashVisibility: %v", err)
	}

	tx = store.Begin(d.Stashes)
	stash, _ := store.Get(tx, d.Stashes, store.ID(stashID))
	tx.Commit()
	if !stash.Hidden {
		t.Fatal("expected stash to be hidden after toggle")
	}
}
