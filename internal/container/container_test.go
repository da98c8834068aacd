package container

import (
	"testing"

	"ashfall/internal/model"
	"ashfall/internal/store"
)

func newTestTables() (Tables, *store.Table[model.WoodenStorageBox]) {
	boxes := store.NewTable[model.WoodenStorageBox]("boxes")
	return Tables{
		Campfires: store.NewTable[model.Campfire]("campfires"),
		Boxes:     boxes,
		Stashes:   store.NewTable[model.Stash]("stashes"),
		Corpses:   store.NewTable[model.PlayerCorpse]("corpses"),
	}, boxes
}

func TestOpenAndSetSlotRoundTrips(t *testing.T) {
	tables, boxes := newTestTables()

	tx := store.Begin(boxes)
	id, _ := store.Insert(tx, boxes, func(id store.ID) model.WoodenStorageBox {
		return model.WoodenStorageBox{ID: model.BoxID(id)}
	})
	tx.Commit()

	tx = store.Begin(boxes)
	c, ok := Open(tx, tables, model.ContainerKindWoodenStorageBox, id)
	if !ok {
		t.Fatal("expected to open the box")
	}
	if c.SlotCount() != model.WoodenStorageBoxSlotCount {
		t.Fatalf("unexpected slot count %d", c.SlotCount())
	}
	c.SetSlot(0, 7, 3)
	tx.Commit()

	tx = store.Begin(boxes)
	c, _ = Open(tx, tables, model.ContainerKindWoodenStorageBox, id)
	if c.Instance(0) != 7 || c.Definition(0) != 3 {
		t.Fatalf("expected slot 0 to persist (7,3), got (%d,%d)", c.Instance(0), c.Definition(0))
	}
	tx.Commit()
}

func TestFindAndClearInstance(t *testing.T) {
	tables, boxes := newTestTables()
	tx := store.Begin(boxes)
	id, _ := store.Insert(tx, boxes, func(id store.ID) model.WoodenStorageBox {
		row := model.WoodenStorageBox{ID: model.BoxID(id)}
		row.Instances[5] = 42
		row.Definitions[5] = 9
		return row
	})
	tx.Commit()

	tx = store.Begin(boxes)
	c, _ := Open(tx, tables, model.ContainerKindWoodenStorageBox, id)
	slot, found := FindInstance(c, 42)
	if !found || slot != 5 {
		t.Fatalf("expected to find instance 42 at slot 5, got slot=%d found=%v", slot, found)
	}
	ClearInstance(c, 42)
	tx.Commit()

	tx = store.Begin(boxes)
	c, _ = Open(tx, tables, model.ContainerKindWoodenStorageBox, id)
	if _, found := FindInstance(c, 42); found {
		t.Fatal("expected instance 42 to be cleared")
	}
	tx.Commit()
}

func TestOpenUnknownIDReturnsFalse(t *testing.T) {
	tables, boxes := newTestTables()
	tx := store.Begin(boxes)
	defer tx.Commit()
	if _, ok := Open(tx, tables, model.ContainerKindWoodenStorageBox, 999); ok {
		t.Fatal("expected Open to fail for unknown id")
	}
}
