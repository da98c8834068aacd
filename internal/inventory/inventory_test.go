package inventory

import (
	"testing"

	"ashfall/internal/catalog"
	"ashfall/internal/container"
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

// putItem inserts an InventoryItem row directly (bypassing any reducer)
// so tests can set up arbitrary starting states.
func putItem(t *testing.T, d *db.Database, defID model.ItemDefID, qty int, loc model.ItemLocation) model.InstanceID {
	t.Helper()
	tx := store.Begin(d.Items)
	id, _ := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
		return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: loc}
	})
	tx.Commit()
	return model.InstanceID(id)
}

// containerOpen opens the wooden storage box boxID under tx, failing the
// test if it doesn't exist.
func containerOpen(t *testing.T, tx *store.Tx, d *db.Database, boxID store.ID) (container.Container, bool) {
	t.Helper()
	c, ok := container.Open(tx, containerTables(d), model.ContainerKindWoodenStorageBox, boxID)
	if !ok {
		t.Fatalf("expected box %d to exist", boxID)
	}
	return c, ok
}

func getItemDirect(t *testing.T, d *db.Database, instance model.InstanceID) model.InventoryItem {
	t.Helper()
	tx := store.Begin(d.Items)
	defer tx.Commit()
	item, ok := store.Get(tx, d.Items, store.ID(instance))
	if !ok {
		t.Fatalf("instance %d not found", instance)
	}
	return item
}
