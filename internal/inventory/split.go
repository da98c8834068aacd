package inventory

import (
	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/container"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// Split implements spec.md §4.2.5: decrement sourceInstance by qty and
// insert a new item of that quantity at target, reusing merge rules when
// target is occupied. Per the spec, split never fully empties the source
// slot (qty < source.Quantity is required), so when target is occupied
// by an incompatible stack there is nowhere for a displaced occupant to
// go — that case returns Conflict rather than attempting a swap, and the
// caller's enclosing Tx rolls back the whole operation (spec.md §7's
// all-or-nothing policy), leaving the source's quantity untouched.
func Split(tx *store.Tx, d *db.Database, cat *catalog.Catalog, sourceInstance model.InstanceID, qty int, target model.ItemLocation) (model.InstanceID, error) {
	source, err := getItem(tx, d, sourceInstance)
	if err != nil {
		return 0, err
	}
	def, ok := cat.Item(source.DefinitionID)
	if !ok || !def.Stackable {
		return 0, apperr.New(apperr.Incompatible, "instance %d's definition is not stackable", sourceInstance)
	}
	if qty < 1 || qty >= source.Quantity {
		return 0, apperr.New(apperr.InvalidState, "split quantity %d out of bounds for stack of %d", qty, source.Quantity)
	}

	source.Quantity -= qty
	store.Put(tx, d.Items, store.ID(sourceInstance), source)

	switch target.Kind {
	case model.LocationContainer:
		return splitIntoContainer(tx, d, cat, source.DefinitionID, qty, target)
	case model.LocationInventory, model.LocationHotbar:
		return splitIntoPlayerSlot(tx, d, cat, source.DefinitionID, qty, target)
	default:
		return 0, apperr.New(apperr.InvalidLocation, "split target %+v is not a placeable location", target)
	}
}

func splitIntoContainer(tx *store.Tx, d *db.Database, cat *catalog.Catalog, defID model.ItemDefID, qty int, target model.ItemLocation) (model.InstanceID, error) {
	c, ok := container.Open(tx, containerTables(d), target.ContainerKind, target.ContainerID)
	if !ok {
		return 0, apperr.New(apperr.NotFound, "container %s:%d", target.ContainerKind, target.ContainerID)
	}
	if target.Slot < 0 || target.Slot >= c.SlotCount() {
		return 0, apperr.New(apperr.InvalidSlot, "slot %d out of bounds for %s", target.Slot, target.ContainerKind)
	}
	occupantInstance := c.Instance(target.Slot)
	if occupantInstance == 0 {
		id, row := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
			return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: target}
		})
		c.SetSlot(target.Slot, model.InstanceID(id), row.DefinitionID)
		return model.InstanceID(id), nil
	}

	occupant, err := getItem(tx, d, occupantInstance)
	if err != nil {
		return 0, err
	}
	def, _ := cat.Item(defID)
	if occupant.DefinitionID != defID || !def.Stackable || occupant.Quantity+qty > def.MaxStackSize {
		return 0, apperr.New(apperr.Conflict, "split target slot %d is occupied and incompatible", target.Slot)
	}
	occupant.Quantity += qty
	store.Put(tx, d.Items, store.ID(occupantInstance), occupant)
	return occupantInstance, nil
}

func splitIntoPlayerSlot(tx *store.Tx, d *db.Database, cat *catalog.Catalog, defID model.ItemDefID, qty int, target model.ItemLocation) (model.InstanceID, error) {
	var occupant model.InventoryItem
	var found bool
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Equal(target) {
			occupant, found = row, true
			return false
		}
		return true
	})

	if !found {
		id, _ := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
			return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: target}
		})
		return model.InstanceID(id), nil
	}

	def, _ := cat.Item(defID)
	if occupant.DefinitionID != defID || !def.Stackable || occupant.Quantity+qty > def.MaxStackSize {
		return 0, apperr.New(apperr.Conflict, "split target %+v is occupied and incompatible", target)
	}
	occupant.Quantity += qty
	store.Put(tx, d.Items, store.ID(occupant.InstanceID), occupant)
	return occupant.InstanceID, nil
}
