package inventory

import (
	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/container"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// QuickMoveIntoContainer implements spec.md §4.2.6's "into container"
// half and the Open Question resolution recorded in SPEC_FULL.md/
// DESIGN.md: a single ascending-slot-index scan that prefers the first
// partial-stack-of-the-same-definition match over the first empty slot,
// rather than two separate passes.
func QuickMoveIntoContainer(tx *store.Tx, d *db.Database, cat *catalog.Catalog, caller model.PlayerID, instance model.InstanceID, kind model.ContainerKind, containerID store.ID) error {
	item, err := getItem(tx, d, instance)
	if err != nil {
		return err
	}
	if err := validateOwner(item.Location, caller); err != nil {
		return err
	}
	if !item.Location.IsPlayerOwned() {
		return apperr.New(apperr.InvalidLocation, "instance %d is not in a player-owned location", instance)
	}
	if err := checkStashVisible(tx, d, caller, kind, containerID); err != nil {
		return err
	}

	c, ok := container.Open(tx, containerTables(d), kind, containerID)
	if !ok {
		return apperr.New(apperr.NotFound, "container %s:%d", kind, containerID)
	}
	def, _ := cat.Item(item.DefinitionID)

	firstEmpty := -1
	for slot := 0; slot < c.SlotCount(); slot++ {
		occupantInstance := c.Instance(slot)
		if occupantInstance == 0 {
			if firstEmpty == -1 {
				firstEmpty = slot
			}
			continue
		}
		if c.Definition(slot) != item.DefinitionID {
			continue
		}
		occupant, err := getItem(tx, d, occupantInstance)
		if err != nil {
			continue
		}
		if !def.Stackable || occupant.Quantity >= def.MaxStackSize {
			continue
		}
		// First matching partial stack in ascending slot order wins.
		newSource, newTarget, consumed, merged := CalculateMerge(item, occupant, def)
		if !merged {
			continue
		}
		originalLocation := item.Location
		store.Put(tx, d.Items, store.ID(occupantInstance), newTarget)
		if consumed {
			store.Delete(tx, d.Items, store.ID(instance))
		} else {
			newSource.Location = originalLocation
			store.Put(tx, d.Items, store.ID(instance), newSource)
		}
		finishMoveAway(tx, d, caller, instance, originalLocation)
		return nil
	}

	if firstEmpty == -1 {
		return apperr.New(apperr.Full, "container %s:%d has no empty slot", kind, containerID)
	}
	originalLocation := item.Location
	item.Location = model.InContainer(kind, containerID, firstEmpty)
	store.Put(tx, d.Items, store.ID(instance), item)
	c.SetSlot(firstEmpty, instance, item.DefinitionID)
	finishMoveAway(tx, d, caller, instance, originalLocation)
	return nil
}

// QuickMoveOutOfContainer implements spec.md §4.2.6's "out of container"
// half: first empty player slot, hotbar preferred over inventory.
func QuickMoveOutOfContainer(tx *store.Tx, d *db.Database, caller model.PlayerID, instance model.InstanceID) error {
	item, err := getItem(tx, d, instance)
	if err != nil {
		return err
	}
	if item.Location.Kind != model.LocationContainer {
		return apperr.New(apperr.InvalidLocation, "instance %d is not in a container", instance)
	}
	if err := checkStashVisible(tx, d, caller, item.Location.ContainerKind, item.Location.ContainerID); err != nil {
		return err
	}

	occupied := make(map[model.ItemLocation]bool)
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Owner == caller && row.Location.IsPlayerOwned() {
			occupied[row.Location] = true
		}
		return true
	})

	var target model.ItemLocation
	found := false
	for slot := 0; slot < model.HotbarSlotCount; slot++ {
		loc := model.InHotbar(caller, slot)
		if !occupied[loc] {
			target, found = loc, true
			break
		}
	}
	if !found {
		for slot := 0; slot < model.InventorySlotCount; slot++ {
			loc := model.InInventory(caller, slot)
			if !occupied[loc] {
				target, found = loc, true
				break
			}
		}
	}
	if !found {
		return apperr.New(apperr.Full, "player %s has no free inventory/hotbar slot", caller)
	}

	c, ok := container.Open(tx, containerTables(d), item.Location.ContainerKind, item.Location.ContainerID)
	if !ok {
		return apperr.New(apperr.NotFound, "container %s:%d", item.Location.ContainerKind, item.Location.ContainerID)
	}
	slot, _ := container.FindInstance(c, instance)
	c.SetSlot(slot, 0, 0)
	item.Location = target
	store.Put(tx, d.Items, store.ID(instance), item)
	return nil
}
