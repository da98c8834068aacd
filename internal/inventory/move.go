package inventory

import (
	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/container"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// containerTables adapts a *db.Database to the subset of tables
// container.Open needs.
func containerTables(d *db.Database) container.Tables {
	return container.Tables{
		Campfires: d.Campfires,
		Boxes:     d.Boxes,
		Stashes:   d.Stashes,
		Corpses:   d.Corpses,
	}
}

// lockSet returns every table a full inventory move might touch, for
// callers building a store.Tx with store.Begin. Reducers pass this
// fixed, generous set rather than computing a minimal one per call —
// spec.md §5 only requires deadlock-freedom (guaranteed by Tx's sorted
// lock order) and the in-memory tables are cheap enough to over-lock.
func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Players, d.Equipment, d.Items, d.Campfires, d.Boxes, d.Stashes, d.Corpses, d.Dropped, d.Schedules}
}

// BeginMove starts a Tx over every table an inventory/container move can
// touch.
func BeginMove(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

func getItem(tx *store.Tx, d *db.Database, instance model.InstanceID) (model.InventoryItem, error) {
	item, ok := store.Get(tx, d.Items, store.ID(instance))
	if !ok {
		return model.InventoryItem{}, apperr.New(apperr.NotFound, "item instance %d", instance)
	}
	return item, nil
}

// checkStashVisible implements SPEC_FULL.md §4.10: a hidden Stash rejects
// any interaction reducer targeting it from anyone but its owner.
// Non-Stash containers and visible Stashes are always allowed through.
func checkStashVisible(tx *store.Tx, d *db.Database, caller model.PlayerID, kind model.ContainerKind, containerID store.ID) error {
	if kind != model.ContainerKindStash {
		return nil
	}
	stash, ok := store.Get(tx, d.Stashes, containerID)
	if !ok {
		return apperr.New(apperr.NotFound, "stash %d", containerID)
	}
	if stash.Hidden && stash.Owner != caller {
		return apperr.New(apperr.InvalidState, "stash %d is hidden", containerID)
	}
	return nil
}

// clearEquipmentIfHand clears ActiveEquipment.HandItem if it currently
// points at instance (spec.md §4.2.2 step 4 / §4.2.8).
func clearEquipmentIfHand(tx *store.Tx, d *db.Database, owner model.PlayerID, instance model.InstanceID) {
	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		return
	}
	if equip.HandItem == instance {
		equip.HandItem = 0
		store.PutKeyed(tx, d.Equipment, owner, equip)
	}
}

// clearArmorSlotIfEquipped clears the ActiveEquipment armor slot entry
// that currently points at instance, if any (spec.md §4.2.8).
func clearArmorSlotIfEquipped(tx *store.Tx, d *db.Database, owner model.PlayerID, instance model.InstanceID) {
	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		return
	}
	changed := false
	for i, v := range equip.ArmorSlots {
		if v == instance {
			equip.ArmorSlots[i] = 0
			changed = true
		}
	}
	if changed {
		store.PutKeyed(tx, d.Equipment, owner, equip)
	}
}

// MoveToContainer implements spec.md §4.2.2: move a player-owned item
// (inventory/hotbar/equipped) into a specific container slot.
func MoveToContainer(tx *store.Tx, d *db.Database, cat *catalog.Catalog, caller model.PlayerID, instance model.InstanceID, kind model.ContainerKind, containerID store.ID, slot int) error {
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
	if slot < 0 || slot >= c.SlotCount() {
		return apperr.New(apperr.InvalidSlot, "slot %d out of bounds for %s", slot, kind)
	}

	originalLocation := item.Location
	targetInstance := c.Instance(slot)

	if targetInstance == 0 {
		// Empty slot: straightforward placement.
		item.Location = model.InContainer(kind, containerID, slot)
		store.Put(tx, d.Items, store.ID(instance), item)
		c.SetSlot(slot, instance, item.DefinitionID)
		finishMoveAway(tx, d, caller, instance, originalLocation)
		return nil
	}

	// Occupied: attempt merge, else swap.
	occupant, err := getItem(tx, d, targetInstance)
	if err != nil {
		return err
	}
	def, _ := cat.Item(item.DefinitionID)
	newSource, newTarget, consumed, merged := CalculateMerge(item, occupant, def)
	if merged {
		if consumed {
			store.Delete(tx, d.Items, store.ID(instance))
		} else {
			newSource.Location = originalLocation
			store.Put(tx, d.Items, store.ID(instance), newSource)
		}
		store.Put(tx, d.Items, store.ID(targetInstance), newTarget)
		if consumed {
			finishMoveAway(tx, d, caller, instance, originalLocation)
		}
		return nil
	}

	// Swap: occupant takes source's original location, source takes slot.
	occupant.Location = originalLocation
	item.Location = model.InContainer(kind, containerID, slot)
	store.Put(tx, d.Items, store.ID(targetInstance), occupant)
	store.Put(tx, d.Items, store.ID(instance), item)
	c.SetSlot(slot, instance, item.DefinitionID)
	writeBackOccupant(tx, d, caller, originalLocation, targetInstance)
	finishMoveAway(tx, d, caller, instance, originalLocation)
	return nil
}

// finishMoveAway clears whichever side-table referenced instance at its
// pre-move location (spec.md §4.2.2 step 4, §4.2.8).
func finishMoveAway(tx *store.Tx, d *db.Database, owner model.PlayerID, instance model.InstanceID, was model.ItemLocation) {
	if was.Kind == model.LocationEquipped {
		clearArmorSlotIfEquipped(tx, d, owner, instance)
	}
	clearEquipmentIfHand(tx, d, owner, instance)
}

// writeBackOccupant restores the swapped-out occupant into the vacated
// player-owned slot's side tables (ActiveEquipment armor slot) when the
// original location was Equipped.
func writeBackOccupant(tx *store.Tx, d *db.Database, owner model.PlayerID, was model.ItemLocation, occupantInstance model.InstanceID) {
	if was.Kind != model.LocationEquipped {
		return
	}
	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		equip = model.ActiveEquipment{Owner: owner}
	}
	equip.ArmorSlots[was.ArmorSlot] = occupantInstance
	store.PutKeyed(tx, d.Equipment, owner, equip)
}

// MoveFromContainer implements spec.md §4.2.3: move an item out of a
// container slot into a specific inventory or hotbar slot.
func MoveFromContainer(tx *store.Tx, d *db.Database, cat *catalog.Catalog, caller model.PlayerID, instance model.InstanceID, toHotbar bool, targetSlot int) error {
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

	c, ok := container.Open(tx, containerTables(d), item.Location.ContainerKind, item.Location.ContainerID)
	if !ok {
		return apperr.New(apperr.NotFound, "container %s:%d", item.Location.ContainerKind, item.Location.ContainerID)
	}

	var newLoc model.ItemLocation
	if toHotbar {
		if targetSlot < 0 || targetSlot >= model.HotbarSlotCount {
			return apperr.New(apperr.InvalidSlot, "hotbar slot %d out of bounds", targetSlot)
		}
		newLoc = model.InHotbar(caller, targetSlot)
	} else {
		if targetSlot < 0 || targetSlot >= model.InventorySlotCount {
			return apperr.New(apperr.InvalidSlot, "inventory slot %d out of bounds", targetSlot)
		}
		newLoc = model.InInventory(caller, targetSlot)
	}

	// Find whatever currently occupies the target player slot, if any.
	var occupant model.InventoryItem
	var occupantFound bool
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Equal(newLoc) {
			occupant, occupantFound = row, true
			return false
		}
		return true
	})

	originalSlot, _ := container.FindInstance(c, instance)
	originalLoc := item.Location

	if !occupantFound {
		item.Location = newLoc
		store.Put(tx, d.Items, store.ID(instance), item)
		c.SetSlot(originalSlot, 0, 0)
		return nil
	}

	def, _ := cat.Item(item.DefinitionID)
	newSource, newTarget, consumed, merged := CalculateMerge(item, occupant, def)
	if merged {
		if consumed {
			store.Delete(tx, d.Items, store.ID(instance))
			c.SetSlot(originalSlot, 0, 0)
		} else {
			newSource.Location = originalLoc
			store.Put(tx, d.Items, store.ID(instance), newSource)
			c.SetSlot(originalSlot, instance, newSource.DefinitionID)
		}
		store.Put(tx, d.Items, store.ID(occupant.InstanceID), newTarget)
		return nil
	}

	// Swap: occupant goes into the vacated container slot.
	occupant.Location = originalLoc
	item.Location = newLoc
	store.Put(tx, d.Items, store.ID(occupant.InstanceID), occupant)
	store.Put(tx, d.Items, store.ID(instance), item)
	c.SetSlot(originalSlot, occupant.InstanceID, occupant.DefinitionID)
	return nil
}

// ToggleStashVisibility implements SPEC_FULL.md §4.10: flips a Stash's
// Hidden flag; only the stash's owner may do so.
func ToggleStashVisibility(tx *store.Tx, d *db.Database, caller model.PlayerID, stashID store.ID) error {
	stash, ok := store.Get(tx, d.Stashes, stashID)
	if !ok {
		return apperr.New(apperr.NotFound, "stash %d", stashID)
	}
	if stash.Owner != caller {
		return apperr.New(apperr.Unauthorized, "player %s does not own stash %d", caller, stashID)
	}
	stash.Hidden = !stash.Hidden
	store.Put(tx, d.Stashes, stashID, stash)
	return nil
}

// MoveWithinContainer implements spec.md §4.2.4: source and target are
// slots in the same container; merge if possible, else swap.
func MoveWithinContainer(tx *store.Tx, d *db.Database, cat *catalog.Catalog, caller model.PlayerID, kind model.ContainerKind, containerID store.ID, sourceSlot, targetSlot int) error {
	if err := checkStashVisible(tx, d, caller, kind, containerID); err != nil {
		return err
	}
	c, ok := container.Open(tx, containerTables(d), kind, containerID)
	if !ok {
		return apperr.New(apperr.NotFound, "container %s:%d", kind, containerID)
	}
	if sourceSlot < 0 || sourceSlot >= c.SlotCount() || targetSlot < 0 || targetSlot >= c.SlotCount() {
		return apperr.New(apperr.InvalidSlot, "slot out of bounds for %s", kind)
	}
	sourceInstance := c.Instance(sourceSlot)
	if sourceInstance == 0 {
		return apperr.New(apperr.InvalidLocation, "source slot %d is empty", sourceSlot)
	}
	targetInstance := c.Instance(targetSlot)

	source, err := getItem(tx, d, sourceInstance)
	if err != nil {
		return err
	}

	if targetInstance == 0 {
		source.Location = model.InContainer(kind, containerID, targetSlot)
		store.Put(tx, d.Items, store.ID(sourceInstance), source)
		c.SetSlot(targetSlot, sourceInstance, source.DefinitionID)
		c.SetSlot(sourceSlot, 0, 0)
		return nil
	}

	target, err := getItem(tx, d, targetInstance)
	if err != nil {
		return err
	}
	def, _ := cat.Item(source.DefinitionID)
	newSource, newTarget, consumed, merged := CalculateMerge(source, target, def)
	if merged {
		store.Put(tx, d.Items, store.ID(targetInstance), newTarget)
		if consumed {
			store.Delete(tx, d.Items, store.ID(sourceInstance))
			c.SetSlot(sourceSlot, 0, 0)
		} else {
			newSource.Location = model.InContainer(kind, containerID, sourceSlot)
			store.Put(tx, d.Items, store.ID(sourceInstance), newSource)
		}
		return nil
	}

	// Swap both locations and both parallel array entries.
	source.Location = model.InContainer(kind, containerID, targetSlot)
	target.Location = model.InContainer(kind, containerID, sourceSlot)
	store.Put(tx, d.Items, store.ID(sourceInstance), source)
	store.Put(tx, d.Items, store.ID(targetInstance), target)
	c.SetSlot(targetSlot, sourceInstance, source.DefinitionID)
	c.SetSlot(sourceSlot, targetInstance, target.DefinitionID)
	return nil
}
