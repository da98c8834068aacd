package inventory

import (
	"ashfall/internal/apperr"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// DropOffsetUnits is the fixed distance, in world units, a dropped item
// is placed ahead of the player along their facing direction (spec.md
// §4.2.7: "Compute a drop point from the player's facing direction and
// a fixed offset").
const DropOffsetUnits = 24.0

func facingDelta(facing model.FacingDirection) (dx, dy float64) {
	switch facing {
	case model.FacingUp:
		return 0, -1
	case model.FacingDown:
		return 0, 1
	case model.FacingLeft:
		return -1, 0
	case model.FacingRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// scheduleDespawn inserts the one-shot ScheduleDroppedItemDespawn row
// for a freshly created DroppedItem (spec.md §3.1's despawn timestamp).
func scheduleDespawn(tx *store.Tx, d *db.Database, dropID store.ID, now int64) {
	store.Insert(tx, d.Schedules, func(id store.ID) model.ScheduleRow {
		return model.ScheduleRow{ID: model.ScheduleID(id), FiresAt: now + model.DroppedItemDespawnSecs, Kind: model.ScheduleDroppedItemDespawn, TargetID: int64(dropID)}
	})
}

// Drop implements spec.md §4.2.7: drop a whole or partial stack to the
// world as a DroppedItem. Armor dropped from an equipped slot also
// clears that slot entry (§4.2.8).
func Drop(tx *store.Tx, d *db.Database, caller model.PlayerID, instance model.InstanceID, qty int, playerX, playerY float64, facing model.FacingDirection, now int64) (model.DroppedID, error) {
	item, err := getItem(tx, d, instance)
	if err != nil {
		return 0, err
	}
	if err := validateOwner(item.Location, caller); err != nil {
		return 0, err
	}
	if !item.Location.IsPlayerOwned() {
		return 0, apperr.New(apperr.InvalidLocation, "instance %d is not in a player-owned location", instance)
	}
	if qty < 1 || qty > item.Quantity {
		return 0, apperr.New(apperr.InvalidState, "drop quantity %d out of bounds for stack of %d", qty, item.Quantity)
	}

	dx, dy := facingDelta(facing)
	dropX := playerX + dx*DropOffsetUnits
	dropY := playerY + dy*DropOffsetUnits

	despawnAt := now + model.DroppedItemDespawnSecs
	dropID, _ := store.Insert(tx, d.Dropped, func(id store.ID) model.DroppedItem {
		return model.DroppedItem{ID: model.DroppedID(id), X: dropX, Y: dropY, DefinitionID: item.DefinitionID, Quantity: qty, DespawnAt: despawnAt}
	})
	scheduleDespawn(tx, d, dropID, now)

	originalLocation := item.Location
	if qty == item.Quantity {
		store.Delete(tx, d.Items, store.ID(instance))
	} else {
		item.Quantity -= qty
		store.Put(tx, d.Items, store.ID(instance), item)
	}
	store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
		return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: item.DefinitionID, Quantity: qty, Location: model.Dropped(model.DroppedID(dropID))}
	})

	if originalLocation.Kind == model.LocationEquipped {
		clearArmorSlotIfEquipped(tx, d, caller, instance)
	}
	clearEquipmentIfHand(tx, d, caller, instance)

	return model.DroppedID(dropID), nil
}

// DespawnDropped implements the ScheduleDroppedItemDespawn sweep (spec.md
// §3.1's despawn timestamp): removes a loose DroppedItem and its backing
// InventoryItem row from the world.
func DespawnDropped(tx *store.Tx, d *db.Database, dropID model.DroppedID) {
	row, ok := store.Get(tx, d.Dropped, store.ID(dropID))
	if !ok {
		return
	}
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.Location.Kind == model.LocationDropped && item.Location.Dropped == row.ID {
			store.Delete(tx, d.Items, id)
			return false
		}
		return true
	})
	store.Delete(tx, d.Dropped, store.ID(dropID))
}
