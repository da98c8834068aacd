package inventory

import (
	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// Grant adds qty units of defID to owner's inventory, "with the same
// stacking rules" as every other item-creation path (spec.md §4.4
// harvest dispatch: "grant the rolled yield to attacker (add to
// inventory with the same stacking rules)"). Grounded on
// QuickMoveOutOfContainer's "scan occupied player slots, hotbar before
// inventory" pass, generalized here to first prefer topping up an
// existing compatible stack before falling back to an empty slot.
func Grant(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, defID model.ItemDefID, qty int) error {
	if qty <= 0 {
		return nil
	}
	def, ok := cat.Item(defID)
	if !ok {
		return apperr.New(apperr.NotFound, "item definition %d", defID)
	}

	bySlot := make(map[model.ItemLocation]model.InventoryItem)
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Owner == owner && row.Location.IsPlayerOwned() {
			bySlot[row.Location] = row
		}
		return true
	})

	remaining := qty
	if def.Stackable {
		for _, loc := range playerSlotsHotbarFirst(owner) {
			if remaining <= 0 {
				break
			}
			existing, occupied := bySlot[loc]
			if !occupied || existing.DefinitionID != defID || existing.Quantity >= def.MaxStackSize {
				continue
			}
			room := def.MaxStackSize - existing.Quantity
			add := remaining
			if add > room {
				add = room
			}
			existing.Quantity += add
			store.Put(tx, d.Items, store.ID(existing.InstanceID), existing)
			remaining -= add
		}
	}

	for remaining > 0 {
		loc, found := firstFreeSlot(bySlot, owner)
		if !found {
			return apperr.New(apperr.Full, "player %s has no free slot to receive item %d", owner, defID)
		}
		qtyThisStack := remaining
		if def.Stackable && qtyThisStack > def.MaxStackSize {
			qtyThisStack = def.MaxStackSize
		}
		if !def.Stackable {
			qtyThisStack = 1
		}
		id, row := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
			return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qtyThisStack, Location: loc}
		})
		bySlot[loc] = row
		_ = id
		remaining -= qtyThisStack
	}
	return nil
}

func playerSlotsHotbarFirst(owner model.PlayerID) []model.ItemLocation {
	locs := make([]model.ItemLocation, 0, model.HotbarSlotCount+model.InventorySlotCount)
	for slot := 0; slot < model.HotbarSlotCount; slot++ {
		locs = append(locs, model.InHotbar(owner, slot))
	}
	for slot := 0; slot < model.InventorySlotCount; slot++ {
		locs = append(locs, model.InInventory(owner, slot))
	}
	return locs
}

func firstFreeSlot(occupied map[model.ItemLocation]model.InventoryItem, owner model.PlayerID) (model.ItemLocation, bool) {
	for _, loc := range playerSlotsHotbarFirst(owner) {
		if _, taken := occupied[loc]; !taken {
			return loc, true
		}
	}
	return model.ItemLocation{}, false
}
