// Package equipment implements spec.md §4.3: the hand item and worn-armor
// side of a player's state, layered on top of internal/inventory's item
// movement primitives — grounded on fight-club-go's per-player stat
// aggregation (internal/game/player.go summing equipped-weapon modifiers)
// generalized here to armor resistance/warmth sums.
package equipment

import (
	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// lockSet is the table set an equipment operation may touch.
func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Players, d.Equipment, d.Items, d.Effects}
}

// Begin starts a Tx over every table an equipment operation can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// cancelBandageBurst deletes any in-progress BandageBurst effect row for
// owner (spec.md §4.3: "activating or clearing the hand item also cancels
// any in-progress BandageBurst effect").
func cancelBandageBurst(tx *store.Tx, d *db.Database, owner model.PlayerID) {
	var toDelete []store.ID
	store.Range(tx, d.Effects, func(id store.ID, row model.ActiveConsumableEffect) bool {
		if row.Owner == owner && row.Kind == model.EffectBandageBurst {
			toDelete = append(toDelete, id)
		}
		return true
	})
	for _, id := range toDelete {
		store.Delete(tx, d.Effects, id)
	}
}

// ActivateHandItem implements spec.md §4.3: the item must be in
// inventory/hotbar and be a non-armor tool; sets ActiveEquipment.HandItem
// and resets SwingStartAt, and cancels any in-progress BandageBurst.
func ActivateHandItem(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, instance model.InstanceID) error {
	item, ok := store.Get(tx, d.Items, store.ID(instance))
	if !ok {
		return apperr.New(apperr.NotFound, "item instance %d", instance)
	}
	if item.Location.Kind != model.LocationInventory && item.Location.Kind != model.LocationHotbar {
		return apperr.New(apperr.InvalidLocation, "instance %d is not in inventory or hotbar", instance)
	}
	if item.Location.Owner != owner {
		return apperr.New(apperr.Unauthorized, "caller %s does not own item %d", owner, instance)
	}
	def, ok := cat.Item(item.DefinitionID)
	if !ok {
		return apperr.New(apperr.InvalidState, "unknown item definition %d", item.DefinitionID)
	}
	if def.Category == catalog.CategoryArmor {
		return apperr.New(apperr.Incompatible, "armor cannot be activated as a hand item")
	}

	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		equip = model.ActiveEquipment{Owner: owner}
	}
	equip.HandItem = instance
	equip.SwingStartAt = 0
	store.PutKeyed(tx, d.Equipment, owner, equip)
	cancelBandageBurst(tx, d, owner)
	return nil
}

// ClearHandItem empties the hand slot, cancelling any in-progress
// BandageBurst exactly as activation does (spec.md §4.3).
func ClearHandItem(tx *store.Tx, d *db.Database, owner model.PlayerID) error {
	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok || equip.HandItem == 0 {
		return nil
	}
	equip.HandItem = 0
	store.PutKeyed(tx, d.Equipment, owner, equip)
	cancelBandageBurst(tx, d, owner)
	return nil
}

// EquipArmor moves an inventory/hotbar item into the armor slot matching
// its definition's ArmorSlot. If the slot is occupied, the occupant is
// bumped to the first empty inventory slot; if no inventory slot is free,
// the equip fails with Full (spec.md §4.3).
func EquipArmor(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, instance model.InstanceID) error {
	item, ok := store.Get(tx, d.Items, store.ID(instance))
	if !ok {
		return apperr.New(apperr.NotFound, "item instance %d", instance)
	}
	if item.Location.Kind != model.LocationInventory && item.Location.Kind != model.LocationHotbar {
		return apperr.New(apperr.InvalidLocation, "instance %d is not in inventory or hotbar", instance)
	}
	if item.Location.Owner != owner {
		return apperr.New(apperr.Unauthorized, "caller %s does not own item %d", owner, instance)
	}
	def, ok := cat.Item(item.DefinitionID)
	if !ok || def.Category != catalog.CategoryArmor {
		return apperr.New(apperr.Incompatible, "instance %d is not equippable armor", instance)
	}

	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		equip = model.ActiveEquipment{Owner: owner}
	}
	occupantInstance := equip.ArmorSlots[def.ArmorSlot]

	if occupantInstance != 0 {
		freeSlot, found := firstEmptyInventorySlot(tx, d, owner)
		if !found {
			return apperr.New(apperr.Full, "player %s has no free inventory slot to bump occupant armor", owner)
		}
		occupant, ok := store.Get(tx, d.Items, store.ID(occupantInstance))
		if ok {
			occupant.Location = model.InInventory(owner, freeSlot)
			store.Put(tx, d.Items, store.ID(occupantInstance), occupant)
		}
	}

	equip.ArmorSlots[def.ArmorSlot] = instance
	store.PutKeyed(tx, d.Equipment, owner, equip)

	item.Location = model.Equipped(owner, def.ArmorSlot)
	store.Put(tx, d.Items, store.ID(instance), item)
	return nil
}

func firstEmptyInventorySlot(tx *store.Tx, d *db.Database, owner model.PlayerID) (int, bool) {
	occupied := make([]bool, model.InventorySlotCount)
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Kind == model.LocationInventory && row.Location.Owner == owner {
			occupied[row.Location.Slot] = true
		}
		return true
	})
	for slot, taken := range occupied {
		if !taken {
			return slot, true
		}
	}
	return 0, false
}

// TotalDamageResistance sums damage_resistance across every worn armor
// piece, clamped to model.MaxResistance (spec.md §4.3, P7).
func TotalDamageResistance(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID) float64 {
	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		return 0
	}
	var total float64
	for _, instance := range equip.ArmorSlots {
		if instance == 0 {
			continue
		}
		item, ok := store.Get(tx, d.Items, store.ID(instance))
		if !ok {
			continue
		}
		def, ok := cat.Item(item.DefinitionID)
		if !ok {
			continue
		}
		total += def.DamageResistance
	}
	return model.ClampResistance(total)
}

// TotalWarmthBonus sums warmth_bonus across every worn armor piece, plain
// (unclamped) per spec.md §4.3.
func TotalWarmthBonus(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID) float64 {
	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		return 0
	}
	var total float64
	for _, instance := range equip.ArmorSlots {
		if instance == 0 {
			continue
		}
		item, ok := store.Get(tx, d.Items, store.ID(instance))
		if !ok {
			continue
		}
		def, ok := cat.Item(item.DefinitionID)
		if !ok {
			continue
		}
		total += def.WarmthBonus
	}
	return total
}
