// Package inventory implements spec.md §4.2's inventory operations — the
// "hardest single subsystem": merge, move to/from/within a container,
// split, quick-move, drop, and the side-table clearing every one of them
// must perform to hold invariants L1-L4. Every operation here is written
// once against the container.Container capability set (spec.md §4.1) and
// a player's directly-addressed Inventory/Hotbar/Equipped locations.
package inventory

import (
	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/model"
)

// CalculateMerge implements spec.md §4.2.1: given a mutable source item
// and a target item of the same stackable definition, transfer as much
// quantity from source to target as the target's stack size allows.
// Returns the updated (source, target) values and whether the source
// was fully consumed (source.Quantity reached 0, so the caller must
// delete its row rather than Put it). ok is false if the merge is not
// applicable at all (different definitions, non-stackable, or target
// already full) — callers fall back to swap on !ok.
func CalculateMerge(source, target model.InventoryItem, def catalog.ItemDefinition) (newSource, newTarget model.InventoryItem, sourceConsumed, ok bool) {
	if source.DefinitionID != target.DefinitionID {
		return source, target, false, false
	}
	if !def.Stackable {
		return source, target, false, false
	}
	room := def.MaxStackSize - target.Quantity
	if room <= 0 {
		return source, target, false, false
	}
	transfer := source.Quantity
	if room < transfer {
		transfer = room
	}
	source.Quantity -= transfer
	target.Quantity += transfer
	return source, target, source.Quantity == 0, true
}

// validateOwner checks the caller is the owner of a player-owned
// location (spec.md §4.2.2 step 1: "Validate sender owns the item via
// its current location's owner field. Equipped items are allowed as
// source."). Non-player-owned locations (container, dropped) have no
// owner field to check and always pass.
func validateOwner(loc model.ItemLocation, caller model.PlayerID) error {
	if loc.IsPlayerOwned() && loc.Owner != caller {
		return apperr.New(apperr.Unauthorized, "caller %s does not own item at %+v", caller, loc)
	}
	return nil
}
