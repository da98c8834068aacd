package inventory

import (
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// HasQuantity reports whether owner holds at least qty units of defID
// across every player-owned stack, without mutating anything. Callers
// that must check several ingredients atomically (spec.md §4.2.5-style
// "decide the transition, then write all affected rows") call this for
// each ingredient before calling Consume for any of them.
func HasQuantity(tx *store.Tx, d *db.Database, owner model.PlayerID, defID model.ItemDefID, qty int) bool {
	return countOwned(tx, d, owner, defID) >= qty
}

func countOwned(tx *store.Tx, d *db.Database, owner model.PlayerID, defID model.ItemDefID) int {
	total := 0
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Owner == owner && row.Location.IsPlayerOwned() && row.DefinitionID == defID {
			total += row.Quantity
		}
		return true
	})
	return total
}

// Consume removes qty units of defID from owner's player-owned stacks,
// draining the lowest-instance-id stacks first for determinism. Returns
// false (no mutation) if owner doesn't hold enough — callers must check
// every ingredient's availability before consuming any of them, so a
// multi-ingredient recipe never partially consumes.
func Consume(tx *store.Tx, d *db.Database, owner model.PlayerID, defID model.ItemDefID, qty int) bool {
	if qty <= 0 {
		return true
	}
	var rows []model.InventoryItem
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Owner == owner && row.Location.IsPlayerOwned() && row.DefinitionID == defID {
			rows = append(rows, row)
		}
		return true
	})
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].InstanceID < rows[j-1].InstanceID; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}

	total := 0
	for _, row := range rows {
		total += row.Quantity
	}
	if total < qty {
		return false
	}

	remaining := qty
	for _, row := range rows {
		if remaining <= 0 {
			break
		}
		if row.Quantity <= remaining {
			remaining -= row.Quantity
			store.Delete(tx, d.Items, store.ID(row.InstanceID))
		} else {
			row.Quantity -= remaining
			remaining = 0
			store.Put(tx, d.Items, store.ID(row.InstanceID), row)
		}
	}
	return true
}
