package crafting

import (
	"log"

	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/inventory"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// Tick implements spec.md §4.6's "Crafting finish | 1 s | Grant every
// queued item whose finish timestamp has passed": scans the whole queue
// once per call and grants output for every row whose EndsAt has
// arrived, deleting the row. A missing recipe or a grant that can't be
// placed is logged and skipped rather than aborting the rest of the
// tick (spec.md §7: "Tick handlers log and skip individual problematic
// rows rather than aborting the whole tick").
func Tick(tx *store.Tx, d *db.Database, cat *catalog.Catalog, now int64) {
	var due []model.CraftingQueueItem
	store.Range(tx, d.Queue, func(id store.ID, row model.CraftingQueueItem) bool {
		if row.EndsAt <= now {
			due = append(due, row)
		}
		return true
	})

	for _, row := range due {
		recipe, ok := cat.Recipe(row.RecipeID)
		if !ok {
			log.Printf("⚠️  crafting: queue row %d references unknown recipe %d, skipping", row.ID, row.RecipeID)
		} else if err := inventory.Grant(tx, d, cat, row.Owner, recipe.OutputDefID, recipe.OutputQuantity); err != nil {
			log.Printf("⚠️  crafting: granting recipe %d output to %s failed: %v, skipping", row.RecipeID, row.Owner, err)
		}
		store.Delete(tx, d.Queue, store.ID(row.ID))
	}
}
