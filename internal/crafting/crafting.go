// Package crafting implements spec.md §4.2.5/§6's per-player crafting
// queue: start one or many jobs (consuming ingredients immediately,
// sequencing finish times FIFO), cancel a single queued job or the whole
// queue with full-ingredient refund, and grant finished output on a
// recurring tick. Grounded on internal/effects' insert/cancel/tick shape
// (a table of timed rows consumed by a periodic tick plus explicit
// cancel helpers) adapted here for per-player sequential jobs instead of
// per-player concurrent status effects.
package crafting

import (
	"log"

	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/inventory"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Queue, d.Items, d.Schedules}
}

// Begin starts a Tx over every table a crafting operation can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// Start enqueues one crafting job (spec.md §6 start_crafting): all
// ingredients must be available across the player's stacks or nothing is
// consumed; on success the job's finish time is now plus the recipe's
// craft time, offset by whatever is already queued ahead of it (FIFO:
// "per-player FIFO with sequential finish times").
func Start(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, recipeID model.RecipeID, now int64) (model.QueueID, error) {
	return StartMultiple(tx, d, cat, owner, recipeID, 1, now)
}

// StartMultiple enqueues qty sequential jobs for the same recipe (spec.md
// §6 start_crafting_multiple). All qty jobs' ingredients must be
// available in total or none are consumed and none are enqueued (R4:
// "Cancel-all-crafting refunds ingredient quantities summing exactly to
// what start_crafting_multiple consumed" presupposes the same exactness
// on the consuming side).
func StartMultiple(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, recipeID model.RecipeID, qty int, now int64) (model.QueueID, error) {
	if qty <= 0 {
		return 0, apperr.New(apperr.InvalidState, "quantity must be positive")
	}
	recipe, ok := cat.Recipe(recipeID)
	if !ok {
		return 0, apperr.New(apperr.NotFound, "recipe %d", recipeID)
	}

	for _, ing := range recipe.Ingredients {
		if !inventory.HasQuantity(tx, d, owner, ing.DefID, ing.Quantity*qty) {
			return 0, apperr.New(apperr.InvalidState, "insufficient %q: need %d", ing.DefName, ing.Quantity*qty)
		}
	}
	for _, ing := range recipe.Ingredients {
		inventory.Consume(tx, d, owner, ing.DefID, ing.Quantity*qty)
	}

	finishAt := nextFinishTime(tx, d, owner, now)
	var lastID model.QueueID
	for i := 0; i < qty; i++ {
		finishAt += int64(recipe.CraftTimeSecs)
		id, _ := store.Insert(tx, d.Queue, func(id store.ID) model.CraftingQueueItem {
			return model.CraftingQueueItem{ID: model.QueueID(id), Owner: owner, RecipeID: recipeID, StartedAt: now, EndsAt: finishAt}
		})
		lastID = model.QueueID(id)
	}
	return lastID, nil
}

// nextFinishTime returns the latest EndsAt already queued for owner, or
// now if the queue is empty — the FIFO offset each new job's finish time
// sequences after.
func nextFinishTime(tx *store.Tx, d *db.Database, owner model.PlayerID, now int64) int64 {
	latest := now
	store.Range(tx, d.Queue, func(id store.ID, row model.CraftingQueueItem) bool {
		if row.Owner == owner && row.EndsAt > latest {
			latest = row.EndsAt
		}
		return true
	})
	return latest
}

// CancelItem implements spec.md §6 cancel_crafting_item: deletes the
// queued job and refunds its recipe's ingredients in full. Other queued
// jobs for the same player keep their originally assigned finish times
// (this implementation's choice: spec.md is silent on whether cancelling
// a mid-queue job re-sequences the jobs behind it, and renumbering would
// make an already-observed finish time move, which nothing else in this
// core does).
func CancelItem(tx *store.Tx, d *db.Database, cat *catalog.Catalog, caller model.PlayerID, queueID model.QueueID) error {
	row, ok := store.Get(tx, d.Queue, store.ID(queueID))
	if !ok {
		return apperr.New(apperr.NotFound, "crafting queue item %d", queueID)
	}
	if row.Owner != caller {
		return apperr.New(apperr.Unauthorized, "queue item %d is not owned by %s", queueID, caller)
	}
	refund(tx, d, cat, row)
	store.Delete(tx, d.Queue, store.ID(queueID))
	return nil
}

// CancelAll implements spec.md §6 cancel_all_crafting / §8 R4: deletes
// every queued job for caller, refunding each one's ingredients.
func CancelAll(tx *store.Tx, d *db.Database, cat *catalog.Catalog, caller model.PlayerID) {
	var toCancel []model.CraftingQueueItem
	store.Range(tx, d.Queue, func(id store.ID, row model.CraftingQueueItem) bool {
		if row.Owner == caller {
			toCancel = append(toCancel, row)
		}
		return true
	})
	for _, row := range toCancel {
		refund(tx, d, cat, row)
		store.Delete(tx, d.Queue, store.ID(row.ID))
	}
}

func refund(tx *store.Tx, d *db.Database, cat *catalog.Catalog, row model.CraftingQueueItem) {
	recipe, ok := cat.Recipe(row.RecipeID)
	if !ok {
		return
	}
	for _, ing := range recipe.Ingredients {
		if err := inventory.Grant(tx, d, cat, row.Owner, ing.DefID, ing.Quantity); err != nil {
			// spec.md §9 Open Question (same policy as combat harvest
			// grants): a refund that can't be placed is logged and
			// skipped, not a reason to keep the cancelled job queued.
			log.Printf("⚠️ crafting refund for %s not fully granted: %v", row.Owner, err)
		}
	}
}
