package reducer

import (
	"ashfall/internal/catalog"
	"ashfall/internal/crafting"
	"ashfall/internal/db"
	"ashfall/internal/events"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
)

// StartCrafting implements spec.md §4.4's enqueue-one-job operation.
func StartCrafting(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, recipeID model.RecipeID) (queueID model.QueueID, err error) {
	tx := crafting.Begin(d)
	defer tx.Done(&err)
	queueID, err = crafting.Start(tx, d, cat, ctx.Caller, recipeID, ctx.Now)
	metrics.RecordReducerOp("start_crafting", err)
	if err == nil {
		ctx.emit(events.TypeCraftStarted, events.CraftPayload{PlayerID: ctx.Caller, RecipeID: recipeID, QueueID: queueID, Quantity: 1})
	}
	return queueID, err
}

// StartCraftingMultiple implements spec.md §4.4's batch-enqueue operation.
func StartCraftingMultiple(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, recipeID model.RecipeID, qty int) (queueID model.QueueID, err error) {
	tx := crafting.Begin(d)
	defer tx.Done(&err)
	queueID, err = crafting.StartMultiple(tx, d, cat, ctx.Caller, recipeID, qty, ctx.Now)
	metrics.RecordReducerOp("start_crafting_multiple", err)
	if err == nil {
		ctx.emit(events.TypeCraftStarted, events.CraftPayload{PlayerID: ctx.Caller, RecipeID: recipeID, QueueID: queueID, Quantity: qty})
	}
	return queueID, err
}

// CancelCraftingItem implements spec.md §4.4's single-job cancellation.
func CancelCraftingItem(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, queueID model.QueueID) (err error) {
	tx := crafting.Begin(d)
	defer tx.Done(&err)
	err = crafting.CancelItem(tx, d, cat, ctx.Caller, queueID)
	metrics.RecordReducerOp("cancel_crafting_item", err)
	if err == nil {
		ctx.emit(events.TypeCraftCancelled, events.CraftPayload{PlayerID: ctx.Caller, QueueID: queueID})
	}
	return err
}

// CancelAllCrafting implements spec.md §4.4's clear-the-whole-queue
// operation.
func CancelAllCrafting(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx) (err error) {
	tx := crafting.Begin(d)
	defer tx.Done(&err)
	crafting.CancelAll(tx, d, cat, ctx.Caller)
	metrics.RecordReducerOp("cancel_all_crafting", nil)
	ctx.emit(events.TypeCraftCancelled, events.CraftPayload{PlayerID: ctx.Caller})
	return nil
}
