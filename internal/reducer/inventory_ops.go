package reducer

import (
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/events"
	"ashfall/internal/inventory"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// MoveToContainer implements spec.md §4.2.2.
func MoveToContainer(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, instance model.InstanceID, kind model.ContainerKind, containerID store.ID, slot int) (err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	err = inventory.MoveToContainer(tx, d, cat, ctx.Caller, instance, kind, containerID, slot)
	metrics.RecordReducerOp("move_to_container", err)
	return err
}

// MoveFromContainer implements spec.md §4.2.3.
func MoveFromContainer(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, instance model.InstanceID, toHotbar bool, targetSlot int) (err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	err = inventory.MoveFromContainer(tx, d, cat, ctx.Caller, instance, toHotbar, targetSlot)
	metrics.RecordReducerOp("move_from_container", err)
	return err
}

// MoveWithinContainer implements spec.md §4.2.4.
func MoveWithinContainer(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, kind model.ContainerKind, containerID store.ID, sourceSlot, targetSlot int) (err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	err = inventory.MoveWithinContainer(tx, d, cat, ctx.Caller, kind, containerID, sourceSlot, targetSlot)
	metrics.RecordReducerOp("move_within_container", err)
	return err
}

// ToggleStashVisibility implements SPEC_FULL.md §4.10: only the owning
// player may flip a Stash's hidden flag.
func ToggleStashVisibility(d *db.Database, ctx ReducerCtx, stashID store.ID) (err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	err = inventory.ToggleStashVisibility(tx, d, ctx.Caller, stashID)
	metrics.RecordReducerOp("toggle_stash_visibility", err)
	return err
}

// Split implements spec.md §4.2.5.
func Split(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, sourceInstance model.InstanceID, qty int, target model.ItemLocation) (newInstance model.InstanceID, err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	newInstance, err = inventory.Split(tx, d, cat, sourceInstance, qty, target)
	metrics.RecordReducerOp("split", err)
	return newInstance, err
}

// QuickMoveIntoContainer implements spec.md §4.2.6's "into container" half.
func QuickMoveIntoContainer(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, instance model.InstanceID, kind model.ContainerKind, containerID store.ID) (err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	err = inventory.QuickMoveIntoContainer(tx, d, cat, ctx.Caller, instance, kind, containerID)
	metrics.RecordReducerOp("quick_move_into_container", err)
	return err
}

// QuickMoveOutOfContainer implements spec.md §4.2.6's "out of container"
// half.
func QuickMoveOutOfContainer(d *db.Database, ctx ReducerCtx, instance model.InstanceID) (err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	err = inventory.QuickMoveOutOfContainer(tx, d, ctx.Caller, instance)
	metrics.RecordReducerOp("quick_move_out_of_container", err)
	return err
}

// Drop implements spec.md §4.2.7.
func Drop(d *db.Database, ctx ReducerCtx, instance model.InstanceID, qty int, playerX, playerY float64, facing model.FacingDirection) (dropID model.DroppedID, err error) {
	tx := inventory.BeginMove(d)
	defer tx.Done(&err)
	dropID, err = inventory.Drop(tx, d, ctx.Caller, instance, qty, playerX, playerY, facing, ctx.Now)
	metrics.RecordReducerOp("drop", err)
	if err == nil {
		ctx.emit(events.TypeItemDropped, events.ItemMovePayload{PlayerID: ctx.Caller, Instance: instance, Quantity: qty})
	}
	return dropID, err
}
