package reducer

import (
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/equipment"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
)

// ActivateHandItem implements the hand-item activation half of spec.md
// §4.3 (equip a tool/weapon into the caller's active hand slot).
func ActivateHandItem(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, instance model.InstanceID) (err error) {
	tx := equipment.Begin(d)
	defer tx.Done(&err)
	err = equipment.ActivateHandItem(tx, d, cat, ctx.Caller, instance)
	metrics.RecordReducerOp("activate_hand_item", err)
	return err
}

// ClearHandItem implements unequipping the caller's active hand item.
func ClearHandItem(d *db.Database, ctx ReducerCtx) (err error) {
	tx := equipment.Begin(d)
	defer tx.Done(&err)
	err = equipment.ClearHandItem(tx, d, ctx.Caller)
	metrics.RecordReducerOp("clear_hand_item", err)
	return err
}

// EquipArmor implements spec.md §4.3's armor-slot half.
func EquipArmor(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, instance model.InstanceID) (err error) {
	tx := equipment.Begin(d)
	defer tx.Done(&err)
	err = equipment.EquipArmor(tx, d, cat, ctx.Caller, instance)
	metrics.RecordReducerOp("equip_armor", err)
	return err
}
