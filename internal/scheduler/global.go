package scheduler

import (
	"ashfall/internal/combat"
	"ashfall/internal/corpse"
	"ashfall/internal/db"
	"ashfall/internal/inventory"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// GlobalTick implements spec.md §4.6's Global stream: advances
// WorldState's time-of-day clock and sweeps due one-shot schedule rows
// (resource respawn, corpse despawn, dropped-item despawn). Returns the
// ambient warmth base rate the vitals stream should apply this step.
func GlobalTick(tx *store.Tx, d *db.Database, elapsedSecs float64, now int64) float64 {
	world, _ := store.GetKeyed(tx, d.World, db.WorldKey)
	world, warmthRate := advanceWorldClock(world, elapsedSecs)
	store.PutKeyed(tx, d.World, db.WorldKey, world)

	var due []model.ScheduleRow
	store.Range(tx, d.Schedules, func(id store.ID, row model.ScheduleRow) bool {
		if row.FiresAt <= now && (row.Kind == model.ScheduleResourceRespawn || row.Kind == model.ScheduleCorpseDespawn || row.Kind == model.ScheduleDroppedItemDespawn) {
			due = append(due, row)
		}
		return true
	})

	for _, row := range due {
		switch row.Kind {
		case model.ScheduleResourceRespawn:
			combat.RespawnResource(tx, d, model.ResourceID(row.TargetID))
		case model.ScheduleCorpseDespawn:
			corpse.Despawn(tx, d, model.CorpseID(row.TargetID))
		case model.ScheduleDroppedItemDespawn:
			inventory.DespawnDropped(tx, d, model.DroppedID(row.TargetID))
		}
		store.Delete(tx, d.Schedules, store.ID(row.ID))
	}

	return warmthRate
}
