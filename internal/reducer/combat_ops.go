package reducer

import (
	"ashfall/internal/catalog"
	"ashfall/internal/combat"
	"ashfall/internal/config"
	"ashfall/internal/db"
	"ashfall/internal/events"
	"ashfall/internal/metrics"
)

// Attack implements spec.md §4.5's melee-swing operation: resolve the
// caller's active hand item against whatever it hits within range and
// facing, rolling damage/yield through ctx.Rng.
func Attack(d *db.Database, cat *catalog.Catalog, world config.WorldConfig, ctx ReducerCtx) (err error) {
	tx := combat.Begin(d)
	defer tx.Done(&err)
	err = combat.Attack(tx, d, cat, ctx.Rng, ctx.Caller, ctx.Now, world.Width, world.Height)
	metrics.RecordReducerOp("attack", err)
	if err == nil {
		ctx.emit(events.TypeAttack, events.DamagePayload{AttackerID: ctx.Caller})
	}
	return err
}
