package reducer

import (
	"ashfall/internal/catalog"
	"ashfall/internal/config"
	"ashfall/internal/corpse"
	"ashfall/internal/db"
	"ashfall/internal/events"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
)

// RespawnRandom implements spec.md §4.7's default respawn-at-random-point
// operation, drawing the spawn point through ctx.Rng.
func RespawnRandom(d *db.Database, cat *catalog.Catalog, world config.WorldConfig, ctx ReducerCtx) (err error) {
	tx := corpse.Begin(d)
	defer tx.Done(&err)
	corpse.RespawnRandom(tx, d, cat, ctx.Caller, world.Width, world.Height, ctx.Rng.Float64)
	metrics.RecordReducerOp("respawn_random", nil)
	ctx.emit(events.TypeRespawn, events.RespawnPayload{PlayerID: ctx.Caller})
	return nil
}

// RespawnAtBag implements spec.md §4.7's sleeping-bag respawn operation.
func RespawnAtBag(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, bagID model.BagID) (respawned bool, err error) {
	tx := corpse.Begin(d)
	defer tx.Done(&err)
	respawned = corpse.RespawnAtBag(tx, d, cat, ctx.Caller, bagID)
	metrics.RecordReducerOp("respawn_at_bag", nil)
	if respawned {
		ctx.emit(events.TypeRespawn, events.RespawnPayload{PlayerID: ctx.Caller, AtBag: true})
	}
	return respawned, nil
}
