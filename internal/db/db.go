// Package db composes the individual store.Table/store.KeyedTable
// instances into the single set of tables every reducer and tick handler
// is given a reference to — one table per entity kind named in spec.md
// §3, mirroring the teacher's single Engine struct (internal/game/
// engine.go) as a plain composition root rather than a god object with
// behavior: db.Database carries no methods beyond construction, exactly
// the "one table per entity kind" persistent-state layout spec.md §6
// calls for.
package db

import (
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// Database is every table the core's reducers and tick handlers operate
// on, composed once at startup and threaded through by reference.
type Database struct {
	Players    *store.KeyedTable[model.PlayerID, model.Player]
	Equipment  *store.KeyedTable[model.PlayerID, model.ActiveEquipment]
	Items      *store.Table[model.InventoryItem]
	Resources  *store.Table[model.ResourceNode]
	Campfires  *store.Table[model.Campfire]
	Boxes      *store.Table[model.WoodenStorageBox]
	Stashes    *store.Table[model.Stash]
	Corpses    *store.Table[model.PlayerCorpse]
	Bags       *store.Table[model.SleepingBag]
	Dropped    *store.Table[model.DroppedItem]
	Effects    *store.Table[model.ActiveConsumableEffect]
	Schedules  *store.Table[model.ScheduleRow]
	Queue      *store.Table[model.CraftingQueueItem]
	World      *store.KeyedTable[string, model.WorldState] // single row, key "world"
}

// WorldKey is the single key under which the one WorldState row lives.
const WorldKey = "world"

// New constructs an empty Database with every table initialized.
func New() *Database {
	return &Database{
		Players:   store.NewKeyedTable[model.PlayerID, model.Player]("players"),
		Equipment: store.NewKeyedTable[model.PlayerID, model.ActiveEquipment]("equipment"),
		Items:     store.NewTable[model.InventoryItem]("items"),
		Resources: store.NewTable[model.ResourceNode]("resources"),
		Campfires: store.NewTable[model.Campfire]("campfires"),
		Boxes:     store.NewTable[model.WoodenStorageBox]("boxes"),
		Stashes:   store.NewTable[model.Stash]("stashes"),
		Corpses:   store.NewTable[model.PlayerCorpse]("corpses"),
		Bags:      store.NewTable[model.SleepingBag]("bags"),
		Dropped:   store.NewTable[model.DroppedItem]("dropped"),
		Effects:   store.NewTable[model.ActiveConsumableEffect]("effects"),
		Schedules: store.NewTable[model.ScheduleRow]("schedules"),
		Queue:     store.NewTable[model.CraftingQueueItem]("queue"),
		World:     store.NewKeyedTable[string, model.WorldState]("world"),
	}
}
