// Package model defines the entity records of spec.md §3: players, items,
// containers, active equipment, timed effects, crafting queue rows,
// dropped items, schedule rows, and world state — plus the ItemLocation
// sum type (§3.2) that is the load-bearing invariant of the whole core.
package model

import "ashfall/internal/store"

// PlayerID is the player's stable, externally-assigned identity (spec.md
// §3.1). Unlike every other entity kind, players are never auto-assigned
// a primary key by the store — the authenticated request dispatcher hands
// one in on first registration.
type PlayerID string

// The remaining entity kinds are auto-incremented by the store. Distinct
// named types (rather than a shared alias) keep, say, a CampfireID from
// being passed where a StashID is expected — the compiler catches what
// would otherwise be a silent wrong-container bug.
type (
	InstanceID store.ID // InventoryItem primary key
	CampfireID store.ID
	BoxID      store.ID
	StashID    store.ID
	CorpseID   store.ID
	BagID      store.ID // sleeping bag
	DroppedID  store.ID
	EffectID   store.ID
	ScheduleID store.ID
	QueueID    store.ID
	ItemDefID  store.ID
	RecipeID   store.ID
	ResourceID store.ID
)
