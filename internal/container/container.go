// Package container implements spec.md §4.1's container capability set:
// "any entity exposing: slot count, get_instance(slot), get_definition(slot),
// set_slot(slot, instance?, definition?), container_kind(), container_id()".
// Every inventory operation in internal/inventory is written once against
// the Container interface below and dispatched to one of the four concrete
// adapters — grounded on the capability-set design note in spec.md §9 and,
// structurally, on fight-club-go's habit of expressing per-entity-kind
// behavior as small interfaces implemented by typed structs (see
// internal/game/weapons.go's Weapon interface over concrete weapon kinds).
package container

import (
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// Container is the capability set every concrete placeable/virtual
// container implements. Slot is 0-indexed and must be < SlotCount().
type Container interface {
	SlotCount() int
	Instance(slot int) model.InstanceID
	Definition(slot int) model.ItemDefID
	SetSlot(slot int, instance model.InstanceID, definition model.ItemDefID)
	Kind() model.ContainerKind
	ContainerID() int64
}

// Tables bundles the store tables the adapters in this package read and
// write. A single Tables value is threaded through every reducer that
// touches containers.
type Tables struct {
	Campfires *store.Table[model.Campfire]
	Boxes     *store.Table[model.WoodenStorageBox]
	Stashes   *store.Table[model.Stash]
	Corpses   *store.Table[model.PlayerCorpse]
}

// Open resolves an ItemLocation's Container variant to a concrete
// Container adapter bound to the given transaction. Returns false if the
// referenced entity row does not exist (e.g. it was destroyed this tick).
func Open(tx *store.Tx, t Tables, kind model.ContainerKind, id store.ID) (Container, bool) {
	switch kind {
	case model.ContainerKindCampfire:
		row, ok := store.Get(tx, t.Campfires, id)
		if !ok {
			return nil, false
		}
		return &campfireAdapter{tx: tx, table: t.Campfires, row: row}, true
	case model.ContainerKindWoodenStorageBox:
		row, ok := store.Get(tx, t.Boxes, id)
		if !ok {
			return nil, false
		}
		return &boxAdapter{tx: tx, table: t.Boxes, row: row}, true
	case model.ContainerKindStash:
		row, ok := store.Get(tx, t.Stashes, id)
		if !ok {
			return nil, false
		}
		return &stashAdapter{tx: tx, table: t.Stashes, row: row}, true
	case model.ContainerKindPlayerCorpse:
		row, ok := store.Get(tx, t.Corpses, id)
		if !ok {
			return nil, false
		}
		return &corpseAdapter{tx: tx, table: t.Corpses, row: row}, true
	default:
		return nil, false
	}
}

type campfireAdapter struct {
	tx    *store.Tx
	table *store.Table[model.Campfire]
	row   model.Campfire
}

func (a *campfireAdapter) SlotCount() int { return model.CampfireSlotCount }
func (a *campfireAdapter) Instance(slot int) model.InstanceID { return a.row.Instances[slot] }
func (a *campfireAdapter) Definition(slot int) model.ItemDefID { return a.row.Definitions[slot] }
func (a *campfireAdapter) Kind() model.ContainerKind { return model.ContainerKindCampfire }
func (a *campfireAdapter) ContainerID() int64 { return int64(a.row.ID) }
func (a *campfireAdapter) SetSlot(slot int, instance model.InstanceID, definition model.ItemDefID) {
	a.row.Instances[slot] = instance
	a.row.Definitions[slot] = definition
	store.Put(a.tx, a.table, store.ID(a.row.ID), a.row)
}

type boxAdapter struct {
	tx    *store.Tx
	table *store.Table[model.WoodenStorageBox]
	row   model.WoodenStorageBox
}

func (a *boxAdapter) SlotCount() int { return model.WoodenStorageBoxSlotCount }
func (a *boxAdapter) Instance(slot int) model.InstanceID { return a.row.Instances[slot] }
func (a *boxAdapter) Definition(slot int) model.ItemDefID { return a.row.Definitions[slot] }
func (a *boxAdapter) Kind() model.ContainerKind { return model.ContainerKindWoodenStorageBox }
func (a *boxAdapter) ContainerID() int64 { return int64(a.row.ID) }
func (a *boxAdapter) SetSlot(slot int, instance model.InstanceID, definition model.ItemDefID) {
	a.row.Instances[slot] = instance
	a.row.Definitions[slot] = definition
	store.Put(a.tx, a.table, store.ID(a.row.ID), a.row)
}

type stashAdapter struct {
	tx    *store.Tx
	table *store.Table[model.Stash]
	row   model.Stash
}

func (a *stashAdapter) SlotCount() int { return model.StashSlotCount }
func (a *stashAdapter) Instance(slot int) model.InstanceID { return a.row.Instances[slot] }
func (a *stashAdapter) Definition(slot int) model.ItemDefID { return a.row.Definitions[slot] }
func (a *stashAdapter) Kind() model.ContainerKind { return model.ContainerKindStash }
func (a *stashAdapter) ContainerID() int64 { return int64(a.row.ID) }
func (a *stashAdapter) SetSlot(slot int, instance model.InstanceID, definition model.ItemDefID) {
	a.row.Instances[slot] = instance
	a.row.Definitions[slot] = definition
	store.Put(a.tx, a.table, store.ID(a.row.ID), a.row)
}

type corpseAdapter struct {
	tx    *store.Tx
	table *store.Table[model.PlayerCorpse]
	row   model.PlayerCorpse
}

func (a *corpseAdapter) SlotCount() int { return model.PlayerCorpseSlotCount }
func (a *corpseAdapter) Instance(slot int) model.InstanceID { return a.row.Instances[slot] }
func (a *corpseAdapter) Definition(slot int) model.ItemDefID { return a.row.Definitions[slot] }
func (a *corpseAdapter) Kind() model.ContainerKind { return model.ContainerKindPlayerCorpse }
func (a *corpseAdapter) ContainerID() int64 { return int64(a.row.ID) }
func (a *corpseAdapter) SetSlot(slot int, instance model.InstanceID, definition model.ItemDefID) {
	a.row.Instances[slot] = instance
	a.row.Definitions[slot] = definition
	store.Put(a.tx, a.table, store.ID(a.row.ID), a.row)
}

// FindInstance scans every slot of c for the given instance id, returning
// its slot index. Used by reducers that need "which slot is this item
// in" without the caller threading the slot through (e.g. destroying a
// container and spilling its contents).
func FindInstance(c Container, instance model.InstanceID) (slot int, found bool) {
	for i := 0; i < c.SlotCount(); i++ {
		if c.Instance(i) == instance {
			return i, true
		}
	}
	return 0, false
}

// ClearInstance removes instance from whichever slot of c holds it, if
// any. A no-op if the instance isn't present.
func ClearInstance(c Container, instance model.InstanceID) {
	if slot, ok := FindInstance(c, instance); ok {
		c.SetSlot(slot, 0, 0)
	}
}
