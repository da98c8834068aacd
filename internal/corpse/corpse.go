// Package corpse implements spec.md §4.7: gathering a dead player's items
// into a PlayerCorpse, scheduling its despawn, and respawn (random or at a
// sleeping bag). Grounded on fight-club-go/internal/game/player.go's die()
// — the single entry point a kill transitions a player through (ragdoll
// state, death bookkeeping) — generalized here to also materialize the
// corpse entity and schedule row spec.md's server-authoritative world adds
// on top of the teacher's purely cosmetic death state.
package corpse

import (
	"sort"

	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// DefaultDespawnSecs is the fallback corpse despawn delay when no
// contained item carries a RespawnTimeOnDeathSecs (spec.md §4.7).
const DefaultDespawnSecs = 300

func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Players, d.Equipment, d.Items, d.Corpses, d.Schedules, d.Bags}
}

// Begin starts a Tx over every table a death/respawn operation can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// CreateOnDeath gathers owner's inventory/hotbar/equipped items (in that
// order) into a new 35-slot PlayerCorpse, marks overflow Unknown (and so
// effectively lost — left un-relocated, with no container reference), and
// inserts a one-shot despawn ScheduleRow for the computed despawn time
// (spec.md §4.7).
func CreateOnDeath(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, x, y float64, now int64) model.CorpseID {
	var gathered []model.InventoryItem
	store.Range(tx, d.Items, func(id store.ID, row model.InventoryItem) bool {
		if row.Location.Owner == owner && row.Location.IsPlayerOwned() {
			gathered = append(gathered, row)
		}
		return true
	})
	// store.Range walks the backing map in unspecified order (internal/
	// store/tx.go), but spec.md §4.7 requires items "gathered in order"
	// before sequential slot assignment, so which items overflow to
	// Unknown must be deterministic. Sort by location kind (Inventory,
	// then Hotbar, then Equipped — the same order LocationKind's own
	// enum already assigns) and by slot within each kind.
	sort.Slice(gathered, func(i, j int) bool {
		a, b := gathered[i].Location, gathered[j].Location
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Kind == model.LocationEquipped {
			return a.ArmorSlot < b.ArmorSlot
		}
		return a.Slot < b.Slot
	})

	corpseID, _ := store.Insert(tx, d.Corpses, func(id store.ID) model.PlayerCorpse {
		return model.PlayerCorpse{ID: model.CorpseID(id), X: x, Y: y}
	})

	var row model.PlayerCorpse
	row, _ = store.Get(tx, d.Corpses, corpseID)

	maxRespawnSecs := 0.0
	slot := 0
	for _, item := range gathered {
		if slot >= model.PlayerCorpseSlotCount {
			item.Location = model.Unknown()
			store.Put(tx, d.Items, store.ID(item.InstanceID), item)
			continue
		}
		item.Location = model.InContainer(model.ContainerKindPlayerCorpse, corpseID, slot)
		store.Put(tx, d.Items, store.ID(item.InstanceID), item)
		row.Instances[slot] = item.InstanceID
		row.Definitions[slot] = item.DefinitionID
		if def, ok := cat.Item(item.DefinitionID); ok && def.RespawnTimeOnDeathSecs > maxRespawnSecs {
			maxRespawnSecs = def.RespawnTimeOnDeathSecs
		}
		slot++
	}

	despawnSecs := int64(DefaultDespawnSecs)
	if maxRespawnSecs > 0 {
		despawnSecs = int64(maxRespawnSecs)
	}
	row.DespawnAt = now + despawnSecs
	store.Put(tx, d.Corpses, corpseID, row)

	store.Insert(tx, d.Schedules, func(id store.ID) model.ScheduleRow {
		return model.ScheduleRow{ID: model.ScheduleID(id), FiresAt: row.DespawnAt, Kind: model.ScheduleCorpseDespawn, TargetID: int64(corpseID)}
	})

	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if ok {
		equip.ArmorSlots = [6]model.InstanceID{}
		equip.HandItem = 0
		store.PutKeyed(tx, d.Equipment, owner, equip)
	}

	return model.CorpseID(corpseID)
}

// Despawn deletes every item contained in corpseID and the corpse row
// itself, fired by the corpse's one-shot ScheduleRow (spec.md §4.7).
func Despawn(tx *store.Tx, d *db.Database, corpseID model.CorpseID) {
	row, ok := store.Get(tx, d.Corpses, store.ID(corpseID))
	if !ok {
		return
	}
	for _, instance := range row.Instances {
		if instance != 0 {
			store.Delete(tx, d.Items, store.ID(instance))
		}
	}
	store.Delete(tx, d.Corpses, store.ID(corpseID))
}

// starterKit is this implementation's fixed respawn loadout (spec.md
// §4.7: "grants a starter Rock and Torch" — this catalog has no "rock"
// material item, so the hatchet stands in as the starting tool; the
// torch is the catalog's actual "torch" item).
var starterKit = []string{"hatchet", "torch"}

// RespawnRandom reinitializes vitals to 100, clears death state, places
// the player at a padded-random world position, grants the starter kit,
// and clears any in-hand item (spec.md §4.7).
func RespawnRandom(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, worldWidth, worldHeight float64, randFloat func() float64) {
	const pad = 0.1
	x := randFloat()*worldWidth*(1-2*pad) + worldWidth*pad
	y := randFloat()*worldHeight*(1-2*pad) + worldHeight*pad
	respawnAt(tx, d, cat, owner, x, y)
}

// RespawnAtBag is identical to RespawnRandom except the position comes
// from an existing, non-destroyed sleeping bag the player placed (spec.md
// §4.7).
func RespawnAtBag(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, bagID model.BagID) bool {
	bag, ok := store.Get(tx, d.Bags, store.ID(bagID))
	if !ok || bag.Destroyed || bag.Owner != owner {
		return false
	}
	respawnAt(tx, d, cat, owner, bag.X, bag.Y)
	return true
}

func respawnAt(tx *store.Tx, d *db.Database, cat *catalog.Catalog, owner model.PlayerID, x, y float64) {
	p, ok := store.GetKeyed(tx, d.Players, owner)
	if !ok {
		p = model.Player{ID: owner}
	}
	p.Health = 100
	p.Stamina = 100
	p.Thirst = 100
	p.Hunger = 100
	p.Warmth = 100
	p.Dead = false
	p.DiedAt = 0
	p.X, p.Y = x, y
	store.PutKeyed(tx, d.Players, owner, p)

	equip, ok := store.GetKeyed(tx, d.Equipment, owner)
	if !ok {
		equip = model.ActiveEquipment{Owner: owner}
	}
	equip.HandItem = 0
	store.PutKeyed(tx, d.Equipment, owner, equip)

	for slot, name := range starterKit {
		def, ok := cat.ItemByName(name)
		if !ok || slot >= model.HotbarSlotCount {
			continue
		}
		store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
			return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: def.ID, Quantity: 1, Location: model.InHotbar(owner, slot)}
		})
	}
}
