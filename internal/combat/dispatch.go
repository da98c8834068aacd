package combat

import (
	"log"
	"math"
	"math/rand"

	"ashfall/internal/catalog"
	"ashfall/internal/corpse"
	"ashfall/internal/db"
	"ashfall/internal/effects"
	"ashfall/internal/equipment"
	"ashfall/internal/inventory"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// ResourceRespawnBounds are the resource-specific uniform [min,max]
// respawn-delay bounds spec.md §4.4 step 6 calls for but leaves
// implementation-defined content for ("a uniform random time in the
// resource-specific [min,max] bounds") — a stone outcrop takes longer to
// reform than a tree to regrow, so Stone's window is later and wider.
var ResourceRespawnBounds = map[model.ResourceKind][2]float64{
	model.ResourceTree:  {20, 45},
	model.ResourceStone: {30, 60},
}

// dispatchResource implements spec.md §4.4 step 6's Tree/Stone branch.
func dispatchResource(tx *store.Tx, d *db.Database, cat *catalog.Catalog, rng *rand.Rand, attacker model.PlayerID, target candidate, damage float64, yieldDefID model.ItemDefID, yieldQty int, now int64) {
	row, ok := store.Get(tx, d.Resources, store.ID(target.entityID))
	if !ok || row.Depleted {
		return
	}
	row.Health -= damage
	row.LastHitAt = now
	depleted := row.Health <= 0
	if depleted {
		row.Health = 0
		row.Depleted = true
	}
	store.Put(tx, d.Resources, store.ID(target.entityID), row)

	if yieldQty > 0 {
		if err := inventory.Grant(tx, d, cat, attacker, yieldDefID, yieldQty); err != nil {
			// spec.md §9 Open Question: an inventory-full grant failure
			// is logged and skipped, not a reason to refuse the attack
			// or revert the damage already applied. Units that did not
			// fit are not placed anywhere.
			log.Printf("⚠️ harvest yield for %s not fully granted: %v", attacker, err)
		}
	}

	if depleted {
		bounds := ResourceRespawnBounds[row.Kind]
		delaySecs := bounds[0] + rng.Float64()*(bounds[1]-bounds[0])
		store.Insert(tx, d.Schedules, func(id store.ID) model.ScheduleRow {
			return model.ScheduleRow{ID: model.ScheduleID(id), FiresAt: now + int64(delaySecs), Kind: model.ScheduleResourceRespawn, TargetID: target.entityID}
		})
	}
}

// RespawnResource fires from a resource's ScheduleResourceRespawn row:
// restore full health and clear Depleted.
func RespawnResource(tx *store.Tx, d *db.Database, resourceID model.ResourceID) {
	row, ok := store.Get(tx, d.Resources, store.ID(resourceID))
	if !ok {
		return
	}
	row.Health = row.MaxHealth
	row.Depleted = false
	store.Put(tx, d.Resources, store.ID(resourceID), row)
}

// dispatchPlayer implements spec.md §4.4 step 6's Player branch and the
// §4.4.1 knockback/collision resolution.
func dispatchPlayer(tx *store.Tx, d *db.Database, cat *catalog.Catalog, attackerID, victimID model.PlayerID, attackerX, attackerY float64, def catalog.ItemDefinition, damage float64, now int64, worldWidth, worldHeight float64) {
	victim, ok := store.GetKeyed(tx, d.Players, victimID)
	if !ok || victim.Dead {
		return
	}

	resistance := equipment.TotalDamageResistance(tx, d, cat, victimID)
	actual := damage * (1 - resistance)
	before := victim.Health
	victim.Health = clamp01to100(before - actual)
	victim.LastHitAt = now
	reducedHealth := victim.Health < before
	store.PutKeyed(tx, d.Players, victimID, victim)

	// Knockback touches only X/Y via fresh reads, so the health write
	// above survives it.
	applyKnockback(tx, d, attackerID, victimID, attackerX, attackerY, victim.X, victim.Y, worldWidth, worldHeight)
	victim, _ = store.GetKeyed(tx, d.Players, victimID)

	if actual > 0 && def.Bleed != nil && def.Bleed.DamagePerTick > 0 && def.Bleed.DurationSecs > 0 && def.Bleed.IntervalSecs > 0 {
		effects.InsertBleed(tx, d, victimID, def.ID, def.Bleed.DamagePerTick, def.Bleed.DurationSecs, def.Bleed.IntervalSecs, now)
	}
	if reducedHealth {
		effects.CancelBandageBurst(tx, d, victimID)
	}

	if victim.Health <= 0 && !victim.Dead {
		victim.Dead = true
		victim.DiedAt = now
		store.PutKeyed(tx, d.Players, victimID, victim)
		equipment.ClearHandItem(tx, d, victimID)
		corpse.CreateOnDeath(tx, d, cat, victimID, victim.X, victim.Y, now)
		return
	}
	store.PutKeyed(tx, d.Players, victimID, victim)
}

func clamp01to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// applyKnockback implements spec.md §4.4.1: fixed displacement away from
// the attacker for the victim, fixed recoil toward the attacker's
// opposite direction for the attacker, each resolved against world
// bounds and solid-entity collision.
func applyKnockback(tx *store.Tx, d *db.Database, attackerID, victimID model.PlayerID, attackerX, attackerY, victimX, victimY, worldWidth, worldHeight float64) {
	dx, dy := victimX-attackerX, victimY-attackerY
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 0.001 {
		dx, dy, dist = 1, 0, 1
	}
	ux, uy := dx/dist, dy/dist

	victimProposedX := clampBound(victimX+ux*KnockbackDistance, worldWidth)
	victimProposedY := clampBound(victimY+uy*KnockbackDistance, worldHeight)
	attackerProposedX := clampBound(attackerX-ux*RecoilDistance, worldWidth)
	attackerProposedY := clampBound(attackerY-uy*RecoilDistance, worldHeight)

	if !overlapsSolid(tx, d, victimID, victimProposedX, victimProposedY) {
		if row, ok := store.GetKeyed(tx, d.Players, victimID); ok {
			row.X, row.Y = victimProposedX, victimProposedY
			store.PutKeyed(tx, d.Players, victimID, row)
		}
	}
	if !overlapsSolid(tx, d, attackerID, attackerProposedX, attackerProposedY) {
		if row, ok := store.GetKeyed(tx, d.Players, attackerID); ok {
			row.X, row.Y = attackerProposedX, attackerProposedY
			store.PutKeyed(tx, d.Players, attackerID, row)
		}
	}
}

func clampBound(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// overlapsSolid reports whether (x,y) overlaps any live player (other
// than mover), live tree, live stone, or non-destroyed box/campfire/
// sleeping bag — stashes are explicitly non-solid (spec.md §4.4.1).
func overlapsSolid(tx *store.Tx, d *db.Database, mover model.PlayerID, x, y float64) bool {
	const r2 = (2 * CollisionRadius) * (2 * CollisionRadius)
	overlap := false
	store.RangeKeyed(tx, d.Players, func(id model.PlayerID, row model.Player) bool {
		if id == mover || row.Dead {
			return true
		}
		if sqDist(x, y, row.X, row.Y) <= r2 {
			overlap = true
			return false
		}
		return true
	})
	if overlap {
		return true
	}
	store.Range(tx, d.Resources, func(id store.ID, row model.ResourceNode) bool {
		if !row.Depleted && sqDist(x, y, row.X, row.Y) <= r2 {
			overlap = true
			return false
		}
		return true
	})
	if overlap {
		return true
	}
	store.Range(tx, d.Boxes, func(id store.ID, row model.WoodenStorageBox) bool {
		if !row.Destroyed && sqDist(x, y, row.X, row.Y) <= r2 {
			overlap = true
			return false
		}
		return true
	})
	if overlap {
		return true
	}
	store.Range(tx, d.Campfires, func(id store.ID, row model.Campfire) bool {
		if !row.Destroyed && sqDist(x, y, row.X, row.Y) <= r2 {
			overlap = true
			return false
		}
		return true
	})
	if overlap {
		return true
	}
	store.Range(tx, d.Bags, func(id store.ID, row model.SleepingBag) bool {
		if !row.Destroyed && sqDist(x, y, row.X, row.Y) <= r2 {
			overlap = true
			return false
		}
		return true
	})
	return overlap
}

func sqDist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return dx*dx + dy*dy
}

// dispatchPlaceable implements spec.md §4.4 step 6's Placeable branch:
// campfires and boxes spill their contents as DroppedItems at jittered
// offsets on destruction; stashes and sleeping bags do not (spec.md:
// "stashes and sleeping bags have no contents drop beyond their own
// slots" — their contained items, if any, are simply lost with the
// entity row, the same "overflow is lost" outcome corpse overflow gets).
func dispatchPlaceable(tx *store.Tx, d *db.Database, rng *rand.Rand, target candidate, damage float64, now int64) {
	switch target.targetKind {
	case "campfire":
		row, ok := store.Get(tx, d.Campfires, store.ID(target.entityID))
		if !ok {
			return
		}
		row.Health -= damage
		if row.Health <= 0 {
			spillContents(tx, d, rng, row.Instances[:], row.X, row.Y, now)
			store.Delete(tx, d.Campfires, store.ID(target.entityID))
			return
		}
		store.Put(tx, d.Campfires, store.ID(target.entityID), row)
	case "wooden_storage_box":
		row, ok := store.Get(tx, d.Boxes, store.ID(target.entityID))
		if !ok {
			return
		}
		row.Health -= damage
		if row.Health <= 0 {
			spillContents(tx, d, rng, row.Instances[:], row.X, row.Y, now)
			store.Delete(tx, d.Boxes, store.ID(target.entityID))
			return
		}
		store.Put(tx, d.Boxes, store.ID(target.entityID), row)
	case "stash":
		row, ok := store.Get(tx, d.Stashes, store.ID(target.entityID))
		if !ok {
			return
		}
		row.Health -= damage
		if row.Health <= 0 {
			for _, instance := range row.Instances {
				if instance != 0 {
					store.Delete(tx, d.Items, store.ID(instance))
				}
			}
			store.Delete(tx, d.Stashes, store.ID(target.entityID))
			return
		}
		store.Put(tx, d.Stashes, store.ID(target.entityID), row)
	case "sleeping_bag":
		row, ok := store.Get(tx, d.Bags, store.ID(target.entityID))
		if !ok {
			return
		}
		row.Health -= damage
		if row.Health <= 0 {
			store.Delete(tx, d.Bags, store.ID(target.entityID))
			return
		}
		store.Put(tx, d.Bags, store.ID(target.entityID), row)
	}
}

// JitterRadiusUnits bounds the random scatter offset contents spill at
// (spec.md §4.4: "jittered offsets around the entity").
const JitterRadiusUnits = 20.0

func spillContents(tx *store.Tx, d *db.Database, rng *rand.Rand, instances []model.InstanceID, x, y float64, now int64) {
	for _, instance := range instances {
		if instance == 0 {
			continue
		}
		jx := x + (rng.Float64()*2-1)*JitterRadiusUnits
		jy := y + (rng.Float64()*2-1)*JitterRadiusUnits
		item, ok := store.Get(tx, d.Items, store.ID(instance))
		if !ok {
			continue
		}
		despawnAt := now + model.DroppedItemDespawnSecs
		dropID, _ := store.Insert(tx, d.Dropped, func(id store.ID) model.DroppedItem {
			return model.DroppedItem{ID: model.DroppedID(id), X: jx, Y: jy, DefinitionID: item.DefinitionID, Quantity: item.Quantity, DespawnAt: despawnAt}
		})
		scheduleDroppedDespawn(tx, d, dropID, now)
		item.Location = model.Dropped(model.DroppedID(dropID))
		store.Put(tx, d.Items, store.ID(instance), item)
	}
}

// scheduleDroppedDespawn inserts the one-shot ScheduleDroppedItemDespawn
// row for a freshly created DroppedItem (spec.md §3.1's despawn timestamp).
func scheduleDroppedDespawn(tx *store.Tx, d *db.Database, dropID store.ID, now int64) {
	store.Insert(tx, d.Schedules, func(id store.ID) model.ScheduleRow {
		return model.ScheduleRow{ID: model.ScheduleID(id), FiresAt: now + model.DroppedItemDespawnSecs, Kind: model.ScheduleDroppedItemDespawn, TargetID: int64(dropID)}
	})
}
