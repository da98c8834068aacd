// Package combat implements spec.md §4.4's attack pipeline: the
// attack-interval gate, cone targeting, damage/yield rolling, and
// per-target-kind dispatch (harvest, player damage + knockback + bleed +
// death, placeable destruction + content spill). Grounded on
// fight-club-go/internal/game/player.go's attack()/TakeDamage() (damage
// roll with variance, weapon-driven knockback, kill transition) and
// hitbox.go's Arc math for the cone check, generalized from a single
// nearest-enemy target to spec.md's priority-ordered candidate scan over
// heterogeneous entity kinds.
package combat

import (
	"math"
	"math/rand"

	"ashfall/internal/apperr"
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
	"ashfall/internal/spatial"
	"ashfall/internal/store"
)

// CollisionRadius approximates every entity's solid footprint for
// knockback-collision and cone candidate purposes — fight-club-go's
// weapons.go notes its own minimum weapon range must clear "two player
// radii = 30 + 30", i.e. a 30-unit player radius; this implementation
// reuses that figure uniformly across players, resources, and
// placeables rather than modeling per-kind footprints spec.md never
// specifies.
const CollisionRadius = 30.0

// KnockbackDistance and RecoilDistance are spec.md §4.4.1's fixed
// displacement figures.
const (
	KnockbackDistance = 32.0
	RecoilDistance    = KnockbackDistance / 3.0
)

func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Players, d.Equipment, d.Items, d.Resources, d.Campfires, d.Boxes, d.Stashes, d.Bags, d.Corpses, d.Schedules, d.Dropped, d.Effects}
}

// Begin starts a Tx over every table an attack can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// candidate is one cone-targeting candidate after the broad+narrow phase
// filter (spec.md §4.4 step 3).
type candidate struct {
	targetKind string // "tree", "stone", "player", "campfire", "wooden_storage_box", "stash", "sleeping_bag"
	playerID   model.PlayerID
	entityID   int64
	x, y       float64
	distSq     float64
}

// faceRadians maps a FacingDirection to the angle convention hitbox.go's
// CheckHit uses (atan2(dy,dx) with the same y-down screen axes
// internal/inventory/drop.go's facingDelta already assumes).
func faceRadians(facing model.FacingDirection) float64 {
	switch facing {
	case model.FacingUp:
		return -math.Pi / 2
	case model.FacingDown:
		return math.Pi / 2
	case model.FacingLeft:
		return math.Pi
	case model.FacingRight:
		return 0
	default:
		return 0
	}
}

func normalizeAngle(angle float64) float64 {
	const twoPi = 2 * math.Pi
	angle = math.Mod(angle, twoPi)
	if angle < 0 {
		angle += twoPi
	}
	if angle > math.Pi {
		angle -= twoPi
	}
	return angle
}

func withinCone(attackerX, attackerY, targetX, targetY, direction, rangeUnits, halfAngle float64) (bool, float64) {
	dx := targetX - attackerX
	dy := targetY - attackerY
	distSq := dx*dx + dy*dy
	if distSq > rangeUnits*rangeUnits {
		return false, distSq
	}
	if distSq < 1 {
		return false, distSq
	}
	targetAngle := math.Atan2(dy, dx)
	angleDiff := normalizeAngle(targetAngle - direction)
	return angleDiff >= -halfAngle && angleDiff <= halfAngle, distSq
}

// Attack implements spec.md §4.4: gate, swing stamp, cone targeting,
// target selection, damage/yield, and dispatch. worldWidth/worldHeight
// bound knockback resolution (§4.4.1).
func Attack(tx *store.Tx, d *db.Database, cat *catalog.Catalog, rng *rand.Rand, attacker model.PlayerID, now int64, worldWidth, worldHeight float64) error {
	p, ok := store.GetKeyed(tx, d.Players, attacker)
	if !ok || p.Dead {
		return apperr.New(apperr.InvalidState, "player %s is not attackable", attacker)
	}

	equip, ok := store.GetKeyed(tx, d.Equipment, attacker)
	if !ok || equip.HandItem == 0 {
		return apperr.New(apperr.InvalidState, "player %s has no item in hand", attacker)
	}
	handItem, ok := store.Get(tx, d.Items, store.ID(equip.HandItem))
	if !ok {
		return apperr.New(apperr.NotFound, "hand item instance %d", equip.HandItem)
	}
	def, ok := cat.Item(handItem.DefinitionID)
	if !ok {
		return apperr.New(apperr.NotFound, "item definition %d", handItem.DefinitionID)
	}
	if def.AttackRangeUnits <= 0 {
		return apperr.New(apperr.InvalidState, "item %q cannot attack", def.Name)
	}

	// Gate (spec.md §4.4 step 1): violations return an error without
	// mutating state. Every other tick-scheduled timestamp in this core
	// is whole unix seconds, so a sub-second interval (e.g. 0.6 s) rounds
	// up to the next full second rather than truncating to zero and
	// never gating at all.
	if def.AttackIntervalSecs > 0 && now < equip.SwingStartAt+int64(math.Ceil(def.AttackIntervalSecs)) {
		return apperr.New(apperr.RateLimited, "item %q is on cooldown", def.Name)
	}

	// Swing (step 2).
	equip.SwingStartAt = now
	store.PutKeyed(tx, d.Equipment, attacker, equip)

	direction := faceRadians(p.Facing)
	halfAngle := def.AttackAngleRadians / 2
	candidates := gatherCandidates(tx, d, attacker, p.X, p.Y, direction, def.AttackRangeUnits, halfAngle)

	target, found := selectTarget(candidates, def)
	if !found {
		return nil
	}

	dy, hasYield := def.DamageYieldFor(target.targetKind)
	var damage float64
	var yieldDefID model.ItemDefID
	var yieldQty int
	if hasYield {
		damage = rollRange(rng, dy.DamageMin, dy.DamageMax)
		yieldDefID = dy.YieldDefID
		yieldQty = int(rollRange(rng, float64(dy.YieldMin), float64(dy.YieldMax)))
	} else if def.HasPvPDamage {
		damage = rollRange(rng, def.PvPDamageMin, def.PvPDamageMax)
	}

	switch target.targetKind {
	case "tree", "stone":
		dispatchResource(tx, d, cat, rng, attacker, target, damage, yieldDefID, yieldQty, now)
	case "player":
		dispatchPlayer(tx, d, cat, attacker, target.playerID, p.X, p.Y, def, damage, now, worldWidth, worldHeight)
	default:
		dispatchPlaceable(tx, d, rng, target, damage, now)
	}
	return nil
}

func rollRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

func selectTarget(candidates []candidate, def catalog.ItemDefinition) (candidate, bool) {
	if c, ok := firstOfKind(candidates, def.PrimaryTargetKind); ok {
		return c, true
	}
	if c, ok := firstOfKind(candidates, def.SecondaryTargetKind); ok {
		return c, true
	}
	if def.HasPvPDamage {
		if c, ok := firstOfKind(candidates, "player"); ok {
			return c, true
		}
	}
	if len(candidates) > 0 {
		return candidates[0], true
	}
	return candidate{}, false
}

func firstOfKind(candidates []candidate, kind string) (candidate, bool) {
	if kind == "" {
		return candidate{}, false
	}
	for _, c := range candidates {
		if c.targetKind == kind {
			return c, true
		}
	}
	return candidate{}, false
}

// gatherCandidates implements spec.md §4.4 step 3: live players
// (excluding self and the dead) come from a direct table scan since
// model.PlayerID is a string identity the int64-keyed spatial.Index
// can't carry; every other candidate kind comes from a freshly rebuilt
// chunk index.
func gatherCandidates(tx *store.Tx, d *db.Database, self model.PlayerID, x, y, direction, rangeUnits, halfAngle float64) []candidate {
	var out []candidate

	store.RangeKeyed(tx, d.Players, func(id model.PlayerID, row model.Player) bool {
		if id == self || row.Dead {
			return true
		}
		if ok, distSq := withinCone(x, y, row.X, row.Y, direction, rangeUnits, halfAngle); ok {
			out = append(out, candidate{targetKind: "player", playerID: id, x: row.X, y: row.Y, distSq: distSq})
		}
		return true
	})

	idx := spatial.NewIndex()
	store.Range(tx, d.Resources, func(id store.ID, row model.ResourceNode) bool {
		if !row.Depleted {
			idx.Insert(spatial.Entry{Kind: resourceEntityKind(row.Kind), ID: int64(id), X: row.X, Y: row.Y})
		}
		return true
	})
	store.Range(tx, d.Campfires, func(id store.ID, row model.Campfire) bool {
		if !row.Destroyed {
			idx.Insert(spatial.Entry{Kind: spatial.EntityCampfire, ID: int64(id), X: row.X, Y: row.Y})
		}
		return true
	})
	store.Range(tx, d.Boxes, func(id store.ID, row model.WoodenStorageBox) bool {
		if !row.Destroyed {
			idx.Insert(spatial.Entry{Kind: spatial.EntityBox, ID: int64(id), X: row.X, Y: row.Y})
		}
		return true
	})
	store.Range(tx, d.Stashes, func(id store.ID, row model.Stash) bool {
		if !row.Destroyed && !row.Hidden {
			idx.Insert(spatial.Entry{Kind: spatial.EntityStash, ID: int64(id), X: row.X, Y: row.Y})
		}
		return true
	})
	store.Range(tx, d.Bags, func(id store.ID, row model.SleepingBag) bool {
		if !row.Destroyed {
			idx.Insert(spatial.Entry{Kind: spatial.EntitySleepingBag, ID: int64(id), X: row.X, Y: row.Y})
		}
		return true
	})

	metrics.SetActiveChunks(idx.ActiveChunks())

	for _, e := range idx.QueryRadius(x, y, rangeUnits) {
		if ok, distSq := withinCone(x, y, e.X, e.Y, direction, rangeUnits, halfAngle); ok {
			out = append(out, candidate{targetKind: entityKindName(e.Kind), entityID: e.ID, x: e.X, y: e.Y, distSq: distSq})
		}
	}

	sortCandidates(out)
	return out
}

func sortCandidates(candidates []candidate) {
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].distSq < candidates[j-1].distSq; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}

func resourceEntityKind(kind model.ResourceKind) spatial.EntityKind {
	if kind == model.ResourceStone {
		return spatial.EntityStone
	}
	return spatial.EntityTree
}

func entityKindName(kind spatial.EntityKind) string {
	switch kind {
	case spatial.EntityTree:
		return "tree"
	case spatial.EntityStone:
		return "stone"
	case spatial.EntityCampfire:
		return "campfire"
	case spatial.EntityBox:
		return "wooden_storage_box"
	case spatial.EntityStash:
		return "stash"
	case spatial.EntitySleepingBag:
		return "sleeping_bag"
	default:
		return "unknown"
	}
}
