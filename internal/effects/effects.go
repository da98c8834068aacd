// Package effects implements spec.md §4.5's timed effects engine: the
// periodic tick that advances HealthRegen, Burn, Bleed, and BandageBurst
// rows against a player's health, plus the insert/cancel helpers combat
// and appliance logic use to start or interrupt them. Grounded on
// fight-club-go/internal/game/effects.go's per-player timed-status-effect
// tick (poison/regen ticking against an end timestamp), generalized from
// a single status-kind list to spec.md's four typed effect kinds plus the
// cross-effect cancellation rules (§4.5's "cancel BandageBurst", "cancel
// HealthRegen" interactions effects.go does not itself need).
package effects

import (
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{d.Players, d.Effects, d.Items}
}

// Begin starts a Tx over every table an effects operation can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// InsertBleed starts a Bleed effect sourced from sourceItemDefID (spec.md
// §4.4 Player dispatch: "apply item-defined bleed ... by inserting a
// Bleed effect").
func InsertBleed(tx *store.Tx, d *db.Database, owner model.PlayerID, sourceItemDefID model.ItemDefID, damagePerTick, durationSecs, intervalSecs float64, now int64) {
	endsAt := now + int64(durationSecs)
	store.Insert(tx, d.Effects, func(id store.ID) model.ActiveConsumableEffect {
		return model.ActiveConsumableEffect{
			ID:              model.EffectID(id),
			Owner:           owner,
			Kind:            model.EffectBleed,
			SourceItemDefID: sourceItemDefID,
			StartedAt:       now,
			EndsAt:          endsAt,
			TotalAmount:     damagePerTick * (durationSecs / maxFloat(intervalSecs, 1)),
			PerTick:         damagePerTick,
			IntervalSecs:    intervalSecs,
			LastTickAt:      now,
		}
	})
}

// InsertEnvironmentalBurn starts a one-shot environmental Burn (source
// item-def 0, spec.md §4.5/§4.8 hot-zone damage): applied entirely on the
// next tick, not amortized.
func InsertEnvironmentalBurn(tx *store.Tx, d *db.Database, owner model.PlayerID, totalAmount float64, durationSecs float64, now int64) {
	store.Insert(tx, d.Effects, func(id store.ID) model.ActiveConsumableEffect {
		return model.ActiveConsumableEffect{
			ID:          model.EffectID(id),
			Owner:       owner,
			Kind:        model.EffectBurn,
			StartedAt:   now,
			EndsAt:      now + int64(durationSecs),
			TotalAmount: totalAmount,
			LastTickAt:  now,
		}
	})
}

// InsertItemBurn starts an amortized, item-sourced Burn (spec.md §4.5
// "item-based Burn" — ticks like HealthRegen/Bleed rather than firing
// once).
func InsertItemBurn(tx *store.Tx, d *db.Database, owner model.PlayerID, sourceItemDefID model.ItemDefID, totalAmount, durationSecs float64, now int64) {
	store.Insert(tx, d.Effects, func(id store.ID) model.ActiveConsumableEffect {
		return model.ActiveConsumableEffect{
			ID:              model.EffectID(id),
			Owner:           owner,
			Kind:            model.EffectBurn,
			SourceItemDefID: sourceItemDefID,
			StartedAt:       now,
			EndsAt:          now + int64(durationSecs),
			TotalAmount:     totalAmount,
			LastTickAt:      now,
		}
	})
}

// InsertHealthRegen starts a HealthRegen effect amortized over
// durationSecs (spec.md §4.6 vitals tick "recover health" rule routes
// through this rather than a direct health write, so it shares the §4.5
// cancel-on-damage behavior).
func InsertHealthRegen(tx *store.Tx, d *db.Database, owner model.PlayerID, totalAmount, durationSecs float64, now int64) {
	store.Insert(tx, d.Effects, func(id store.ID) model.ActiveConsumableEffect {
		return model.ActiveConsumableEffect{
			ID:          model.EffectID(id),
			Owner:       owner,
			Kind:        model.EffectHealthRegen,
			StartedAt:   now,
			EndsAt:      now + int64(durationSecs),
			TotalAmount: totalAmount,
			LastTickAt:  now,
		}
	})
}

// InsertBandageBurst starts a BandageBurst: totalAmount heals entirely at
// EndsAt, consuming consumingInstanceID when it resolves (spec.md §4.5,
// §3.1 "consuming_item_instance_id").
func InsertBandageBurst(tx *store.Tx, d *db.Database, owner model.PlayerID, sourceItemDefID model.ItemDefID, consumingInstanceID model.InstanceID, totalAmount, durationSecs float64, now int64) {
	store.Insert(tx, d.Effects, func(id store.ID) model.ActiveConsumableEffect {
		return model.ActiveConsumableEffect{
			ID:                  model.EffectID(id),
			Owner:               owner,
			Kind:                model.EffectBandageBurst,
			SourceItemDefID:     sourceItemDefID,
			ConsumingInstanceID: consumingInstanceID,
			StartedAt:           now,
			EndsAt:              now + int64(durationSecs),
			TotalAmount:         totalAmount,
			LastTickAt:          now,
		}
	})
}

// CancelBandageBurst deletes any in-progress BandageBurst for owner
// (spec.md §4.3 activate/clear hand, §4.5 damage interrupts, §4.5
// "on success cancel the player's Bleed effects" calls this in reverse
// via CancelBleed).
func CancelBandageBurst(tx *store.Tx, d *db.Database, owner model.PlayerID) {
	cancelKind(tx, d, owner, model.EffectBandageBurst)
}

// CancelBleed deletes every Bleed effect for owner (spec.md §4.5: a
// successful BandageBurst cancels Bleed).
func CancelBleed(tx *store.Tx, d *db.Database, owner model.PlayerID) {
	cancelKind(tx, d, owner, model.EffectBleed)
}

// CancelHealthRegen deletes every HealthRegen effect for owner (spec.md
// §4.5: a damaging Burn/Bleed tick cancels HealthRegen that same tick).
func CancelHealthRegen(tx *store.Tx, d *db.Database, owner model.PlayerID) {
	cancelKind(tx, d, owner, model.EffectHealthRegen)
}

func cancelKind(tx *store.Tx, d *db.Database, owner model.PlayerID, kind model.EffectKind) {
	var toDelete []store.ID
	store.Range(tx, d.Effects, func(id store.ID, row model.ActiveConsumableEffect) bool {
		if row.Owner == owner && row.Kind == kind {
			toDelete = append(toDelete, id)
		}
		return true
	})
	for _, id := range toDelete {
		store.Delete(tx, d.Effects, id)
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
