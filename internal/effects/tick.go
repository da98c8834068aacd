package effects

import (
	"log"

	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// TickIntervalSecs is the nominal 1 s cadence spec.md §4.5 assumes.
const TickIntervalSecs = 1.0

// Tick advances every active effect row by one tick (spec.md §4.5). now is
// the current unix second. Callers hold the Tx returned by Begin.
func Tick(tx *store.Tx, d *db.Database, now int64) {
	healthReduced := make(map[model.PlayerID]bool)
	externalDamage := make(map[model.PlayerID]bool)

	var rows []model.ActiveConsumableEffect
	store.Range(tx, d.Effects, func(id store.ID, row model.ActiveConsumableEffect) bool {
		rows = append(rows, row)
		return true
	})

	for _, row := range rows {
		// A row deleted earlier in this tick (a Bleed cancelled by a
		// BandageBurst above) is not processed again.
		if _, ok := store.Get(tx, d.Effects, store.ID(row.ID)); !ok {
			continue
		}
		if row.IntervalSecs > 0 && now < row.LastTickAt+int64(row.IntervalSecs) && row.Kind != model.EffectBandageBurst {
			continue
		}

		switch {
		case row.Kind == model.EffectBurn && row.SourceItemDefID == 0:
			applyDelta(tx, d, row.Owner, -row.TotalAmount)
			healthReduced[row.Owner] = true
			externalDamage[row.Owner] = true
			store.Delete(tx, d.Effects, store.ID(row.ID))

		case row.Kind == model.EffectBandageBurst:
			if now < row.EndsAt {
				continue
			}
			applyDelta(tx, d, row.Owner, row.TotalAmount)
			store.Delete(tx, d.Effects, store.ID(row.ID))
			CancelBleed(tx, d, row.Owner)
			consumeBackingItem(tx, d, row.ConsumingInstanceID)

		default:
			span := row.EndsAt - row.StartedAt
			if span <= 0 {
				span = 1
			}
			amountPerSec := row.TotalAmount / float64(span)
			remaining := row.TotalAmount - row.AppliedSoFar
			step := TickIntervalSecs
			if row.IntervalSecs > 0 {
				step = row.IntervalSecs
			}
			amountThisTick := amountPerSec * step
			if amountThisTick > remaining {
				amountThisTick = remaining
			}

			switch row.Kind {
			case model.EffectHealthRegen:
				applyDelta(tx, d, row.Owner, amountThisTick)
			case model.EffectBleed:
				applyDelta(tx, d, row.Owner, -amountThisTick)
				healthReduced[row.Owner] = true
			case model.EffectBurn:
				applyDelta(tx, d, row.Owner, -amountThisTick)
				healthReduced[row.Owner] = true
				externalDamage[row.Owner] = true
			}

			row.AppliedSoFar += amountThisTick
			row.LastTickAt = now
			if row.AppliedSoFar >= row.TotalAmount || now >= row.EndsAt {
				store.Delete(tx, d.Effects, store.ID(row.ID))
				if row.Kind == model.EffectBurn && row.ConsumingInstanceID != 0 {
					consumeBackingItem(tx, d, row.ConsumingInstanceID)
				}
			} else {
				store.Put(tx, d.Effects, store.ID(row.ID), row)
			}
		}
	}

	for owner := range healthReduced {
		CancelHealthRegen(tx, d, owner)
	}
	for owner := range externalDamage {
		CancelBandageBurst(tx, d, owner)
	}
}

func applyDelta(tx *store.Tx, d *db.Database, owner model.PlayerID, delta float64) {
	p, ok := store.GetKeyed(tx, d.Players, owner)
	if !ok {
		return
	}
	p.Health += delta
	p = p.ClampVitals()
	store.PutKeyed(tx, d.Players, owner, p)
}

// consumeBackingItem decrements the item an effect consumed to start
// (e.g. a Bandage), deleting it at zero; missing items are logged and
// skipped (spec.md §4.5: "Missing items are logged and skipped").
func consumeBackingItem(tx *store.Tx, d *db.Database, instance model.InstanceID) {
	if instance == 0 {
		return
	}
	item, ok := store.Get(tx, d.Items, store.ID(instance))
	if !ok {
		log.Printf("⚠️  effects: consuming instance %d not found, skipping", instance)
		return
	}
	item.Quantity--
	if item.Quantity <= 0 {
		store.Delete(tx, d.Items, store.ID(instance))
	} else {
		store.Put(tx, d.Items, store.ID(instance), item)
	}
}
