package scheduler

import (
	"ashfall/internal/catalog"
	"ashfall/internal/config"
	"ashfall/internal/corpse"
	"ashfall/internal/db"
	"ashfall/internal/equipment"
	"ashfall/internal/events"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

// WarmthProximityRadiusUnits and WarmthProximityBonusPerSec are the
// campfire-proximity warmth bonus spec.md §4.6 names but never numbers,
// grounded on original_source/server/src/campfire.rs's WARMTH_RADIUS
// (300 units) and WARMTH_PER_SECOND (5.0) constants.
const (
	WarmthProximityRadiusUnits  = 300.0
	WarmthProximityBonusPerSec = 5.0
)

// healthLossMultiplierAtZero doubles a vital's health-loss rate once the
// vital itself hits zero (spec.md §4.6 "doubled at zero"), grounded on
// player_stats.rs's HEALTH_LOSS_MULTIPLIER_AT_ZERO.
const healthLossMultiplierAtZero = 2.0

// VitalsTick implements spec.md §4.6's player-vitals stream for one
// elapsedSecs-wide step: drains hunger/thirst, adjusts warmth from
// time-of-day + campfire proximity + armor, drains/recovers stamina from
// sprint+movement, applies low-vital health loss or recovery, and creates
// a corpse on death. Grounded on original_source/server/src/
// player_stats.rs's process_player_stats reducer, adapted from its
// single ctx-wide elapsed-time read to this store's explicit elapsedSecs
// step.
func VitalsTick(tx *store.Tx, d *db.Database, cat *catalog.Catalog, vitals config.VitalsConfig, ev *events.Log, worldWarmthRate, elapsedSecs float64, now int64) {
	var players []model.Player
	store.RangeKeyed(tx, d.Players, func(id model.PlayerID, p model.Player) bool {
		players = append(players, p)
		return true
	})

	var burning []model.Campfire
	store.Range(tx, d.Campfires, func(id store.ID, c model.Campfire) bool {
		if c.IsBurning && !c.Destroyed {
			burning = append(burning, c)
		}
		return true
	})

	for _, p := range players {
		if !p.Online || p.Dead {
			continue
		}

		p.Hunger = clamp0to100(p.Hunger - vitals.HungerDrainPerSec*elapsedSecs)
		p.Thirst = clamp0to100(p.Thirst - vitals.ThirstDrainPerSec*elapsedSecs)

		warmthRate := worldWarmthRate
		for _, c := range burning {
			if sqDist(p.X, p.Y, c.X, c.Y) < WarmthProximityRadiusUnits*WarmthProximityRadiusUnits {
				warmthRate += WarmthProximityBonusPerSec
			}
		}
		warmthRate += equipment.TotalWarmthBonus(tx, d, cat, p.ID)
		p.Warmth = clamp0to100(p.Warmth + warmthRate*elapsedSecs)

		movedSinceLastTick := p.LastMovementAt > p.LastVitalsTick
		if p.Sprinting && movedSinceLastTick {
			p.Stamina = clamp0to100(p.Stamina - vitals.StaminaDrainSprintRate*elapsedSecs)
			if p.Stamina <= 0 {
				p.Sprinting = false
			}
		} else if !p.Sprinting {
			p.Stamina = clamp0to100(p.Stamina + vitals.StaminaRecoverRate*elapsedSecs)
		}

		healthChangePerSec := 0.0
		healthChangePerSec -= lowVitalLoss(p.Thirst, vitals)
		healthChangePerSec -= lowVitalLoss(p.Hunger, vitals)
		healthChangePerSec -= lowVitalLoss(p.Warmth, vitals)

		if healthChangePerSec == 0 &&
			p.Health >= vitals.RecoverHealthThreshold &&
			p.Hunger >= vitals.RecoverHealthThreshold &&
			p.Thirst >= vitals.RecoverHealthThreshold &&
			p.Warmth >= vitals.WarmthLowThreshold {
			healthChangePerSec += vitals.HealthRecoverPerSec
		}

		p.Health += healthChangePerSec * elapsedSecs
		if p.Health > 100 {
			p.Health = 100
		}
		p.LastVitalsTick = now

		if p.Health <= 0 && !p.Dead {
			p.Health = 0
			p.Dead = true
			p.DiedAt = now
			store.PutKeyed(tx, d.Players, p.ID, p)
			equipment.ClearHandItem(tx, d, p.ID)
			corpseID := corpse.CreateOnDeath(tx, d, cat, p.ID, p.X, p.Y, now)
			if ev != nil {
				ev.EmitSimple(events.TypeKill, now, p.ID, events.KillPayload{VictimID: p.ID, CorpseID: corpseID})
			}
			continue
		}

		store.PutKeyed(tx, d.Players, p.ID, p)
	}
}

// lowVitalLoss is one vital's contribution to per-second health loss
// (spec.md §4.6 "apply health loss for low vitals (doubled at zero)"):
// zero at or above vitals.WarmthLowThreshold, vitals.LowVitalHealthLoss
// below it, doubled once the vital itself reaches zero.
func lowVitalLoss(vital float64, vitals config.VitalsConfig) float64 {
	switch {
	case vital <= 0:
		return vitals.LowVitalHealthLoss * healthLossMultiplierAtZero
	case vital < vitals.WarmthLowThreshold:
		return vitals.LowVitalHealthLoss
	default:
		return 0
	}
}

func clamp0to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sqDist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}
