// Package scheduler implements spec.md §4.6's tick scheduler surface:
// the five independent 1 s streams (global, player vitals, per-appliance,
// effects, crafting finish) plus the ScheduleRow dispatch that drives
// resource respawn and corpse despawn. Grounded on fight-club-go's
// internal/game/engine.go Start/Stop/tick loop — a time.Ticker driving a
// single mutex-free tick function from its own goroutine — generalized
// here from one fixed-rate game loop to five streams sharing the same
// cadence but composed from independently testable per-stream functions.
package scheduler

import (
	"log"
	"math/rand"
	"time"

	"ashfall/internal/appliance"
	"ashfall/internal/catalog"
	"ashfall/internal/config"
	"ashfall/internal/crafting"
	"ashfall/internal/db"
	"ashfall/internal/effects"
	"ashfall/internal/events"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func lockSet(d *db.Database) []store.Lockable {
	return []store.Lockable{
		d.Players, d.Equipment, d.Items, d.Resources, d.Campfires, d.Boxes,
		d.Stashes, d.Bags, d.Corpses, d.Dropped, d.Effects, d.Schedules,
		d.Queue, d.World,
	}
}

// Begin starts a Tx over every table any tick stream can touch.
func Begin(d *db.Database) *store.Tx {
	return store.Begin(lockSet(d)...)
}

// Scheduler drives the five tick streams at a fixed cadence, mirroring
// internal/game/engine.go's Start/Stop/ticker shape.
type Scheduler struct {
	d      *db.Database
	cat    *catalog.Catalog
	vitals config.VitalsConfig
	rng    *rand.Rand
	events *events.Log

	ticker   *time.Ticker
	stopChan chan struct{}
}

// New builds a Scheduler over d, seeded from seed for deterministic
// resource-respawn and appliance-fuel rolls. ev may be nil to run
// without an audit trail (tests that don't care about it).
func New(d *db.Database, cat *catalog.Catalog, vitals config.VitalsConfig, ev *events.Log, seed int64) *Scheduler {
	return &Scheduler{
		d:        d,
		cat:      cat,
		vitals:   vitals,
		rng:      rand.New(rand.NewSource(seed)),
		events:   ev,
		stopChan: make(chan struct{}),
	}
}

// Start begins the five-stream tick loop at tick.TicksPerSecond, the
// cadence every row in spec.md §4.6's table shares.
func (s *Scheduler) Start(tick config.TickConfig) {
	interval := time.Second / time.Duration(tick.TicksPerSecond)
	s.ticker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.Tick(time.Now().Unix())
			case <-s.stopChan:
				return
			}
		}
	}()
	log.Printf("⏱️  scheduler started at %d tick/s", tick.TicksPerSecond)
}

// Stop halts the tick loop.
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	log.Println("🛑 scheduler stopped")
}

// Tick runs one pass of all five streams for the given unix-second
// timestamp, each under its own transaction so one stream's failure mode
// never blocks another's (spec.md §4.6: "concurrency between streams is
// serialized by the store" — each stream still gets its own Tx rather
// than one giant cross-stream lock).
func (s *Scheduler) Tick(now int64) {
	const elapsedSecs = 1.0

	start := time.Now()
	tx := Begin(s.d)
	warmthRate := GlobalTick(tx, s.d, elapsedSecs, now)
	tx.Commit()
	metrics.RecordTick("global", time.Since(start))

	if s.events != nil {
		tx = store.Begin(s.d.World)
		world, _ := store.GetKeyed(tx, s.d.World, db.WorldKey)
		tx.Commit()
		s.events.EmitSimple(events.TypeTick, now, "", events.TickPayload{TickCount: world.TickCount, TimeOfDaySec: world.TimeOfDaySec})
	}

	start = time.Now()
	tx = Begin(s.d)
	VitalsTick(tx, s.d, s.cat, s.vitals, s.events, warmthRate, elapsedSecs, now)
	tx.Commit()
	metrics.RecordTick("vitals", time.Since(start))
	s.recordPlayerGauge()

	start = time.Now()
	tx = Begin(s.d)
	s.applianceTick(tx, now)
	tx.Commit()
	metrics.RecordTick("appliance", time.Since(start))

	start = time.Now()
	tx = Begin(s.d)
	effects.Tick(tx, s.d, now)
	tx.Commit()
	metrics.RecordTick("effects", time.Since(start))
	s.recordEffectsGauge()

	start = time.Now()
	tx = Begin(s.d)
	crafting.Tick(tx, s.d, s.cat, now)
	tx.Commit()
	metrics.RecordTick("crafting", time.Since(start))
}

// recordPlayerGauge updates the online-player gauge from the Players
// table's current contents.
func (s *Scheduler) recordPlayerGauge() {
	tx := store.Begin(s.d.Players)
	count := 0
	store.RangeKeyed(tx, s.d.Players, func(id model.PlayerID, p model.Player) bool {
		if p.Online {
			count++
		}
		return true
	})
	tx.Commit()
	metrics.SetPlayersOnline(count)
}

// recordEffectsGauge updates the active-effects gauge from the Effects
// table's current row count.
func (s *Scheduler) recordEffectsGauge() {
	tx := store.Begin(s.d.Effects)
	count := 0
	store.Range(tx, s.d.Effects, func(id store.ID, row model.ActiveConsumableEffect) bool {
		count++
		return true
	})
	tx.Commit()
	metrics.SetActiveEffects(count)
}

// applianceTick dispatches every due ScheduleApplianceProcessing row to
// appliance.Tick and reschedules rows that are still burning afterward
// (spec.md §4.8: "per-tick while burning"; a campfire that extinguishes
// mid-tick has already deleted its own row inside appliance.Tick).
func (s *Scheduler) applianceTick(tx *store.Tx, now int64) {
	var due []model.ScheduleRow
	store.Range(tx, s.d.Schedules, func(id store.ID, row model.ScheduleRow) bool {
		if row.Kind == model.ScheduleApplianceProcessing && row.FiresAt <= now {
			due = append(due, row)
		}
		return true
	})

	for _, row := range due {
		appliance.Tick(tx, s.d, s.cat, s.rng, model.CampfireID(row.TargetID), now)
		if _, stillScheduled := store.Get(tx, s.d.Schedules, store.ID(row.ID)); stillScheduled {
			row.FiresAt = now + row.Interval
			store.Put(tx, s.d.Schedules, store.ID(row.ID), row)
		}
	}
}
