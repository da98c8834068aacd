// Package reducer is the single entry point every caller-facing operation
// in this core goes through: one function per spec.md §6 operation,
// each opening the owning package's Tx, running the underlying logic,
// and committing or rolling back as a whole via that Tx's
// defer-tx.Done(&err) pattern (internal/store's documented "reducers are
// expected to follow" shape). Grounded on fight-club-go/internal/game/
// engine.go's ProcessAttack/HealPlayer-style public methods — a thin,
// named operation per caller-visible action, each independently callable
// and erroring out cleanly — generalized from one Engine receiver to a
// stateless function set over *db.Database, since this core has no
// in-memory Engine object of its own.
package reducer

import (
	"math/rand"

	"ashfall/internal/events"
	"ashfall/internal/model"
)

// ReducerCtx carries the things spec.md §1 says the authenticated request
// dispatcher injects into every call: the caller's identity, the current
// time, a source of randomness for any roll the operation needs
// (damage/yield rolls, resource respawn delay, appliance fuel byproduct
// chance), and the audit log each state-changing operation reports to.
// Events is optional — a nil Log (the zero ReducerCtx) silently skips
// emission, so tests that don't care about the audit trail can omit it.
type ReducerCtx struct {
	Caller model.PlayerID
	Now    int64
	Rng    *rand.Rand
	Events *events.Log
}

// emit reports event to ctx's audit log if one is attached.
func (ctx ReducerCtx) emit(eventType events.Type, payload interface{}) {
	if ctx.Events == nil {
		return
	}
	ctx.Events.EmitSimple(eventType, ctx.Now, ctx.Caller, payload)
}
