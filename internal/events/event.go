// Package events implements the audit trail this core emits alongside
// its normal reducer/scheduler work: a typed event per state-changing
// operation (attack, death, respawn, craft, appliance light/extinguish,
// drop), buffered and rate-limited the way a live multiplayer server's
// event log has to be, since every emission point is ultimately driven
// by untrusted player input. Grounded on fight-club-go/internal/game's
// event.go (the Event/EventType/payload shapes) and event_log.go (the
// bounded circular buffer + rate limiter + async batch writer).
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ashfall/internal/model"
)

// Type classifies an Event for replay/analysis tooling. Distinct from
// fight-club-go's EventType, whose variants are this core's own
// operations (spec.md §4's inventory, combat, crafting, and appliance
// surface) rather than an arena shooter's.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeTick
	TypePlayerJoin
	TypePlayerLeave
	TypeDamage
	TypeKill
	TypeRespawn
	TypeAttack
	TypeItemMoved
	TypeItemDropped
	TypeCraftStarted
	TypeCraftFinished
	TypeCraftCancelled
	TypeApplianceLit
	TypeApplianceExtinguished
)

// Version guards the payload shape for replay tooling reading old log
// files after a schema change.
const Version uint8 = 1

// Event is one row of the audit trail.
type Event struct {
	Version       uint8           `json:"version"`
	Type          Type            `json:"type"`
	Timestamp     int64           `json:"timestamp"`     // unix nano, wall-clock of emission
	Sequence      uint64          `json:"sequence"`      // monotonic, assigned by the log
	TickNum       int64           `json:"tickNum"`       // world tick this occurred in
	PlayerID      model.PlayerID  `json:"playerId"`      // source player, for per-player rate limiting
	CorrelationID string          `json:"correlationId"` // unique per event, independent of Sequence
	Payload       json.RawMessage `json:"payload"`
}

func (t Type) String() string {
	switch t {
	case TypeTick:
		return "tick"
	case TypePlayerJoin:
		return "player_join"
	case TypePlayerLeave:
		return "player_leave"
	case TypeDamage:
		return "damage"
	case TypeKill:
		return "kill"
	case TypeRespawn:
		return "respawn"
	case TypeAttack:
		return "attack"
	case TypeItemMoved:
		return "item_moved"
	case TypeItemDropped:
		return "item_dropped"
	case TypeCraftStarted:
		return "craft_started"
	case TypeCraftFinished:
		return "craft_finished"
	case TypeCraftCancelled:
		return "craft_cancelled"
	case TypeApplianceLit:
		return "appliance_lit"
	case TypeApplianceExtinguished:
		return "appliance_extinguished"
	default:
		return "unknown"
	}
}

// TickPayload records a global tick boundary (spec.md §4.6).
type TickPayload struct {
	TickCount    int64   `json:"tickCount"`
	TimeOfDaySec float64 `json:"timeOfDaySec"`
}

// DamagePayload records a combat hit (spec.md §4.5).
type DamagePayload struct {
	AttackerID model.PlayerID `json:"attackerId"`
	TargetKind string         `json:"targetKind"` // "player", "resource", "corpse"
	TargetID   int64          `json:"targetId"`
	Damage     float64        `json:"damage"`
	TargetHP   float64        `json:"targetHp"`
}

// KillPayload records a player death (spec.md §4.7).
type KillPayload struct {
	VictimID model.PlayerID `json:"victimId"`
	CorpseID model.CorpseID `json:"corpseId"`
}

// RespawnPayload records a respawn (spec.md §4.7).
type RespawnPayload struct {
	PlayerID model.PlayerID `json:"playerId"`
	X, Y     float64        `json:"x,y"`
	AtBag    bool           `json:"atBag"`
}

// CraftPayload records a crafting-queue transition (spec.md §4.4).
type CraftPayload struct {
	PlayerID model.PlayerID `json:"playerId"`
	RecipeID model.RecipeID `json:"recipeId"`
	QueueID  model.QueueID  `json:"queueId"`
	Quantity int            `json:"quantity"`
}

// AppliancePayload records a campfire light/extinguish (spec.md §4.8).
type AppliancePayload struct {
	CampfireID model.CampfireID `json:"campfireId"`
}

// ItemMovePayload records an inventory/container transfer (spec.md §4.2).
type ItemMovePayload struct {
	PlayerID model.PlayerID   `json:"playerId"`
	Instance model.InstanceID `json:"instance"`
	Quantity int              `json:"quantity"`
}

// encodePayload marshals a payload to JSON, returning nil on failure
// rather than surfacing an encoding error through an emission call that
// must never block game logic on an audit-trail concern.
func encodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// New builds an Event stamped with the current wall-clock time; Sequence
// is assigned later, when the event is accepted into a Log's buffer.
// CorrelationID is a fresh uuid, not derived from Sequence, so an event
// stays identifiable after log files from separate process restarts
// (each with their own Sequence counter starting at zero) are merged.
func New(eventType Type, tickNum int64, playerID model.PlayerID, payload interface{}) Event {
	return Event{
		Version:       Version,
		Type:          eventType,
		Timestamp:     time.Now().UnixNano(),
		TickNum:       tickNum,
		PlayerID:      playerID,
		CorrelationID: uuid.NewString(),
		Payload:       encodePayload(payload),
	}
}
