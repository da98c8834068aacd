package model

// Slot counts for the concrete container kinds (spec.md §3.1: "each has
// a fixed slot count"). WoodenStorageBoxSlotCount=18 and
// PlayerCorpseSlotCount=35 are taken verbatim from spec.md's worked
// scenarios (§8 "Quick-move-into-full-box", §4.7 death-scatter); Campfire
// and Stash counts are this implementation's choice where the spec gives
// no explicit number (4 campfire slots = 1 fuel + 3 cooking, the usual
// split implied by §4.8's "non-fuel slot" language; 6 stash slots, a
// small hidden cache per the design intent of a stash).
const (
	CampfireSlotCount         = 4
	WoodenStorageBoxSlotCount = 18
	StashSlotCount            = 6
	PlayerCorpseSlotCount     = 35
	// CampfireFuelSlot is the conventional slot placed fuel is expected in
	// by this implementation's recipes and worked scenarios; any slot may
	// actually hold a fuel-bearing stack (spec.md §4.8: "requires at least
	// one fuel-bearing stack in any slot"), since which slot is fuel is
	// determined by the held item's FuelBurnDurationSecs, not a fixed index.
	CampfireFuelSlot = 0

	// DroppedItemDespawnSecs is how long a DroppedItem sits in the world
	// before its ScheduleDroppedItemDespawn row fires (spec.md §3.1's
	// "despawn timestamp", no figure named). The filtered copy of
	// original_source never included dropped_item.rs itself (only its
	// despawn-schedule trait import in lib.rs survived filtering), so
	// this duration is this implementation's own judgment call — set to
	// match corpse.DefaultDespawnSecs (5 minutes), the only other
	// despawn figure the source actually specifies.
	DroppedItemDespawnSecs = 300
)

// Campfire is an Appliance (spec.md §4.8): fuel-burn, cooking, and
// hot-zone damage emission layered on the container capability set.
type Campfire struct {
	ID       CampfireID
	X, Y     float64
	Health   float64
	Destroyed bool

	Instances   [CampfireSlotCount]InstanceID
	Definitions [CampfireSlotCount]ItemDefID

	IsBurning          bool
	CurrentFuelSlot    int // -1 when none
	RemainingBurnSecs  float64
	CookProgressSecs   [CampfireSlotCount]float64
	IsPlayerInHotZone  bool
}

// WoodenStorageBox is a plain storage container (spec.md §3.1).
type WoodenStorageBox struct {
	ID        BoxID
	X, Y      float64
	Health    float64
	Destroyed bool

	Instances   [WoodenStorageBoxSlotCount]InstanceID
	Definitions [WoodenStorageBoxSlotCount]ItemDefID
}

// Stash is a hidden storage container; stashes are non-solid (spec.md
// §4.4.1) and do not spill contents on destruction (spec.md §4.4.3).
// Owner is who may toggle Hidden and who a hidden stash stays visible to
// (SPEC_FULL.md §4.10).
type Stash struct {
	ID        StashID
	Owner     PlayerID
	X, Y      float64
	Health    float64
	Destroyed bool
	Hidden    bool

	Instances   [StashSlotCount]InstanceID
	Definitions [StashSlotCount]ItemDefID
}

// PlayerCorpse holds a dead player's gathered items (spec.md §4.7).
type PlayerCorpse struct {
	ID   CorpseID
	X, Y float64

	Instances   [PlayerCorpseSlotCount]InstanceID
	Definitions [PlayerCorpseSlotCount]ItemDefID

	DespawnAt int64 // unix seconds
}

// SleepingBag is a respawn-point placeable (spec.md §4.9 expansion);
// it carries no item slots of its own.
type SleepingBag struct {
	ID        BagID
	Owner     PlayerID
	X, Y      float64
	Health    float64
	Destroyed bool
}

// ActiveEquipment is the player's worn-armor and held-item state
// (spec.md §3.1 / §4.3). Each ArmorSlots entry is the InstanceID of the
// item equipped in that slot, or 0 when empty.
type ActiveEquipment struct {
	Owner       PlayerID
	ArmorSlots  [6]InstanceID // indexed by ArmorSlotKind
	HandItem    InstanceID    // 0 when no item is in hand
	SwingStartAt int64
}

// DroppedItem is a loose item lying in the world (spec.md §3.2 variant
// 5, §4.4.3 content spill, §4.8 cooking/fuel spill). DefinitionID and
// Quantity mirror the backing InventoryItem's own fields (spec.md §3.1:
// "world position, def id, quantity, despawn timestamp") so a despawn
// sweep never has to chase the Dropped{} location back to an item row
// just to know what it is destroying. DespawnAt drives the one-shot
// ScheduleDroppedItemDespawn row inserted alongside every DroppedItem.
type DroppedItem struct {
	ID           DroppedID
	X, Y         float64
	DefinitionID ItemDefID
	Quantity     int
	DespawnAt    int64 // unix seconds
}

// ActiveConsumableEffect is a timed health-affecting effect row
// (spec.md §4.5): HealthRegen, Burn, Bleed, or BandageBurst.
type ActiveConsumableEffect struct {
	ID    EffectID
	Owner PlayerID
	Kind  EffectKind
	// SourceItemDefID is the item definition that produced the effect;
	// 0 for environmental sources (e.g. hot-zone Burn, spec.md §4.5).
	SourceItemDefID ItemDefID
	// ConsumingInstanceID is the item instance consumed to start this
	// effect (e.g. the Bandage), or 0 when none (spec.md §3.1).
	ConsumingInstanceID InstanceID
	StartedAt           int64
	EndsAt              int64
	TotalAmount         float64
	AppliedSoFar        float64 // P8 conservation target
	PerTick             float64
	IntervalSecs        float64
	LastTickAt          int64
}

// EffectKind discriminates the four timed-effect varieties (spec.md §4.5).
type EffectKind uint8

const (
	EffectHealthRegen EffectKind = iota
	EffectBurn
	EffectBleed
	EffectBandageBurst
)

// CraftingQueueItem is one in-flight crafting job (spec.md §4.2.5 /
// §6): FIFO per player, cancellable with full-ingredient refund.
type CraftingQueueItem struct {
	ID        QueueID
	Owner     PlayerID
	RecipeID  RecipeID
	StartedAt int64
	EndsAt    int64
}

// ScheduleRow is a one-shot or interval tick entry (spec.md §3.1 /
// §4.6): resource respawns, appliance processing, corpse despawn,
// crafting completion, and dropped-item despawn all ride the same table.
type ScheduleRow struct {
	ID       ScheduleID
	FiresAt  int64
	Interval int64 // 0 for one-shot rows
	Kind     ScheduleKind
	// TargetID is the entity-kind-specific primary key the schedule
	// acts on (CampfireID, CorpseID, ...), stored as a plain int64
	// since ScheduleRow cannot be generic over the target's ID type.
	TargetID int64
}

// ScheduleKind discriminates what a ScheduleRow fires (spec.md §4.6).
type ScheduleKind uint8

const (
	ScheduleResourceRespawn ScheduleKind = iota
	ScheduleApplianceProcessing
	ScheduleCorpseDespawn
	ScheduleCraftingComplete
	ScheduleDroppedItemDespawn
)

// WorldState is the single-row global clock and time-of-day tracker
// driving warmth's time-of-day base rate (spec.md §4.6 vitals tick).
type WorldState struct {
	TickCount    int64
	TimeOfDaySec float64 // seconds into the current day cycle
}
