// Package catalog holds the immutable item and recipe definitions spec.md
// §3.1 calls the ItemDefinition/Recipe rows, loaded once at startup from an
// embedded TOML document — the same toml.Unmarshal-into-tagged-struct
// pattern dm-vev-adamant's server/whitelist.go uses for its own on-disk
// config (github.com/pelletier/go-toml), generalized here from a flat
// player list to the catalog's nested tables.
package catalog

import (
	_ "embed"
	"fmt"

	"ashfall/internal/model"

	"github.com/pelletier/go-toml"
)

// Category is one of the six item categories spec.md §3.1 names.
type Category string

const (
	CategoryTool        Category = "tool"
	CategoryMaterial    Category = "material"
	CategoryPlaceable   Category = "placeable"
	CategoryArmor       Category = "armor"
	CategoryConsumable  Category = "consumable"
	CategoryAmmunition  Category = "ammunition"
)

// DamageYield is a per-target-kind min/max damage and yield tuple
// (spec.md §4.4 "pick the matching min/max damage and yield tuple; roll
// uniformly in each range").
type DamageYield struct {
	TargetKind string          `toml:"target_kind"`
	DamageMin  float64         `toml:"damage_min"`
	DamageMax  float64         `toml:"damage_max"`
	YieldDefID model.ItemDefID `toml:"-"`
	YieldName  string          `toml:"yield_name"`
	YieldMin   int             `toml:"yield_min"`
	YieldMax   int             `toml:"yield_max"`
}

// BleedSpec is the optional bleed triple an item definition may carry
// (spec.md §3.1: "damage/tick, duration, interval").
type BleedSpec struct {
	DamagePerTick float64 `toml:"damage_per_tick"`
	DurationSecs  float64 `toml:"duration_secs"`
	IntervalSecs  float64 `toml:"interval_secs"`
}

// ConsumableSpec is the optional consumable effect deltas + duration a
// Consumable-category item applies on use (spec.md §3.1).
type ConsumableSpec struct {
	HealthDelta  float64 `toml:"health_delta"`
	StaminaDelta float64 `toml:"stamina_delta"`
	ThirstDelta  float64 `toml:"thirst_delta"`
	HungerDelta  float64 `toml:"hunger_delta"`
	WarmthDelta  float64 `toml:"warmth_delta"`
	DurationSecs float64 `toml:"duration_secs"` // 0 = applied instantly, not over time
}

// ItemDefinition is the immutable catalog row (spec.md §3.1). Every
// optional group defaults to its zero value when the TOML entry omits
// the corresponding table.
type ItemDefinition struct {
	ID       model.ItemDefID `toml:"-"`
	Name     string          `toml:"name"`
	Category Category        `toml:"category"`

	Stackable    bool `toml:"stackable"`
	MaxStackSize int  `toml:"max_stack_size"`

	Equippable bool              `toml:"equippable"`
	ArmorSlot  model.ArmorSlotKind `toml:"-"` // derived from armor_slot string below
	ArmorSlotName string         `toml:"armor_slot"`

	FuelBurnDurationSecs float64 `toml:"fuel_burn_duration_secs"`

	DamageYields []DamageYield `toml:"damage_yield"`

	PvPDamageMin float64 `toml:"pvp_damage_min"`
	PvPDamageMax float64 `toml:"pvp_damage_max"`
	HasPvPDamage bool    `toml:"has_pvp_damage"`

	Bleed    *BleedSpec      `toml:"bleed"`
	Consume  *ConsumableSpec `toml:"consume"`

	CookTimeSecs     float64 `toml:"cook_time_secs"`
	CookedOutputName string  `toml:"cooked_output_name"`

	DamageResistance float64 `toml:"damage_resistance"`
	WarmthBonus      float64 `toml:"warmth_bonus"`

	AttackIntervalSecs   float64 `toml:"attack_interval_secs"`
	AttackRangeUnits     float64 `toml:"attack_range_units"`
	AttackAngleRadians   float64 `toml:"attack_angle_radians"`
	PrimaryTargetKind    string  `toml:"primary_target_kind"`
	SecondaryTargetKind  string  `toml:"secondary_target_kind"`

	RespawnTimeOnDeathSecs float64 `toml:"respawn_time_on_death_secs"`
}

// DamageYieldFor returns the damage/yield tuple matching targetKind, or
// false if this item has no entry for that target (spec.md §4.4:
// "Mismatched target kinds yield zero resource and fall back to PvP
// damage (if any) or zero").
func (d ItemDefinition) DamageYieldFor(targetKind string) (DamageYield, bool) {
	for _, dy := range d.DamageYields {
		if dy.TargetKind == targetKind {
			return dy, true
		}
	}
	return DamageYield{}, false
}

// Recipe is the immutable crafting recipe catalog row (spec.md §3.1
// CraftingQueueItem references recipe id; the recipe itself lists
// ingredients, output, and craft time).
type Recipe struct {
	ID             model.RecipeID  `toml:"-"`
	Name           string          `toml:"name"`
	OutputDefID    model.ItemDefID `toml:"-"`
	OutputDefName  string          `toml:"output"`
	OutputQuantity int             `toml:"output_quantity"`
	CraftTimeSecs  float64         `toml:"craft_time_secs"`
	Ingredients    []Ingredient    `toml:"ingredient"`
}

// Ingredient is one (definition, quantity) line in a Recipe.
type Ingredient struct {
	DefID    model.ItemDefID `toml:"-"`
	DefName  string          `toml:"name"`
	Quantity int             `toml:"quantity"`
}

// document is the raw shape of the embedded TOML catalog file, before
// name references are resolved to the auto-assigned ItemDefID/RecipeID
// primary keys.
type document struct {
	Items   []ItemDefinition `toml:"item"`
	Recipes []Recipe         `toml:"recipe"`
}

//go:embed items.toml
var embeddedCatalog []byte

// Catalog is the loaded, name-resolved, id-indexed item and recipe
// catalog — immutable after Load returns (spec.md §3.1: "immutable
// catalog row"), so every lookup is lock-free.
type Catalog struct {
	itemsByID   map[model.ItemDefID]ItemDefinition
	itemsByName map[string]model.ItemDefID
	recipesByID map[model.RecipeID]Recipe
}

// Load parses the embedded catalog TOML, assigns stable auto-incremented
// ids in file order, resolves armor-slot and ingredient name references,
// and returns an immutable Catalog.
func Load() (*Catalog, error) {
	return loadBytes(embeddedCatalog)
}

func loadBytes(raw []byte) (*Catalog, error) {
	var doc document
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse toml: %w", err)
	}

	c := &Catalog{
		itemsByID:   make(map[model.ItemDefID]ItemDefinition, len(doc.Items)),
		itemsByName: make(map[string]model.ItemDefID, len(doc.Items)),
		recipesByID: make(map[model.RecipeID]Recipe, len(doc.Recipes)),
	}

	for i, item := range doc.Items {
		id := model.ItemDefID(i + 1)
		item.ID = id
		if item.ArmorSlotName != "" {
			slot, ok := parseArmorSlot(item.ArmorSlotName)
			if !ok {
				return nil, fmt.Errorf("catalog: item %q has unknown armor_slot %q", item.Name, item.ArmorSlotName)
			}
			item.ArmorSlot = slot
		}
		if _, dup := c.itemsByName[item.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate item name %q", item.Name)
		}
		c.itemsByID[id] = item
		c.itemsByName[item.Name] = id
	}

	for id, item := range c.itemsByID {
		for i, dy := range item.DamageYields {
			if dy.YieldName == "" {
				continue
			}
			yieldID, ok := c.itemsByName[dy.YieldName]
			if !ok {
				return nil, fmt.Errorf("catalog: item %q damage_yield references unknown yield_name %q", item.Name, dy.YieldName)
			}
			dy.YieldDefID = yieldID
			item.DamageYields[i] = dy
		}
		c.itemsByID[id] = item
	}

	for i, recipe := range doc.Recipes {
		id := model.RecipeID(i + 1)
		recipe.ID = id
		outID, ok := c.itemsByName[recipe.OutputDefName]
		if !ok {
			return nil, fmt.Errorf("catalog: recipe %q references unknown output %q", recipe.Name, recipe.OutputDefName)
		}
		recipe.OutputDefID = outID
		for j, ing := range recipe.Ingredients {
			defID, ok := c.itemsByName[ing.DefName]
			if !ok {
				return nil, fmt.Errorf("catalog: recipe %q references unknown ingredient %q", recipe.Name, ing.DefName)
			}
			ing.DefID = defID
			recipe.Ingredients[j] = ing
		}
		c.recipesByID[id] = recipe
	}

	return c, nil
}

func parseArmorSlot(name string) (model.ArmorSlotKind, bool) {
	switch name {
	case "head":
		return model.ArmorSlotHead, true
	case "chest":
		return model.ArmorSlotChest, true
	case "legs":
		return model.ArmorSlotLegs, true
	case "feet":
		return model.ArmorSlotFeet, true
	case "hands":
		return model.ArmorSlotHands, true
	case "back":
		return model.ArmorSlotBack, true
	default:
		return 0, false
	}
}

// Item looks up an ItemDefinition by id.
func (c *Catalog) Item(id model.ItemDefID) (ItemDefinition, bool) {
	item, ok := c.itemsByID[id]
	return item, ok
}

// ItemByName looks up an ItemDefinition by its unique name.
func (c *Catalog) ItemByName(name string) (ItemDefinition, bool) {
	id, ok := c.itemsByName[name]
	if !ok {
		return ItemDefinition{}, false
	}
	return c.itemsByID[id], true
}

// Recipe looks up a Recipe by id.
func (c *Catalog) Recipe(id model.RecipeID) (Recipe, bool) {
	recipe, ok := c.recipesByID[id]
	return recipe, ok
}

// RecipeByName looks up a Recipe by its unique name.
func (c *Catalog) RecipeByName(name string) (Recipe, bool) {
	for _, recipe := range c.recipesByID {
		if recipe.Name == name {
			return recipe, true
		}
	}
	return Recipe{}, false
}

// MaxStackSize adapts the catalog to the model package's invariant
// checker signature (model.CheckQuantityBounds).
func (c *Catalog) MaxStackSize(id model.ItemDefID) (size int, stackable bool) {
	item, ok := c.itemsByID[id]
	if !ok {
		return 1, false
	}
	return item.MaxStackSize, item.Stackable
}
