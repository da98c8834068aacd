// Package config provides centralized configuration management.
// This is the single source of truth for tick cadence, vitals rates, and
// DoS-protection limits.
//
// IMPORTANT: When changing values, only modify this file. All other
// packages should reference these values rather than redeclaring constants.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// TICK CONFIGURATION
// =============================================================================

// TickConfig controls the cadence of the five tick streams (global, vitals,
// appliance, effects, crafting-finish). All streams share one nominal rate;
// a 1s-per-tick server follows the source faithfully.
type TickConfig struct {
	TicksPerSecond int // nominal rate for all scheduled streams
}

// DefaultTick returns the default tick configuration.
func DefaultTick() TickConfig {
	return TickConfig{TicksPerSecond: 1}
}

// TickFromEnv returns tick configuration with environment variable overrides.
func TickFromEnv() TickConfig {
	cfg := DefaultTick()
	if tps := getEnvInt("TICKS_PER_SECOND", 0); tps > 0 {
		cfg.TicksPerSecond = tps
	}
	return cfg
}

// =============================================================================
// VITALS CONFIGURATION
// =============================================================================

// VitalsConfig holds the per-second drain/recovery rates used by the player
// vitals tick (spec.md §4.6).
type VitalsConfig struct {
	HungerDrainPerSec      float64
	ThirstDrainPerSec      float64
	StaminaDrainSprintRate float64
	StaminaRecoverRate     float64
	WarmthLowThreshold     float64 // below this, health recovery is blocked
	LowVitalHealthLoss     float64 // health lost per second per vital below WarmthLowThreshold, doubled at 0
	RecoverHealthThreshold float64 // health/hunger/thirst must be >= this to regen
	HealthRecoverPerSec    float64
}

// DefaultVitals returns the default vitals configuration.
func DefaultVitals() VitalsConfig {
	return VitalsConfig{
		HungerDrainPerSec:      0.08,
		ThirstDrainPerSec:      0.12,
		StaminaDrainSprintRate: 14.0,
		StaminaRecoverRate:     10.0,
		WarmthLowThreshold:     20.0,
		LowVitalHealthLoss:     1.0,
		RecoverHealthThreshold: 51.0,
		HealthRecoverPerSec:    1.0,
	}
}

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig holds world-bounds and chunking settings.
type WorldConfig struct {
	Width, Height float64 // world bounds in world units
	ChunkSize     float64 // quantization grid used by the chunk index
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Width:     8000,
		Height:    8000,
		ChunkSize: 100,
	}
}

// WorldFromEnv returns world configuration with environment variable overrides.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()
	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	return cfg
}

// =============================================================================
// RESOURCE LIMITS (DoS protection)
// =============================================================================

// ResourceLimits controls hard caps on table growth so a misbehaving or
// malicious caller cannot exhaust the store.
type ResourceLimits struct {
	MaxTotalPlayers   int
	MaxDroppedItems   int
	MaxActiveEffects  int
	MaxCraftingQueued int // per player
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxTotalPlayers:   100_000,
		MaxDroppedItems:   20_000,
		MaxActiveEffects:  50_000,
		MaxCraftingQueued: 50,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Tick   TickConfig
	Vitals VitalsConfig
	World  WorldConfig
	Limits ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Tick:   TickFromEnv(),
		Vitals: DefaultVitals(),
		World:  WorldFromEnv(),
		Limits: DefaultLimits(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
