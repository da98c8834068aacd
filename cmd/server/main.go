package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ashfall/internal/catalog"
	"ashfall/internal/config"
	"ashfall/internal/db"
	"ashfall/internal/events"
	"ashfall/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🏕️  ================================")
	log.Println("🏕️   ASHFALL - WORLD CORE")
	log.Println("🏕️  ================================")

	appConfig := config.Load()
	log.Printf("⚙️  Config: %d tick/s, world %.0fx%.0f, chunk size %.0f",
		appConfig.Tick.TicksPerSecond, appConfig.World.Width, appConfig.World.Height, appConfig.World.ChunkSize)
	log.Printf("🛡️  Resource limits: %d players, %d dropped items, %d active effects, %d queued crafts/player",
		appConfig.Limits.MaxTotalPlayers, appConfig.Limits.MaxDroppedItems, appConfig.Limits.MaxActiveEffects, appConfig.Limits.MaxCraftingQueued)

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("⚠️ Failed to load item/recipe catalog: %v", err)
	}
	log.Printf("📦 Catalog loaded")

	database := db.New()

	eventLog := events.NewLog()
	eventLogPath := getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl")
	if err := eventLog.Start(eventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
		eventLog = nil
	} else {
		log.Printf("📝 Event log: %s", eventLogPath)
	}

	seed := getEnvInt64("WORLD_RNG_SEED", 1)
	sched := scheduler.New(database, cat, appConfig.Vitals, eventLog, seed)
	sched.Start(appConfig.Tick)
	log.Println("✅ Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	sched.Stop()
	if eventLog != nil {
		eventLog.Stop()
	}
	log.Println("👋 Goodbye!")
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return parsed
}
