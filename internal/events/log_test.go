package events

import (
	"os"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"ashfall/internal/model"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func TestEmitAcceptsUntilRunning(t *testing.T) {
	l := NewLog()
	if l.Emit(New(TypeAttack, 1, "alice", DamagePayload{AttackerID: "alice", Damage: 10})) {
		t.Fatal("expected Emit to reject events before Start")
	}

	if err := l.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	if !l.Emit(New(TypeAttack, 1, "alice", DamagePayload{AttackerID: "alice", Damage: 10})) {
		t.Fatal("expected Emit to accept an event once running")
	}

	stats := l.Stats()
	if stats.Total != 1 {
		t.Fatalf("expected total 1, got %d", stats.Total)
	}
}

func TestEmitEnforcesGlobalRateLimit(t *testing.T) {
	l := NewLog()
	l.globalLimiter.SetBurst(1)
	if err := l.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	accepted := 0
	for i := 0; i < 10; i++ {
		if l.Emit(New(TypeTick, int64(i), "", TickPayload{TickCount: int64(i)})) {
			accepted++
		}
	}
	if accepted >= 10 {
		t.Fatalf("expected some events to be rate limited, all %d were accepted", accepted)
	}
	if l.Stats().Dropped == 0 {
		t.Fatal("expected dropped count to reflect rate-limited events")
	}
}

func TestEmitEnforcesPerPlayerRateLimit(t *testing.T) {
	l := NewLog()
	l.globalLimiter.SetBurst(1000)
	if err := l.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	aliceAccepted := 0
	for i := 0; i < MaxEventsPerPlayer*2; i++ {
		if l.Emit(New(TypeAttack, 1, "alice", DamagePayload{AttackerID: "alice"})) {
			aliceAccepted++
		}
	}
	if aliceAccepted >= MaxEventsPerPlayer*2 {
		t.Fatalf("expected alice's burst to be rate limited, got %d accepted", aliceAccepted)
	}

	if !l.Emit(New(TypeAttack, 1, "bob", DamagePayload{AttackerID: "bob"})) {
		t.Fatal("expected a different player's first event to be unaffected by alice's limiter")
	}
}

func TestFullBufferDropsOldestEvent(t *testing.T) {
	l := NewLog()
	l.globalLimiter.SetLimit(rate.Inf)
	if err := l.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	for i := 0; i < BufferSize+10; i++ {
		l.Emit(New(TypeTick, int64(i), "", TickPayload{TickCount: int64(i)}))
	}

	stats := l.Stats()
	if stats.Dropped < 10 {
		t.Fatalf("expected at least 10 dropped events from buffer overflow, got %d", stats.Dropped)
	}
}

func TestStopFlushesPendingEventsToFile(t *testing.T) {
	path := t.TempDir() + "/events.log"
	l := NewLog()
	if err := l.Start(path); err != nil {
		t.Fatalf("Start: %v", err)
	}

	l.EmitSimple(TypeRespawn, 1, "alice", RespawnPayload{PlayerID: "alice", X: 10, Y: 20})
	l.Stop()

	data, err := readFile(path)
	if err != nil {
		t.Fatalf("reading flushed log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected Stop to flush pending events to disk")
	}
}

func TestCleanupRemovesStalePlayerLimiters(t *testing.T) {
	l := NewLog()
	l.globalLimiter.SetBurst(10)
	if err := l.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	l.Emit(New(TypeAttack, 1, "alice", DamagePayload{AttackerID: "alice"}))
	if entry, ok := l.playerLimiters.Load(model.PlayerID("alice")); ok {
		entry.(*playerLimiterEntry).lastUsed = time.Now().Add(-2 * PlayerLimiterCleanup)
	}

	l.cleanupPlayerLimiters()

	if _, ok := l.playerLimiters.Load(model.PlayerID("alice")); ok {
		t.Fatal("expected stale player limiter to be removed")
	}
}
