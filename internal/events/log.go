package events

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"ashfall/internal/model"
)

const (
	BufferSize           = 1024                  // circular buffer size
	MaxEventsPerSec      = 2000                  // global rate limit
	MaxEventsPerPlayer   = 50                    // per-player rate limit per second
	BatchFlushSize       = 64                    // events per batch write
	BatchFlushInterval   = 100 * time.Millisecond // how often to flush
	PlayerLimiterCleanup = 5 * time.Minute        // cleanup interval for stale player limiters
)

// Log is a bounded, rate-limited audit trail. A reducer or scheduler
// stream calling Emit never blocks: under load the log drops events
// (oldest first) rather than apply backpressure to game logic, matching
// fight-club-go/internal/game's EventLog circular-buffer contract.
type Log struct {
	buffer    [BufferSize]Event
	writeHead uint64 // atomic, producer position
	readHead  uint64 // atomic, consumer position

	globalLimiter  *rate.Limiter
	playerLimiters sync.Map // model.PlayerID -> *playerLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

type playerLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewLog builds an unstarted Log.
func NewLog() *Log {
	return &Log{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the async batch writer and stale-limiter cleanup
// goroutines, appending newline-delimited JSON to filePath. An empty
// filePath runs the log in-memory only (buffer + rate limiting, no
// persistence) — useful for tests.
func (l *Log) Start(filePath string) error {
	if l.running.Load() {
		return nil
	}
	l.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		l.file = file
	}
	l.running.Store(true)
	l.writerWg.Add(2)
	go l.writerLoop()
	go l.cleanupLoop()
	return nil
}

// Stop drains the buffer with a final flush and closes the output file.
func (l *Log) Stop() {
	l.stopOnce.Do(func() {
		l.running.Store(false)
		close(l.stopChan)
		l.writerWg.Wait()

		l.fileMu.Lock()
		if l.file != nil {
			l.file.Close()
		}
		l.fileMu.Unlock()
	})
}

// Emit admits event into the buffer, returning false if it was rate
// limited or the log isn't running. A full buffer drops the oldest
// pending event rather than reject the new one — under an attack the
// most recent state is more useful than the oldest.
func (l *Log) Emit(event Event) bool {
	if !l.running.Load() {
		return false
	}
	if !l.globalLimiter.Allow() {
		atomic.AddUint64(&l.droppedCount, 1)
		return false
	}
	if event.PlayerID != "" {
		if !l.playerLimiter(event.PlayerID).Allow() {
			atomic.AddUint64(&l.droppedCount, 1)
			return false
		}
	}

	head := atomic.AddUint64(&l.writeHead, 1)
	tail := atomic.LoadUint64(&l.readHead)
	if head-tail >= BufferSize {
		atomic.AddUint64(&l.readHead, 1)
		atomic.AddUint64(&l.droppedCount, 1)
	}

	event.Sequence = head
	l.buffer[(head-1)%BufferSize] = event
	atomic.AddUint64(&l.totalCount, 1)
	return true
}

// EmitSimple builds and emits an Event in one call.
func (l *Log) EmitSimple(eventType Type, tickNum int64, playerID model.PlayerID, payload interface{}) bool {
	return l.Emit(New(eventType, tickNum, playerID, payload))
}

func (l *Log) playerLimiter(playerID model.PlayerID) *rate.Limiter {
	if entry, ok := l.playerLimiters.Load(playerID); ok {
		e := entry.(*playerLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}
	entry := &playerLimiterEntry{
		limiter:  rate.NewLimiter(MaxEventsPerPlayer, MaxEventsPerPlayer/10),
		lastUsed: time.Now(),
	}
	actual, _ := l.playerLimiters.LoadOrStore(playerID, entry)
	return actual.(*playerLimiterEntry).limiter
}

func (l *Log) writerLoop() {
	defer l.writerWg.Done()
	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)
	for {
		select {
		case <-l.stopChan:
			batch = l.collectBatch(batch[:0])
			if len(batch) > 0 {
				l.flushBatch(batch)
			}
			return
		case <-ticker.C:
			batch = l.collectBatch(batch[:0])
			if len(batch) > 0 {
				l.flushBatch(batch)
			}
		}
	}
}

func (l *Log) cleanupLoop() {
	defer l.writerWg.Done()
	ticker := time.NewTicker(PlayerLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupPlayerLimiters()
		}
	}
}

func (l *Log) cleanupPlayerLimiters() {
	cutoff := time.Now().Add(-PlayerLimiterCleanup)
	l.playerLimiters.Range(func(key, value interface{}) bool {
		if value.(*playerLimiterEntry).lastUsed.Before(cutoff) {
			l.playerLimiters.Delete(key)
		}
		return true
	})
}

func (l *Log) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&l.writeHead)
	tail := atomic.LoadUint64(&l.readHead)
	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, l.buffer[i%BufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&l.readHead, uint64(len(batch)))
	}
	return batch
}

func (l *Log) flushBatch(batch []Event) {
	l.fileMu.Lock()
	defer l.fileMu.Unlock()
	if l.file == nil {
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}
}

// Stats reports buffer occupancy and drop counts for monitoring.
type Stats struct {
	Total   uint64
	Dropped uint64
	Pending uint64
	Running bool
}

func (l *Log) Stats() Stats {
	head := atomic.LoadUint64(&l.writeHead)
	tail := atomic.LoadUint64(&l.readHead)
	return Stats{
		Total:   atomic.LoadUint64(&l.totalCount),
		Dropped: atomic.LoadUint64(&l.droppedCount),
		Pending: head - tail,
		Running: l.running.Load(),
	}
}
