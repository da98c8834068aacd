// Package metrics is this core's in-process Prometheus registry: tick
// timing, reducer-operation outcomes, and active-effect count. No HTTP
// exporter is wired here — exposing a /metrics endpoint is transport,
// which is out of scope; the registry itself is pure observability and
// gets a home regardless. Grounded on fight-club-go/internal/api/
// observability.go's promauto metric declarations and bounded-label
// discipline (no per-player labels, to keep cardinality fixed under a
// hostile or just very large player population).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ashfall_tick_duration_seconds",
		Help:    "Time spent running one tick of a scheduler stream",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"stream"}) // bounded: "global", "vitals", "appliance", "effects", "crafting"

	reducerOpTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ashfall_reducer_operations_total",
		Help: "Reducer operations by name and outcome",
	}, []string{"operation", "outcome"}) // outcome is bounded: "ok", "error"

	activeEffectsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ashfall_active_effects",
		Help: "Current number of ActiveConsumableEffect rows",
	})

	activeChunksGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ashfall_spatial_active_chunks",
		Help: "Number of chunks holding at least one entity in the last cone-targeting scan",
	})

	playersOnlineGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ashfall_players_online",
		Help: "Current number of online players",
	})
)

// RecordTick observes how long one stream's tick took.
func RecordTick(stream string, d time.Duration) {
	tickDuration.WithLabelValues(stream).Observe(d.Seconds())
}

// RecordReducerOp increments the operation/outcome counter. Callers pass
// a fixed operation name ("move_to_container", "attack", "start_crafting",
// ...) — never a caller-supplied string, to keep the label set bounded.
func RecordReducerOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	reducerOpTotal.WithLabelValues(operation, outcome).Inc()
}

// SetActiveEffects updates the active-effects gauge.
func SetActiveEffects(count int) {
	activeEffectsGauge.Set(float64(count))
}

// SetPlayersOnline updates the online-player gauge.
func SetPlayersOnline(count int) {
	playersOnlineGauge.Set(float64(count))
}

// SetActiveChunks updates the spatial-index active-chunk gauge.
func SetActiveChunks(count int) {
	activeChunksGauge.Set(float64(count))
}
