package scheduler

import "ashfall/internal/model"

// FullDayDurationSecs is the length of one full day/night cycle. spec.md
// §3.1 names WorldState's "current time-of-day enum" but never fixes a
// cycle length; this implementation's own figure, chosen so a full cycle
// is long enough to feel like a day without making the hot-zone/warmth
// worked scenarios in §8 span unreasonable real time.
const FullDayDurationSecs = 1800.0

// timeOfDayPhase is the nine-way split of a day spec.md's WorldState
// "time-of-day enum" drives ambient warmth from — derived from
// TimeOfDaySec rather than stored as its own field, so the clock and the
// phase it implies can never drift out of sync.
type timeOfDayPhase uint8

const (
	phaseDawn timeOfDayPhase = iota
	phaseTwilightMorning
	phaseMorning
	phaseNoon
	phaseAfternoon
	phaseDusk
	phaseTwilightEvening
	phaseNight
	phaseMidnight
	phaseCount
)

// baseWarmthChangePerSec is each phase's ambient warmth rate (spec.md
// §4.6 "adjust warmth by time-of-day base rate"), grounded on
// original_source/server/src/player_stats.rs's per-phase match arm.
func baseWarmthChangePerSec(phase timeOfDayPhase) float64 {
	switch phase {
	case phaseMidnight:
		return -2.0
	case phaseNight:
		return -1.5
	case phaseTwilightEvening:
		return -0.5
	case phaseDusk:
		return 0.0
	case phaseAfternoon:
		return 1.0
	case phaseNoon:
		return 2.0
	case phaseMorning:
		return 1.0
	case phaseTwilightMorning:
		return 0.5
	case phaseDawn:
		return 0.0
	default:
		return 0.0
	}
}

// phaseAt maps a point in the day cycle to its phase.
func phaseAt(timeOfDaySec float64) timeOfDayPhase {
	span := FullDayDurationSecs / float64(phaseCount)
	wrapped := timeOfDaySec
	for wrapped < 0 {
		wrapped += FullDayDurationSecs
	}
	wrapped = mod(wrapped, FullDayDurationSecs)
	phase := timeOfDayPhase(int(wrapped / span))
	if phase >= phaseCount {
		phase = phaseCount - 1
	}
	return phase
}

func mod(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	return a
}

// advanceWorldClock advances WorldState's time-of-day clock by
// elapsedSecs, wrapping at FullDayDurationSecs, and returns the current
// ambient warmth base rate.
func advanceWorldClock(world model.WorldState, elapsedSecs float64) (model.WorldState, float64) {
	world.TickCount++
	world.TimeOfDaySec = mod(world.TimeOfDaySec+elapsedSecs, FullDayDurationSecs)
	return world, baseWarmthChangePerSec(phaseAt(world.TimeOfDaySec))
}
