package sim

import (
	"time"

	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// timeline holds the three phase boundaries derived from a signal's
// entry time and the strategy's phase durations. Phase 1 runs
// [entry, phase1End]; phase 2 runs (phase1End, breakevenEnd]; phase 3
// runs everything after that, up to simulation_end_time.
type timeline struct {
	entry        time.Time
	phase1End    time.Time
	breakevenEnd time.Time
}

func newTimeline(entry time.Time, phase1Hours, breakevenWindowHours int) timeline {
	phase1End := entry.Add(time.Duration(phase1Hours) * time.Hour)
	return timeline{
		entry:        entry,
		phase1End:    phase1End,
		breakevenEnd: phase1End.Add(time.Duration(breakevenWindowHours) * time.Hour),
	}
}

type phase int

const (
	phaseActive phase = iota
	phaseBreakeven
	phaseSmartLoss
)

func (tl timeline) phaseAt(t time.Time) phase {
	switch {
	case !t.After(tl.phase1End):
		return phaseActive
	case !t.After(tl.breakevenEnd):
		return phaseBreakeven
	default:
		return phaseSmartLoss
	}
}

// smartLossHours is the number of whole hours elapsed since the
// breakeven window closed, rounded up, minimum 1 — spec.md's decay
// schedule charges for any partial hour in the bar that crosses into
// phase 3.
func (tl timeline) smartLossHours(t time.Time) int {
	elapsed := t.Sub(tl.breakevenEnd)
	hours := int(elapsed / time.Hour)
	if elapsed%time.Hour != 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours
}

// levels holds the fixed price levels derived once at entry: stop
// loss, take profit, and the trailing stop's activation price. All
// three mirror per direction.
type levels struct {
	stopLoss           float64
	takeProfit         float64
	trailingActivation float64
}

func newLevels(dir signal.Action, entry, stopLossPct, takeProfitPct, trailingActivationPct float64) levels {
	if dir == signal.Long {
		return levels{
			stopLoss:           entry * (1 - stopLossPct/100),
			takeProfit:         entry * (1 + takeProfitPct/100),
			trailingActivation: entry * (1 + trailingActivationPct/100),
		}
	}
	return levels{
		stopLoss:           entry * (1 + stopLossPct/100),
		takeProfit:         entry * (1 - takeProfitPct/100),
		trailingActivation: entry * (1 - trailingActivationPct/100),
	}
}
