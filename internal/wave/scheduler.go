// Package wave is the Wave Scheduler: it buckets admitted signals into
// 15-minute cohorts, admits them against capital and per-wave caps,
// and tracks positions that outlive their own wave until they close or
// the session ends — grounded on the teacher's pkg/sim.Engine run loop
// (sim/engine.go's tick-ordered event processing) but rewritten around
// discrete wave cohorts instead of a continuous tick stream, since
// there is no live clock here, only the signal timestamps present in
// the session.
package wave

import (
	"sort"
	"time"

	"github.com/rustyeddy/wavebacktest/internal/ledger"
	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/sim"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// HistorySource resolves a pair's candle history for the session.
// Looking up a pair with no known history returns ok=false, which the
// scheduler turns into a no_history skip rather than an error — a
// signal for an untracked pair is an ordinary, expected occurrence in
// a live signal feed.
type HistorySource interface {
	History(pairSymbol string) (market.History, bool)
}

// Key truncates t down to the wave boundary at interval (the 15-minute
// cohort key from spec.md §4.4): floor(minute/interval)*interval.
func Key(t time.Time, interval time.Duration) time.Time {
	return t.Truncate(interval)
}

// Result is everything one scheduler run produces: every concluded
// trade, the skip tally, and the ledger state at session end.
type Result struct {
	Outcomes []sim.Outcome
	Skips    signal.SkipCounts
	Final    ledger.State
}

// Run drives every admitted signal through wave-cohort admission,
// open-position tracking, and end-of-session finalization. signals
// must already have passed the eligibility filter (internal/signal).
// Wave cohorts are the distinct wave keys actually present among
// signals, not a dense clock sweep through simulation_end_time — a
// session's last admitted signal can fall hours before
// simulation_end_time, which is exactly the case Finalize exists to
// resolve: positions still open after the last cohort.
func Run(signals []signal.Signal, hist HistorySource, p params.StrategyParams) Result {
	byWave := map[time.Time][]signal.Signal{}
	var waveKeys []time.Time
	seen := map[time.Time]bool{}
	for _, s := range signals {
		wk := Key(s.Timestamp, p.WaveInterval)
		byWave[wk] = append(byWave[wk], s)
		if !seen[wk] {
			seen[wk] = true
			waveKeys = append(waveKeys, wk)
		}
	}
	sort.Slice(waveKeys, func(i, j int) bool { return waveKeys[i].Before(waveKeys[j]) })

	state := ledger.New(p.InitialCapital)
	open := map[string]openPosition{}
	skips := signal.SkipCounts{}
	var outcomes []sim.Outcome

	for _, wk := range waveKeys {
		state, outcomes = closeDue(open, wk, state, outcomes)
		state = markToMarket(open, hist, wk, state)

		cohort := byWave[wk]
		sort.SliceStable(cohort, func(i, j int) bool {
			if cohort[i].ScoreWeek != cohort[j].ScoreWeek {
				return cohort[i].ScoreWeek > cohort[j].ScoreWeek
			}
			if cohort[i].ScoreMonth != cohort[j].ScoreMonth {
				return cohort[i].ScoreMonth > cohort[j].ScoreMonth
			}
			return cohort[i].SignalID < cohort[j].SignalID
		})

		admitted := 0
		for _, s := range cohort {
			if admitted >= p.MaxTradesPerWave {
				skips.Add(signal.WaveCapReached)
				continue
			}
			if _, isOpen := open[s.PairSymbol]; isOpen {
				skips.Add(signal.DuplicatePair)
				continue
			}

			h, ok := hist.History(s.PairSymbol)
			if !ok {
				skips.Add(signal.NoHistory)
				continue
			}

			var reserved bool
			state, reserved = state.TryReserve(p.PositionSize)
			if !reserved {
				skips.Add(signal.InsufficientCapital)
				continue
			}

			outcome, entered := sim.Simulate(s, h, p)
			if !entered {
				state = state.Release(p.PositionSize, 0)
				skips.Add(signal.NoEntry)
				continue
			}

			admitted++
			if !outcome.CloseTime.After(wk) {
				state = state.Release(p.PositionSize, outcome.NetPnL)
				outcomes = append(outcomes, outcome)
				continue
			}
			open[s.PairSymbol] = openPosition{
				sig:          s,
				entry:        outcome.EntryPrice,
				positionSize: p.PositionSize,
				notional:     p.EffectiveNotional(),
				projected:    outcome,
			}
		}
	}

	state, outcomes = Finalize(open, hist, p, state, outcomes)

	return Result{Outcomes: outcomes, Skips: skips, Final: state}
}

// closeDue releases and appends every open position whose projected
// close time has arrived by waveTime, in ascending (projected close
// time, pair_symbol) order — map iteration order is randomized, and
// both Release's floating-point sums and the Outcomes slice order are
// order-sensitive, so a session must not depend on Go's map ordering
// to stay reproducible across runs.
func closeDue(open map[string]openPosition, waveTime time.Time, state ledger.State, outcomes []sim.Outcome) (ledger.State, []sim.Outcome) {
	var due []string
	for pairSymbol, pos := range open {
		if !pos.projected.CloseTime.After(waveTime) {
			due = append(due, pairSymbol)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		ti, tj := open[due[i]].projected.CloseTime, open[due[j]].projected.CloseTime
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return due[i] < due[j]
	})

	for _, pairSymbol := range due {
		pos := open[pairSymbol]
		state = state.Release(pos.positionSize, pos.projected.NetPnL)
		outcomes = append(outcomes, pos.projected)
		delete(open, pairSymbol)
	}
	return state, outcomes
}

// markToMarket prices every remaining open position at this wave's
// boundary and folds the resulting floating equity into the ledger's
// running minimum. A position with no history, or no candle at or
// before the boundary, is left out of the snapshot, so its floating PnL
// counts as zero in that reading.
func markToMarket(open map[string]openPosition, hist HistorySource, wk time.Time, state ledger.State) ledger.State {
	if len(open) == 0 {
		return state
	}
	marks := map[string]float64{}
	exposures := map[string]ledger.OpenExposure{}
	for pairSymbol, pos := range open {
		h, ok := hist.History(pairSymbol)
		if !ok {
			continue
		}
		px, ok := h.CloseAtOrBefore(wk)
		if !ok {
			continue
		}
		marks[pairSymbol] = px
		dir := 0
		if pos.sig.Action == signal.Short {
			dir = 1
		}
		exposures[pairSymbol] = ledger.OpenExposure{
			Direction:         dir,
			EntryPrice:        pos.entry,
			EffectiveNotional: pos.notional,
			PositionSize:      pos.positionSize,
		}
	}
	if eq, ok := state.SnapshotEquity(exposures, market.NewSnapshot(marks)); ok {
		state = state.ObserveEquity(eq)
	}
	return state
}
