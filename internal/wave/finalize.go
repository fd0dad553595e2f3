package wave

import (
	"sort"
	"time"

	"github.com/rustyeddy/wavebacktest/internal/ledger"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/sim"
)

// Finalize closes every position still open once the last wave cohort
// has been processed. It re-derives the close from the position's
// history at simulation_end_time rather than using the projected close
// computed at admission time: every position still open here closes at
// simulation_end_time, even one whose projection ends earlier —
// spec.md §4.4's finalization pass.
//
// A position is relabeled forced_liquidation, with net_pnl pinned to
// exactly the margin floor via the same bankruptcy-price mechanism a
// live liquidation uses, whenever its uncapped loss at simulation end
// would already exceed forced_close_max_loss_fraction of its margin.
// Otherwise it is a plain forced_period_end at its last known price.
func Finalize(open map[string]openPosition, hist HistorySource, p params.StrategyParams, state ledger.State, outcomes []sim.Outcome) (ledger.State, []sim.Outcome) {
	// All finalized closes share the same close time
	// (simulation_end_time), so ascending (close_time, pair_symbol)
	// reduces to pair_symbol order — sorted here rather than left to
	// Go's randomized map iteration, which Release's order-sensitive
	// floating-point sums and the Outcomes slice order cannot tolerate.
	pairSymbols := make([]string, 0, len(open))
	for pairSymbol := range open {
		pairSymbols = append(pairSymbols, pairSymbol)
	}
	sort.Strings(pairSymbols)

	for _, pairSymbol := range pairSymbols {
		pos := open[pairSymbol]
		lastPrice := pos.projected.ClosePrice
		if h, ok := hist.History(pairSymbol); ok {
			if px, ok := h.CloseAtOrBefore(p.SimulationEndTime); ok {
				lastPrice = px
			}
		}

		notional := pos.notional
		entryCommission := notional * p.CommissionRate
		exitCommission := notional * p.CommissionRate

		rawPct := sim.PctMove(pos.sig.Action, pos.entry, lastPrice)
		thresholdPct := -p.ForcedCloseMaxLossFraction * p.PositionSize / notional * 100

		var outcome sim.Outcome
		if rawPct < thresholdPct {
			price := sim.BankruptcyPrice(pos.sig.Action, pos.entry, notional, p.CommissionRate, p.SlippagePct, p.PositionSize, entryCommission)
			gross := sim.GrossPnL(notional, sim.PctMove(pos.sig.Action, pos.entry, price))
			outcome = withReason(pos.projected, sim.ForcedLiquidation, p.SimulationEndTime, price, gross, exitCommission,
				sim.NetPnL(gross, entryCommission, exitCommission, p.PositionSize))
		} else {
			gross := sim.GrossPnL(notional, rawPct)
			outcome = withReason(pos.projected, sim.ForcedPeriodEnd, p.SimulationEndTime, lastPrice, gross, exitCommission,
				sim.NetPnL(gross, entryCommission, exitCommission, p.PositionSize))
		}

		state = state.Release(pos.positionSize, outcome.NetPnL)
		outcomes = append(outcomes, outcome)
		delete(open, pairSymbol)
	}
	return state, outcomes
}

// withReason returns a copy of the projected outcome with its close
// fields replaced by the finalization pass's own recomputation, while
// keeping the entry-side fields (entry price/time/commission,
// peak-favorable tracking) the Simulator already established.
func withReason(base sim.Outcome, reason sim.CloseReason, closeTime time.Time, price, gross, exitCommission, net float64) sim.Outcome {
	base.CloseReason = reason
	base.CloseTime = closeTime
	base.ClosePrice = price
	base.GrossPnL = gross
	base.ExitCommission = exitCommission
	base.NetPnL = net
	return base
}
