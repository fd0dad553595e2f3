package sim

import (
	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// Simulate walks one signal's entry through its candle history and
// returns the trade outcome it would produce, plus whether an entry
// happened at all. It is a pure function: given the same signal,
// history and params it always returns the same outcome, so the Wave
// Scheduler can call it once per admitted signal with no suspension
// points and no shared mutable state (spec.md §5).
func Simulate(sig signal.Signal, hist market.History, p params.StrategyParams) (Outcome, bool) {
	entryCandle, ok := hist.EntryCandle(sig.Timestamp)
	if !ok || entryCandle.Timestamp.After(p.SimulationEndTime) {
		return Outcome{}, false
	}

	dir := sig.Action
	entry := entryCandle.Open
	notional := p.EffectiveNotional()
	entryCommission := notional * p.CommissionRate
	exitCommission := notional * p.CommissionRate

	walk := hist.From(entryCandle.Timestamp)
	var candles []market.Candle
	for _, c := range walk {
		if c.Timestamp.After(p.SimulationEndTime) {
			break
		}
		candles = append(candles, c)
	}
	if len(candles) == 0 {
		return Outcome{}, false
	}

	absolutePeak := entry
	for _, c := range candles {
		if dir == signal.Long {
			if c.High > absolutePeak {
				absolutePeak = c.High
			}
		} else if c.Low < absolutePeak {
			absolutePeak = c.Low
		}
	}

	finish := func(o Outcome) Outcome {
		o.SignalID = sig.SignalID
		o.PairSymbol = sig.PairSymbol
		o.Direction = dir
		o.EntryTime = entryCandle.Timestamp
		o.EntryPrice = entry
		o.EntryCommission = entryCommission
		o.PeakFavorablePrice = absolutePeak

		peakPct := PctMove(dir, entry, absolutePeak)
		potential := GrossPnL(notional, peakPct) - entryCommission - exitCommission
		if potential < 0 {
			potential = 0
		}
		o.MaxPotentialNetPnL = potential
		return o
	}

	closeAt := func(reason CloseReason, closeTime market.Candle, price float64) Outcome {
		px := price
		if reason.appliesSlippage() {
			px = ApplySlippage(dir, price, p.SlippagePct)
		}
		gross := GrossPnL(notional, PctMove(dir, entry, px))
		return finish(Outcome{
			CloseTime:      closeTime.Timestamp,
			ClosePrice:     px,
			CloseReason:    reason,
			GrossPnL:       gross,
			ExitCommission: exitCommission,
			NetPnL:         NetPnL(gross, entryCommission, exitCommission, p.PositionSize),
		})
	}

	lv := newLevels(dir, entry, p.StopLossPct, p.TakeProfitPct, p.TrailingActivationPct)
	tl := newTimeline(entryCandle.Timestamp, p.Phase1Hours, p.BreakevenWindowHours)

	var trail *trailingMachine
	if p.UseTrailingStop {
		trail = newTrailingMachine(dir, entry, p.TrailingDistancePct, lv.trailingActivation)
	}

	for i, c := range candles {
		switch tl.phaseAt(c.Timestamp) {
		case phaseActive:
			if liquidationHit(dir, c, entry, p.Leverage, p.LiquidationThreshold) {
				price := BankruptcyPrice(dir, entry, notional, p.CommissionRate, p.SlippagePct, p.PositionSize, entryCommission)
				gross := GrossPnL(notional, PctMove(dir, entry, price))
				return finish(Outcome{
					CloseTime:      c.Timestamp,
					ClosePrice:     price,
					CloseReason:    Liquidation,
					GrossPnL:       gross,
					ExitCommission: exitCommission,
					NetPnL:         NetPnL(gross, entryCommission, exitCommission, p.PositionSize),
				}), true
			}

			// Intra-bar order when a single candle touches both levels:
			// LONG checks stop-loss before take-profit; SHORT checks
			// take-profit before stop-loss. This asymmetry is faithful to
			// the reference walk, not arbitrary — swapping it reclassifies
			// some wins as slipped losses on wide bars.
			if trail == nil {
				if dir == signal.Long {
					if c.Low <= lv.stopLoss {
						return closeAt(StopLoss, c, lv.stopLoss), true
					}
					if c.High >= lv.takeProfit {
						return closeAt(TakeProfit, c, lv.takeProfit), true
					}
				} else {
					if c.Low <= lv.takeProfit {
						return closeAt(TakeProfit, c, lv.takeProfit), true
					}
					if c.High >= lv.stopLoss {
						return closeAt(StopLoss, c, lv.stopLoss), true
					}
				}
				continue
			}

			if !trail.armed {
				if dir == signal.Long && c.Low <= lv.stopLoss {
					return closeAt(StopLoss, c, lv.stopLoss), true
				}
				if dir == signal.Short && c.High >= lv.stopLoss {
					return closeAt(StopLoss, c, lv.stopLoss), true
				}
			}
			if trail.step(c, i) {
				return closeAt(TrailingStop, c, trail.stop), true
			}

		case phaseBreakeven:
			if dir == signal.Long && c.High >= entry {
				return finish(Outcome{
					CloseTime:      c.Timestamp,
					ClosePrice:     entry,
					CloseReason:    Breakeven,
					GrossPnL:       0,
					ExitCommission: exitCommission,
					NetPnL:         NetPnL(0, entryCommission, exitCommission, p.PositionSize),
				}), true
			}
			if dir == signal.Short && c.Low <= entry {
				return finish(Outcome{
					CloseTime:      c.Timestamp,
					ClosePrice:     entry,
					CloseReason:    Breakeven,
					GrossPnL:       0,
					ExitCommission: exitCommission,
					NetPnL:         NetPnL(0, entryCommission, exitCommission, p.PositionSize),
				}), true
			}

		case phaseSmartLoss:
			hours := tl.smartLossHours(c.Timestamp)
			decayPct := p.SmartLossPctPerHour * float64(hours)
			var price float64
			if dir == signal.Long {
				price = entry * (1 - decayPct/100)
			} else {
				price = entry * (1 + decayPct/100)
			}
			return closeAt(SmartLoss, c, price), true
		}
	}

	// Period-end guard: nothing triggered through simulation_end_time.
	// This is a projected outcome only — the Wave Scheduler's
	// finalization pass re-derives and potentially relabels it.
	last := candles[len(candles)-1]
	closePrice, _ := hist.CloseAtOrBefore(last.Timestamp)
	gross := GrossPnL(notional, PctMove(dir, entry, closePrice))
	return finish(Outcome{
		CloseTime:      last.Timestamp,
		ClosePrice:     closePrice,
		CloseReason:    ForcedPeriodEnd,
		GrossPnL:       gross,
		ExitCommission: exitCommission,
		NetPnL:         NetPnL(gross, entryCommission, exitCommission, p.PositionSize),
	}), true
}

// liquidationHit reports whether this candle's worst intra-bar touch
// breaches the liquidation threshold, scaled by leverage.
func liquidationHit(dir signal.Action, c market.Candle, entry float64, leverage int, threshold float64) bool {
	var worstPct float64
	if dir == signal.Long {
		worstPct = (c.Low - entry) / entry * 100
	} else {
		worstPct = (entry - c.High) / entry * 100
	}
	limit := -(100 / float64(leverage)) * threshold
	return worstPct <= limit
}
