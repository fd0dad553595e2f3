// Package sim is the Position Simulator: a pure function from one
// signal plus its candle history to a trade outcome, grounded on the
// teacher's sim.Trade/sim.Engine shape (sim/trade.go, sim/engine.go)
// but rewritten as a stateless walk rather than a mutex-guarded engine,
// per spec.md §5 ("no suspension points inside the simulator ... pure
// functions over inputs").
package sim

import (
	"time"

	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// CloseReason is the closed sum type spec.md's design notes call for —
// a typo in a close-reason string used to be a silent bug class in the
// teacher's code (sim/engine.go spells reasons "StopLoss",
// "TakeProfit", "LIQUIDATION", "ManualClose" as ad hoc literals); here
// the set is fixed and every switch over it is exhaustive.
type CloseReason int

const (
	TakeProfit CloseReason = iota
	StopLoss
	TrailingStop
	Liquidation
	Breakeven
	SmartLoss
	ForcedPeriodEnd
	ForcedLiquidation
)

func (r CloseReason) String() string {
	switch r {
	case TakeProfit:
		return "take_profit"
	case StopLoss:
		return "stop_loss"
	case TrailingStop:
		return "trailing_stop"
	case Liquidation:
		return "liquidation"
	case Breakeven:
		return "breakeven"
	case SmartLoss:
		return "smart_loss"
	case ForcedPeriodEnd:
		return "forced_period_end"
	case ForcedLiquidation:
		return "forced_liquidation"
	default:
		return "unknown"
	}
}

// appliesSlippage reports whether slippage is applied to this close
// reason's exit price, per the design note: only stop_loss,
// liquidation, trailing_stop and forced_liquidation do.
func (r CloseReason) appliesSlippage() bool {
	switch r {
	case StopLoss, Liquidation, TrailingStop, ForcedLiquidation:
		return true
	default:
		return false
	}
}

// Outcome is spec.md §3's TradeOutcome.
type Outcome struct {
	SignalID        string
	PairSymbol      string
	Direction       signal.Action
	EntryTime       time.Time
	EntryPrice      float64
	EntryCommission float64

	CloseTime       time.Time
	ClosePrice      float64
	CloseReason     CloseReason
	GrossPnL        float64
	ExitCommission  float64
	NetPnL          float64

	PeakFavorablePrice float64
	MaxPotentialNetPnL float64
}
