// Package ledger is the Capital Ledger: isolated-margin capital
// accounting shared by every open position in a session, grounded on
// the teacher's pkg/broker account-balance bookkeeping (reserve on
// open, release with realized PnL on close) but stripped of any
// live-order concept — there is no broker here, only arithmetic.
package ledger

import "github.com/rustyeddy/wavebacktest/internal/market"

// State is the running capital position for one session: how much
// cash is free to admit new trades, and how much is tied up as margin
// in currently open positions.
type State struct {
	Free     float64
	Reserved float64
	MinEquity float64
}

// New starts a ledger with the full initial capital free.
func New(initialCapital float64) State {
	return State{Free: initialCapital, Reserved: 0, MinEquity: initialCapital}
}

// Equity is free plus reserved capital — the static book value,
// ignoring unrealized PnL on open positions.
func (s State) Equity() float64 {
	return s.Free + s.Reserved
}

// TryReserve attempts to commit positionSize of margin to a new
// position. It fails (ok=false, state unchanged) if free capital is
// insufficient — the insufficient_capital skip reason at the call
// site.
func (s State) TryReserve(positionSize float64) (State, bool) {
	if positionSize > s.Free {
		return s, false
	}
	s.Free -= positionSize
	s.Reserved += positionSize
	return s, true
}

// ObserveEquity records a mark-to-market equity reading (free plus
// reserved plus floating PnL on open positions) against the running
// minimum. Unlike Release, it never moves Free or Reserved — only
// MinEquity can change, since floating losses are not yet realized.
func (s State) ObserveEquity(equity float64) State {
	if equity < s.MinEquity {
		s.MinEquity = equity
	}
	return s
}

// Release returns a position's margin to free capital and applies its
// realized net PnL. It is the only place equity actually changes.
func (s State) Release(positionSize, netPnL float64) State {
	s.Reserved -= positionSize
	s.Free += positionSize + netPnL
	if eq := s.Equity(); eq < s.MinEquity {
		s.MinEquity = eq
	}
	return s
}

// maxFloatingLossFraction is the floor a single open position's
// floating loss is capped at before it is summed into equity: a
// position can never drag mark-to-market equity down by more than
// 95% of its own margin, isolated-margin style, even if the raw
// percent move implies a deeper loss.
const maxFloatingLossFraction = 0.95

// SnapshotEquity computes mark-to-market equity: free plus reserved
// capital plus the sum of unrealized floating PnL across every open
// position, priced via lookup. It never silently treats a missing
// price as zero — ok is false if any open pair's price is unknown,
// forcing the caller to decide (the design note's compile-time
// impossibility of an "empty price map" is the market.PriceLookup
// shape; this is its runtime counterpart). Each position's floating
// PnL is floored at -0.95 * its margin before summing, so one deeply
// underwater position can't drag equity below what isolated margin
// would actually allow.
func (s State) SnapshotEquity(openPositions map[string]OpenExposure, prices market.PriceLookup) (float64, bool) {
	equity := s.Equity()
	for pairSymbol, exp := range openPositions {
		price, ok := prices.Price(pairSymbol)
		if !ok {
			return 0, false
		}
		pnl := exp.FloatingPnL(price)
		if floor := -maxFloatingLossFraction * exp.PositionSize; pnl < floor {
			pnl = floor
		}
		equity += pnl
	}
	return equity, true
}

// OpenExposure is the minimal shape SnapshotEquity needs to compute
// floating PnL for one open position, decoupled from wave.Position so
// this package has no dependency on the scheduler.
type OpenExposure struct {
	Direction         int // 0 = long, 1 = short, mirrors signal.Action's int encoding
	EntryPrice        float64
	EffectiveNotional float64
	PositionSize      float64 // margin committed to this position, the floating-loss cap's base
}

func (e OpenExposure) FloatingPnL(currentPrice float64) float64 {
	var pct float64
	if e.Direction == 0 {
		pct = (currentPrice - e.EntryPrice) / e.EntryPrice * 100
	} else {
		pct = (e.EntryPrice - currentPrice) / e.EntryPrice * 100
	}
	return e.EffectiveNotional * pct / 100
}
