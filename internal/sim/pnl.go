package sim

import "github.com/rustyeddy/wavebacktest/internal/signal"

// PctMove is the directional price-move percent used for every gross
// PnL calculation: favorable movement is always positive regardless
// of direction. Exported so the Wave Scheduler's finalization pass
// can run the same math against a position's last known price.
func PctMove(dir signal.Action, entry, exit float64) float64 {
	if dir == signal.Long {
		return (exit - entry) / entry * 100
	}
	return (entry - exit) / entry * 100
}

// GrossPnL converts a price-move percent into a dollar amount at the
// given notional.
func GrossPnL(notional, pct float64) float64 {
	return notional * pct / 100
}

// MaxLoss is the isolated-margin loss floor: a position can never lose
// more than its margin net of the commission already paid to open it.
func MaxLoss(positionSize, entryCommission float64) float64 {
	return -(positionSize - entryCommission)
}

// CapLossToMargin is the one place the loss-capping invariant is
// enforced, applied at every exit site per the design note: net_pnl
// must never fall below MaxLoss.
func CapLossToMargin(netRaw, positionSize, entryCommission float64) float64 {
	floor := MaxLoss(positionSize, entryCommission)
	if netRaw < floor {
		return floor
	}
	return netRaw
}

// NetPnL runs the full gross-to-net pipeline: gross minus both
// commissions, floored at MaxLoss.
func NetPnL(gross, entryCommission, exitCommission, positionSize float64) float64 {
	return CapLossToMargin(gross-entryCommission-exitCommission, positionSize, entryCommission)
}

// ApplySlippage nudges a close price against the position, per
// direction. Only meaningful for the close reasons appliesSlippage
// reports true for.
func ApplySlippage(dir signal.Action, price, slippagePct float64) float64 {
	if dir == signal.Long {
		return price * (1 - slippagePct/100)
	}
	return price * (1 + slippagePct/100)
}

// BankruptcyPrice solves for the close price that makes NetPnL come
// out to exactly MaxLoss before slippage is applied, then applies
// slippage. This is the isolated-margin liquidation convention: the
// position loses exactly its margin, never more and never less,
// whether the trigger is a live liquidation mid-bar or a relabeled
// forced_liquidation at period end. Slippage is then layered on top —
// it pushes the close price further against the position, which
// CapLossToMargin clamps straight back to MaxLoss, so the final net
// PnL is unaffected by slippage for this reason; only the recorded
// close price moves.
func BankruptcyPrice(dir signal.Action, entry, notional, commissionRate, slippagePct, positionSize, entryCommission float64) float64 {
	exitCommission := notional * commissionRate
	needed := MaxLoss(positionSize, entryCommission) + entryCommission + exitCommission
	pct := needed / notional * 100

	var base float64
	if dir == signal.Long {
		base = entry * (1 + pct/100)
	} else {
		base = entry * (1 - pct/100)
	}
	return ApplySlippage(dir, base, slippagePct)
}
