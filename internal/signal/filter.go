package signal

// Filter is the full eligibility predicate from spec.md §3, grounded on
// the teacher's risk.Policy/risk.Evaluate shape (risk/policy.go,
// risk/checks.go): a plain struct of thresholds plus a function that
// walks them in order and records which one a candidate failed,
// generalized here from "should this order be placed" to "is this
// signal eligible" and from a single Decision to a per-signal
// SkipReason.
type Filter struct {
	ScoreWeekMin  float64
	ScoreMonthMin float64

	// AllowedHours, if non-empty, restricts eligible signals to these
	// hours-of-day (0-23, UTC). Empty means all hours pass.
	AllowedHours map[int]bool

	// SelectedExchanges, if non-empty, restricts eligible signals to
	// these exchange IDs. Empty means all exchanges pass.
	SelectedExchanges map[string]bool

	// LiquidityEnabled turns on the OI/volume liquidity gate.
	LiquidityEnabled bool
	MinOIUSD         float64
	MinVolumeUSD     float64
}

// Eligible evaluates s against f in the order spec.md §3 specifies:
// score, then hour, then exchange, then liquidity. The first failing
// gate wins and is returned as reason; ok is true only if every gate
// passes.
func (f Filter) Eligible(s Signal) (ok bool, reason SkipReason) {
	if s.ScoreWeek < f.ScoreWeekMin || s.ScoreMonth < f.ScoreMonthMin {
		return false, FilterScore
	}
	if len(f.AllowedHours) > 0 && !f.AllowedHours[s.Timestamp.UTC().Hour()] {
		return false, FilterHour
	}
	if len(f.SelectedExchanges) > 0 && !f.SelectedExchanges[s.ExchangeID] {
		return false, FilterExchange
	}
	if f.LiquidityEnabled {
		if s.OIValueUSD < f.MinOIUSD || s.Volume24hUSD < f.MinVolumeUSD {
			return false, FilterLiquidity
		}
	}
	return true, ""
}

// Apply filters signals into a new slice, preserving order, and
// returns the eligible subset alongside a tally of why the rest were
// dropped. The input slice is left unchanged.
func Apply(signals []Signal, f Filter) ([]Signal, SkipCounts) {
	counts := SkipCounts{}
	eligible := make([]Signal, 0, len(signals))
	for _, s := range signals {
		if ok, reason := f.Eligible(s); ok {
			eligible = append(eligible, s)
		} else {
			counts.Add(reason)
		}
	}
	return eligible, counts
}
