package params

import "context"

// Candidate is one prior backtest run's result for a given exchange,
// grounded on the teacher's journal.BacktestRun record — a persisted
// (params, total_pnl_usd, win_rate) tuple, here narrowed to just the
// fields the Session Runner's resolution rule (spec.md §4.5) needs.
type Candidate struct {
	Params     StrategyParams
	TotalPnLUSD float64
	WinRate    float64
}

// History is the external params-source collaborator from spec.md §6:
// for a given exchange, the full set of previously backtested parameter
// combinations to choose among.
type History interface {
	Best(ctx context.Context, exchangeID string) ([]Candidate, error)
}

// Resolve implements spec.md §4.5's selection rule: among candidates,
// pick the one maximizing total_pnl_usd; then, among those within 85%
// of that max, pick the one with the highest win_rate. Returns false if
// candidates is empty.
func Resolve(candidates []Candidate) (StrategyParams, bool) {
	if len(candidates) == 0 {
		return StrategyParams{}, false
	}

	maxPnL := candidates[0].TotalPnLUSD
	for _, c := range candidates[1:] {
		if c.TotalPnLUSD > maxPnL {
			maxPnL = c.TotalPnLUSD
		}
	}

	// When every candidate lost money, "within 85% of the max" would
	// otherwise exclude the max itself (0.85 * a negative number is
	// less negative than the number), so only apply the 85% cutoff when
	// there's an actual profit to be within 85% of.
	threshold := maxPnL
	if maxPnL > 0 {
		threshold = maxPnL * 0.85
	}

	best := candidates[0]
	haveBest := false
	for _, c := range candidates {
		if c.TotalPnLUSD < threshold {
			continue
		}
		if !haveBest || c.WinRate > best.WinRate {
			best = c
			haveBest = true
		}
	}
	return best.Params, true
}
