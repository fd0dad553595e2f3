package session

import (
	"time"

	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/sim"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// Summary is spec.md §3's SessionSummary: the derived statistics for
// one completed session, computed once over the full outcome set
// rather than maintained incrementally — grounded on the teacher's
// journal.RunSummary aggregation pass (journal/summary.go), which
// likewise recomputes from the full trade list rather than
// accumulating running stats mid-run.
type Summary struct {
	ExchangeID     string
	Params         params.StrategyParams
	InitialCapital float64
	FinalEquity    float64
	MinEquity      float64

	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64

	TotalPnLUSD        float64
	ProfitFactor       float64
	AvgTradeDuration   time.Duration
	MaxDrawdownUSD     float64
	MaxDrawdownPct     float64

	SkipCounts signal.SkipCounts
}

// BuildSummary derives a Summary from a completed wave.Result.
func BuildSummary(exchangeID string, p params.StrategyParams, outcomes []sim.Outcome, finalEquity, minEquity float64, skips signal.SkipCounts) Summary {
	s := Summary{
		ExchangeID:     exchangeID,
		Params:         p,
		InitialCapital: p.InitialCapital,
		FinalEquity:    finalEquity,
		MinEquity:      minEquity,
		TotalTrades:    len(outcomes),
		SkipCounts:     skips,
	}

	var grossProfit, grossLoss float64
	var totalDuration time.Duration
	for _, o := range outcomes {
		s.TotalPnLUSD += o.NetPnL
		if o.NetPnL > 0 {
			s.Wins++
			grossProfit += o.NetPnL
		} else if o.NetPnL < 0 {
			s.Losses++
			grossLoss += -o.NetPnL
		}
		totalDuration += o.CloseTime.Sub(o.EntryTime)
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
		s.AvgTradeDuration = totalDuration / time.Duration(s.TotalTrades)
	}

	switch {
	case grossLoss > 0:
		s.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		// Every trade won: there is no loss to divide by. Reported as
		// the gross profit itself rather than +Inf, so summaries stay
		// comparable across sessions and JSON-serializable.
		s.ProfitFactor = grossProfit
	default:
		s.ProfitFactor = 0
	}

	if s.InitialCapital > minEquity {
		s.MaxDrawdownUSD = s.InitialCapital - minEquity
		s.MaxDrawdownPct = s.MaxDrawdownUSD / s.InitialCapital * 100
	}

	s.roundForDisplay()
	return s
}

// roundForDisplay rounds money fields to the cent and rate/ratio
// fields to four decimal places, the precision a SessionSummary is
// reported at once a session is done — full float64 precision is
// still used for every intermediate computation above.
func (s *Summary) roundForDisplay() {
	s.InitialCapital = float64(market.Cash(s.InitialCapital).Round2())
	s.FinalEquity = float64(market.Cash(s.FinalEquity).Round2())
	s.MinEquity = float64(market.Cash(s.MinEquity).Round2())
	s.TotalPnLUSD = float64(market.Cash(s.TotalPnLUSD).Round2())
	s.MaxDrawdownUSD = float64(market.Cash(s.MaxDrawdownUSD).Round2())

	s.WinRate = market.Pct4(s.WinRate)
	s.ProfitFactor = market.Pct4(s.ProfitFactor)
	s.MaxDrawdownPct = market.Pct4(s.MaxDrawdownPct)
}
