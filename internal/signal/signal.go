// Package signal defines the eligible trading signal stream and the
// admission filter applied to it before the Wave Scheduler ever sees a
// signal.
package signal

import "time"

// Action is the signal's directional recommendation. BUY/SELL from the
// upstream feed are normalized to LONG/SHORT at the boundary — the core
// never sees the BUY/SELL spelling.
type Action int

const (
	Long Action = iota
	Short
)

func (a Action) String() string {
	if a == Long {
		return "LONG"
	}
	return "SHORT"
}

// Signal is one time-stamped trade recommendation for a pair.
type Signal struct {
	SignalID       string
	PairSymbol     string
	TradingPairID  string
	ExchangeID     string
	Action         Action
	Timestamp      time.Time
	ScoreWeek      float64
	ScoreMonth     float64
	OIValueUSD     float64 // open interest, USD notional; 0 if unknown
	Volume24hUSD   float64 // 24h quote volume, USD; 0 if unknown
}

// Source returns the ordered signal stream for a session window. Filter
// is applied by the implementation — callers never see ineligible
// signals, only the SkipReason tallies collected along the way.
type Source interface {
	Signals(filter Filter) ([]Signal, SkipCounts, error)
}
