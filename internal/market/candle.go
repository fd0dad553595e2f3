// Package market defines the read-only candle history consumed by the
// simulator and wave scheduler.
package market

import "time"

// Candle is one OHLC bar for a pair at a fixed timeframe.
//
// low <= open,close <= high is assumed of every candle; no Store
// implementation here checks it.
type Candle struct {
	Timestamp    time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	MarkPrice    float64 // 0 if not reported by the exchange
	Volume       float64
	OpenInterest float64
}

// Timeframe is the bar width. The simulator only ever asks for
// FiveMinute history.
type Timeframe int

const (
	FiveMinute Timeframe = 5
)

// PriceLookup resolves the current mark for a pair. It is the type the
// Ledger's snapshot_equity operation requires, in place of a raw price
// map. An empty lookup (NewSnapshot of an empty map) still typechecks;
// what it cannot do is report a zero price for a pair it lacks — an
// absent price for an open pair is a lookup failure, not a zero value.
type PriceLookup interface {
	// Price returns the last known price for pairSymbol. ok is false if
	// this lookup has never observed that pair.
	Price(pairSymbol string) (price float64, ok bool)
}
