package market

import (
	"math"
	"strconv"
)

// Cash is a USD-denominated amount, grounded on the teacher's
// market.Price newtype (market/price.go) — a plain float64 underneath,
// but named so ledger and journal code reads as domain-typed rather
// than bare float64 everywhere money changes hands.
type Cash float64

// Round2 rounds to the cent, the precision SessionSummary money fields
// are persisted and displayed at.
func (c Cash) Round2() Cash {
	return Cash(math.Round(float64(c)*100) / 100)
}

func (c Cash) String() string {
	return strconv.FormatFloat(float64(c.Round2()), 'f', 2, 64)
}

// Pct4 rounds a percentage value to four decimal places, the precision
// SessionSummary rate/ratio fields (win_rate, max_drawdown_pct) are
// persisted and displayed at.
func Pct4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
