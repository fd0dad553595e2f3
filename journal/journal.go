// Package journal is the Result Sink: where a completed session's
// trades and summary land, grounded on the teacher's journal.Journal
// interface (journal/journal.go) — narrowed from the teacher's
// TradeRecord/EquitySnapshot pair to the two operations a backtest
// session actually produces, append-once per trade and a final
// idempotent summary write.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/wavebacktest/internal/sim"
)

// TradeRecord is one journaled trade: a sim.Outcome plus the session
// it belongs to, the unit the teacher's journal.TradeRecord always
// carries alongside the raw PnL numbers.
type TradeRecord struct {
	SessionID string
	sim.Outcome
}

// SummaryRecord is one journaled session summary. Defined here rather
// than imported from internal/session so this package never depends
// on the session orchestration layer — only on the trade shape every
// session produces.
type SummaryRecord struct {
	SessionID      string
	ExchangeID     string
	StartedAt      time.Time
	InitialCapital float64
	FinalEquity    float64
	MinEquity      float64
	TotalTrades    int
	Wins           int
	Losses         int
	WinRate        float64
	TotalPnLUSD    float64
	ProfitFactor   float64
	MaxDrawdownUSD float64
	MaxDrawdownPct float64
}

// Journal is the external Result Sink collaborator (spec.md §6).
// Both operations are idempotent on (session_id, signal_id) /
// session_id respectively — replaying a session's append calls after
// a crash must not duplicate rows.
type Journal interface {
	AppendTrade(ctx context.Context, rec TradeRecord) error
	WriteSummary(ctx context.Context, rec SummaryRecord) error
	Close() error
}
