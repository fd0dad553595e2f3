package journal

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV is a write-only Journal for one-off runs and spot-checking
// output by hand, grounded on the teacher's journal.CSVJournal
// (journal/csv.go) — same open-two-files-and-write-headers shape,
// minus the teacher's separate equity file since this domain has no
// continuous equity stream to log, only per-trade and per-session
// rows.
//
// Unlike SQLite and Memory, CSV is not idempotent: AppendTrade and
// WriteSummary append a new row on every call, so replaying a
// session's calls writes duplicate rows.
type CSV struct {
	trades   *csv.Writer
	sessions *csv.Writer
	tf, sf   *os.File
}

func NewCSV(tradesPath, sessionsPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(sessionsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	sw := csv.NewWriter(sf)

	if err := tw.Write([]string{
		"session_id", "signal_id", "pair_symbol", "direction", "entry_time", "entry_price",
		"entry_commission", "close_time", "close_price", "close_reason", "gross_pnl",
		"exit_commission", "net_pnl", "peak_favorable_price", "max_potential_net_pnl",
	}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{
		"session_id", "exchange_id", "started_at", "initial_capital", "final_equity", "min_equity",
		"total_trades", "wins", "losses", "win_rate", "total_pnl_usd", "profit_factor",
		"max_drawdown_usd", "max_drawdown_pct",
	}); err != nil {
		return nil, err
	}
	tw.Flush()
	sw.Flush()

	return &CSV{trades: tw, sessions: sw, tf: tf, sf: sf}, nil
}

func (j *CSV) AppendTrade(ctx context.Context, rec TradeRecord) error {
	if err := j.trades.Write([]string{
		rec.SessionID, rec.SignalID, rec.PairSymbol, rec.Direction.String(),
		rec.EntryTime.Format(time.RFC3339), f(rec.EntryPrice), f(rec.EntryCommission),
		rec.CloseTime.Format(time.RFC3339), f(rec.ClosePrice), rec.CloseReason.String(),
		f(rec.GrossPnL), f(rec.ExitCommission), f(rec.NetPnL),
		f(rec.PeakFavorablePrice), f(rec.MaxPotentialNetPnL),
	}); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) WriteSummary(ctx context.Context, rec SummaryRecord) error {
	if err := j.sessions.Write([]string{
		rec.SessionID, rec.ExchangeID, rec.StartedAt.Format(time.RFC3339),
		f(rec.InitialCapital), f(rec.FinalEquity), f(rec.MinEquity),
		strconv.Itoa(rec.TotalTrades), strconv.Itoa(rec.Wins), strconv.Itoa(rec.Losses),
		f(rec.WinRate), f(rec.TotalPnLUSD), f(rec.ProfitFactor),
		f(rec.MaxDrawdownUSD), f(rec.MaxDrawdownPct),
	}); err != nil {
		return err
	}
	j.sessions.Flush()
	return j.sessions.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.sessions.Flush()
	if err := j.sessions.Error(); err != nil {
		return err
	}
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.sf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
