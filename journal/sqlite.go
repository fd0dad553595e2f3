package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the durable Journal, grounded on the teacher's
// journal.SQLiteJournal (journal/sqlite.go) — same driver, same
// create-schema-on-open shape, extended with ON CONFLICT upserts so
// AppendTrade/WriteSummary are safe to call again after a crash
// without violating the primary key.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) AppendTrade(ctx context.Context, rec TradeRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(session_id, signal_id, pair_symbol, direction, entry_time, entry_price,
		 entry_commission, close_time, close_price, close_reason, gross_pnl,
		 exit_commission, net_pnl, peak_favorable_price, max_potential_net_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, signal_id) DO UPDATE SET
			close_time=excluded.close_time,
			close_price=excluded.close_price,
			close_reason=excluded.close_reason,
			gross_pnl=excluded.gross_pnl,
			exit_commission=excluded.exit_commission,
			net_pnl=excluded.net_pnl,
			peak_favorable_price=excluded.peak_favorable_price,
			max_potential_net_pnl=excluded.max_potential_net_pnl`,
		rec.SessionID, rec.SignalID, rec.PairSymbol, rec.Direction.String(),
		rec.EntryTime, rec.EntryPrice, rec.EntryCommission,
		rec.CloseTime, rec.ClosePrice, rec.CloseReason.String(), rec.GrossPnL,
		rec.ExitCommission, rec.NetPnL, rec.PeakFavorablePrice, rec.MaxPotentialNetPnL,
	)
	return err
}

func (j *SQLite) WriteSummary(ctx context.Context, rec SummaryRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions
		(session_id, exchange_id, started_at, initial_capital, final_equity, min_equity,
		 total_trades, wins, losses, win_rate, total_pnl_usd, profit_factor,
		 max_drawdown_usd, max_drawdown_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			final_equity=excluded.final_equity,
			min_equity=excluded.min_equity,
			total_trades=excluded.total_trades,
			wins=excluded.wins,
			losses=excluded.losses,
			win_rate=excluded.win_rate,
			total_pnl_usd=excluded.total_pnl_usd,
			profit_factor=excluded.profit_factor,
			max_drawdown_usd=excluded.max_drawdown_usd,
			max_drawdown_pct=excluded.max_drawdown_pct`,
		rec.SessionID, rec.ExchangeID, rec.StartedAt, rec.InitialCapital, rec.FinalEquity, rec.MinEquity,
		rec.TotalTrades, rec.Wins, rec.Losses, rec.WinRate, rec.TotalPnLUSD, rec.ProfitFactor,
		rec.MaxDrawdownUSD, rec.MaxDrawdownPct,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
