package params

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// backtestRunsSchema is the table the teacher's
// journal.SQLiteJournal.RecordBacktest/GetBacktestRun left stubbed
// out — never filled in, the two methods just returned zero values.
// SQLiteHistory completes that stub: every prior backtest run's
// resolved params plus its headline results, one row per run, read
// back as params.Candidate for the next session's resolution step.
const backtestRunsSchema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	exchange_id TEXT NOT NULL,
	params_json TEXT NOT NULL,
	total_pnl_usd REAL NOT NULL,
	win_rate REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_backtest_runs_exchange ON backtest_runs(exchange_id);
`

// SQLiteHistory is the durable params.History, backed by the
// backtest_runs table.
type SQLiteHistory struct {
	db *sql.DB
}

func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(backtestRunsSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteHistory{db: db}, nil
}

// Record persists one concluded run as a future candidate, keyed by
// runID so re-running the same session is idempotent.
func (h *SQLiteHistory) Record(ctx context.Context, runID, exchangeID string, c Candidate) error {
	body, err := json.Marshal(c.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO backtest_runs (run_id, exchange_id, params_json, total_pnl_usd, win_rate)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			params_json=excluded.params_json,
			total_pnl_usd=excluded.total_pnl_usd,
			win_rate=excluded.win_rate`,
		runID, exchangeID, string(body), c.TotalPnLUSD, c.WinRate,
	)
	return err
}

func (h *SQLiteHistory) Best(ctx context.Context, exchangeID string) ([]Candidate, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT params_json, total_pnl_usd, win_rate
		FROM backtest_runs WHERE exchange_id = ?`, exchangeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var body string
		var c Candidate
		if err := rows.Scan(&body, &c.TotalPnLUSD, &c.WinRate); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(body), &c.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
