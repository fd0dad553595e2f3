package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rustyeddy/wavebacktest/internal/sim"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// reasonByName reverses sim.CloseReason.String for query results —
// the closed set is small enough that a linear scan beats maintaining
// a second map in lockstep with the const block.
func reasonByName(name string) sim.CloseReason {
	for r := sim.TakeProfit; r <= sim.ForcedLiquidation; r++ {
		if r.String() == name {
			return r
		}
	}
	return sim.TakeProfit
}

func directionByName(name string) signal.Action {
	if name == signal.Short.String() {
		return signal.Short
	}
	return signal.Long
}

// TradesBySession returns every trade journaled for a session,
// ordered by close time — the read side of AppendTrade, grounded on
// the teacher's ListTradesClosedBetween (journal/query.go).
func (j *SQLite) TradesBySession(ctx context.Context, sessionID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, signal_id, pair_symbol, direction, entry_time, entry_price,
		       entry_commission, close_time, close_price, close_reason, gross_pnl,
		       exit_commission, net_pnl, peak_favorable_price, max_potential_net_pnl
		FROM trades
		WHERE session_id = ?
		ORDER BY close_time ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var direction, closeReason string
		if err := rows.Scan(
			&rec.SessionID, &rec.SignalID, &rec.PairSymbol, &direction,
			&rec.EntryTime, &rec.EntryPrice, &rec.EntryCommission,
			&rec.CloseTime, &rec.ClosePrice, &closeReason, &rec.GrossPnL,
			&rec.ExitCommission, &rec.NetPnL, &rec.PeakFavorablePrice, &rec.MaxPotentialNetPnL,
		); err != nil {
			return nil, err
		}
		rec.Direction = directionByName(direction)
		rec.CloseReason = reasonByName(closeReason)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SummaryBySession returns the journaled summary for a session.
func (j *SQLite) SummaryBySession(ctx context.Context, sessionID string) (SummaryRecord, error) {
	var rec SummaryRecord
	row := j.db.QueryRowContext(ctx, `
		SELECT session_id, exchange_id, started_at, initial_capital, final_equity, min_equity,
		       total_trades, wins, losses, win_rate, total_pnl_usd, profit_factor,
		       max_drawdown_usd, max_drawdown_pct
		FROM sessions WHERE session_id = ?`, sessionID)
	err := row.Scan(
		&rec.SessionID, &rec.ExchangeID, &rec.StartedAt, &rec.InitialCapital, &rec.FinalEquity, &rec.MinEquity,
		&rec.TotalTrades, &rec.Wins, &rec.Losses, &rec.WinRate, &rec.TotalPnLUSD, &rec.ProfitFactor,
		&rec.MaxDrawdownUSD, &rec.MaxDrawdownPct,
	)
	if err == sql.ErrNoRows {
		return SummaryRecord{}, fmt.Errorf("session %q not found", sessionID)
	}
	if err != nil {
		return SummaryRecord{}, err
	}
	return rec, nil
}
