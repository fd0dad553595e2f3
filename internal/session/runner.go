// Package session is the Session Runner: it resolves strategy params,
// pulls the signal and candle inputs for one exchange, drives the Wave
// Scheduler end to end, and reduces the result into a summary —
// grounded on the teacher's cmd/backtest run orchestration
// (cmd/backtest/cmd_ema_cross.go's Setup/Run/Report shape) but with
// the strategy and data-fetch concerns split into the collaborator
// interfaces spec.md §6 names, instead of the teacher's single
// concrete EMA-cross strategy wired directly into the command.
package session

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/sim"
	"github.com/rustyeddy/wavebacktest/internal/signal"
	"github.com/rustyeddy/wavebacktest/internal/wave"
)

// Config is everything one session run needs: which exchange, where
// to resolve params from, and the two external collaborators (signal
// source, candle store).
type Config struct {
	ExchangeID string
	BaseParams params.StrategyParams
	History    params.History // nil skips resolution; BaseParams is used as-is
	Signals    signal.Source
	Candles    market.Store

	// Logger receives the params-resolution, signal-admission and
	// unreachable-pair counts, and a final line with the skip-reason
	// tally; nothing is logged per wave. A nil Logger runs silent — tests and library callers that
	// don't care about progress output never have to wire one up.
	Logger *log.Logger
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard, "", 0)
}

// filterFromParams projects the eligibility-gate fields carried on
// StrategyParams into a signal.Filter — the two live in different
// packages because a Filter is meaningful without a full, validated
// StrategyParams (tests build one directly), but a resolved
// StrategyParams always carries its own filter thresholds alongside
// its trade-management fields.
func filterFromParams(p params.StrategyParams) signal.Filter {
	return signal.Filter{
		ScoreWeekMin:     p.ScoreWeekMin,
		ScoreMonthMin:    p.ScoreMonthMin,
		AllowedHours:     p.AllowedHours,
		LiquidityEnabled: p.LiquidityEnabled,
		MinOIUSD:         p.MinOIUSD,
		MinVolumeUSD:     p.MinVolumeUSD,
	}
}

// pairHistorySource adapts a map of resolved market.History values to
// wave.HistorySource.
type pairHistorySource map[string]market.History

func (m pairHistorySource) History(pairSymbol string) (market.History, bool) {
	h, ok := m[pairSymbol]
	return h, ok
}

// Run resolves params, fetches signals and candle history, drives the
// Wave Scheduler to completion, and returns the session summary plus
// every concluded trade.
func Run(ctx context.Context, cfg Config) (Summary, []sim.Outcome, error) {
	logger := cfg.logger()

	p := cfg.BaseParams
	if cfg.History != nil {
		candidates, err := cfg.History.Best(ctx, cfg.ExchangeID)
		if err != nil {
			return Summary{}, nil, &DataSourceError{Op: "params history", Err: err}
		}
		if resolved, ok := params.Resolve(candidates); ok {
			p = resolved
			logger.Printf("session[%s]: resolved strategy params from %d history candidates", cfg.ExchangeID, len(candidates))
		}
	}

	if err := p.Validate(); err != nil {
		return Summary{}, nil, err
	}

	filter := filterFromParams(p)
	signals, filterSkips, err := cfg.Signals.Signals(filter)
	if err != nil {
		return Summary{}, nil, &DataSourceError{Op: "signal source", Err: err}
	}
	logger.Printf("session[%s]: %d signals admitted by the eligibility filter, wave_interval=%s", cfg.ExchangeID, len(signals), p.WaveInterval)

	histories := make(pairHistorySource)
	seen := map[string]bool{}
	unreachable := 0
	for _, s := range signals {
		if seen[s.PairSymbol] {
			continue
		}
		seen[s.PairSymbol] = true
		candles, err := cfg.Candles.Candles(ctx, s.PairSymbol, market.FiveMinute, time.Time{}, p.SimulationEndTime)
		if err != nil {
			// A single unreachable pair does not fail the whole session;
			// its signals fall out as no_history skips downstream.
			unreachable++
			continue
		}
		histories[s.PairSymbol] = market.History{PairSymbol: s.PairSymbol, Candles: candles}
	}
	if unreachable > 0 {
		logger.Printf("session[%s]: %d pairs had no reachable candle history", cfg.ExchangeID, unreachable)
	}

	result := wave.Run(signals, histories, p)

	allSkips := filterSkips
	allSkips.Merge(result.Skips)

	summary := BuildSummary(cfg.ExchangeID, p, result.Outcomes, result.Final.Equity(), result.Final.MinEquity, allSkips)

	logger.Printf("session[%s]: done — %d trades, win_rate=%.2f%%, total_pnl_usd=%.2f, skips=%v",
		cfg.ExchangeID, summary.TotalTrades, summary.WinRate, summary.TotalPnLUSD, allSkips)

	return summary, result.Outcomes, nil
}
