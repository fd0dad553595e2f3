// Command backtest runs one wave-based futures backtest session from
// a YAML config file, grounded on the teacher's cmd/backtest/main.go
// driver and internal/cli/root.go's cobra wiring — the teacher's flat
// flag.StringVar set is replaced by cobra flags bound to runFlags,
// and the teacher's tick-by-tick CSV replay loop is replaced by one
// call into internal/session.Run, since the inner loop here lives in
// internal/wave, not in main.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/wavebacktest/config"
	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/session"
	"github.com/rustyeddy/wavebacktest/internal/signal"
	"github.com/rustyeddy/wavebacktest/journal"
	"github.com/rustyeddy/wavebacktest/pkg/id"
)

type runFlags struct {
	configPath  string
	historyPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:           "backtest",
		Short:         "Run wave-based isolated-margin futures backtests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one session from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), flags)
		},
	}
	runCmd.Flags().StringVar(&flags.configPath, "config", "", "path to session YAML/JSON config (required)")
	runCmd.Flags().StringVar(&flags.historyPath, "history-db", "", "optional path to a params-history SQLite DB for resolution")
	runCmd.MarkFlagRequired("config")

	cmd.AddCommand(runCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("backtest (dev)")
		},
	})

	return cmd
}

func runSession(ctx context.Context, flags *runFlags) error {
	cfg, err := config.LoadFromFile(flags.configPath)
	if err != nil {
		return err
	}

	baseParams, err := cfg.StrategyParams()
	if err != nil {
		return err
	}

	signalSource, err := signal.NewCSVSource(cfg.Data.SignalsCSV)
	if err != nil {
		return fmt.Errorf("load signals: %w", err)
	}

	candleStore, err := newCandleDirStore(cfg.Data.CandlesDir)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	var hist params.History
	if flags.historyPath != "" {
		h, err := params.NewSQLiteHistory(flags.historyPath)
		if err != nil {
			return fmt.Errorf("open params history: %w", err)
		}
		defer h.Close()
		hist = h
	}

	sessionCfg := session.Config{
		ExchangeID: cfg.ExchangeID,
		BaseParams: baseParams,
		History:    hist,
		Signals:    signalSource,
		Candles:    candleStore,
		Logger:     log.New(os.Stderr, "", log.LstdFlags),
	}

	summary, outcomes, err := session.Run(ctx, sessionCfg)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	sessionID := id.New()
	for _, o := range outcomes {
		if err := j.AppendTrade(ctx, journal.TradeRecord{SessionID: sessionID, Outcome: o}); err != nil {
			return fmt.Errorf("append trade: %w", err)
		}
	}
	if err := j.WriteSummary(ctx, journal.SummaryRecord{
		SessionID:      sessionID,
		ExchangeID:     summary.ExchangeID,
		StartedAt:      time.Now().UTC(),
		InitialCapital: summary.InitialCapital,
		FinalEquity:    summary.FinalEquity,
		MinEquity:      summary.MinEquity,
		TotalTrades:    summary.TotalTrades,
		Wins:           summary.Wins,
		Losses:         summary.Losses,
		WinRate:        summary.WinRate,
		TotalPnLUSD:    summary.TotalPnLUSD,
		ProfitFactor:   summary.ProfitFactor,
		MaxDrawdownUSD: summary.MaxDrawdownUSD,
		MaxDrawdownPct: summary.MaxDrawdownPct,
	}); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	fmt.Printf("session %s: trades=%d win_rate=%.2f%% net_pnl=%.2f final_equity=%.2f max_dd=%.2f%%\n",
		sessionID, summary.TotalTrades, summary.WinRate, summary.TotalPnLUSD, summary.FinalEquity, summary.MaxDrawdownPct)
	for reason, n := range summary.SkipCounts {
		fmt.Printf("  skipped %s: %d\n", reason, n)
	}
	return nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return journal.NewMemory(), nil
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.SessionsFile)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

// candleDirStore is a market.Store backed by one CSV file per pair in
// a directory, named "<pairSymbol>.csv" — lazily opening each pair's
// market.CSVStore the first time the Session Runner asks for it,
// since a session only ever touches the pairs its signals reference.
type candleDirStore struct {
	dir    string
	opened map[string]*market.CSVStore
}

func newCandleDirStore(dir string) (*candleDirStore, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return &candleDirStore{dir: dir, opened: map[string]*market.CSVStore{}}, nil
}

func (s *candleDirStore) Candles(ctx context.Context, pairID string, tf market.Timeframe, from, to time.Time) ([]market.Candle, error) {
	cs, err := s.store(pairID)
	if err != nil {
		return nil, err
	}
	return cs.Candles(ctx, pairID, tf, from, to)
}

func (s *candleDirStore) store(pairSymbol string) (*market.CSVStore, error) {
	if cs, ok := s.opened[pairSymbol]; ok {
		return cs, nil
	}
	path := filepath.Join(s.dir, pairSymbol+".csv")
	cs, err := market.NewCSVStore(pairSymbol, path)
	if err != nil {
		return nil, err
	}
	s.opened[pairSymbol] = cs
	return cs, nil
}
