// Package config loads a session's YAML (or JSON) configuration file,
// grounded on the teacher's config.Config/LoadFromFile
// (config/config.go): try YAML, fall back to JSON, validate before
// returning.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/wavebacktest/internal/params"
)

// Config is one session's full run configuration: which exchange,
// where its inputs live, and the strategy params to use when no
// params history is configured (or no prior candidates exist yet).
type Config struct {
	ExchangeID string         `json:"exchange_id" yaml:"exchange_id"`
	Strategy   StrategyConfig `json:"strategy" yaml:"strategy"`
	Data       DataConfig     `json:"data" yaml:"data"`
	Journal    JournalConfig  `json:"journal" yaml:"journal"`
}

// StrategyConfig mirrors params.StrategyParams with yaml/json tags
// and string-friendly fields (duration strings, an hour list) instead
// of the internal package's time.Duration and map[int]bool.
type StrategyConfig struct {
	PositionSize          float64 `json:"position_size" yaml:"position_size"`
	Leverage              int     `json:"leverage" yaml:"leverage"`
	StopLossPct           float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct         float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	UseTrailingStop       bool    `json:"use_trailing_stop" yaml:"use_trailing_stop"`
	TrailingDistancePct   float64 `json:"trailing_distance_pct" yaml:"trailing_distance_pct"`
	TrailingActivationPct float64 `json:"trailing_activation_pct" yaml:"trailing_activation_pct"`
	CommissionRate        float64 `json:"commission_rate" yaml:"commission_rate"`
	SlippagePct           float64 `json:"slippage_pct" yaml:"slippage_pct"`
	LiquidationThreshold  float64 `json:"liquidation_threshold" yaml:"liquidation_threshold"`
	MaxTradesPerWave      int     `json:"max_trades_per_wave" yaml:"max_trades_per_wave"`
	InitialCapital        float64 `json:"initial_capital" yaml:"initial_capital"`
	SimulationEndTime     time.Time `json:"simulation_end_time" yaml:"simulation_end_time"`

	WaveInterval               string  `json:"wave_interval" yaml:"wave_interval"`
	Phase1Hours                int     `json:"phase1_hours" yaml:"phase1_hours"`
	BreakevenWindowHours       int     `json:"breakeven_window_hours" yaml:"breakeven_window_hours"`
	SmartLossPctPerHour        float64 `json:"smart_loss_pct_per_hour" yaml:"smart_loss_pct_per_hour"`
	ForcedCloseMaxLossFraction float64 `json:"forced_close_max_loss_fraction" yaml:"forced_close_max_loss_fraction"`

	ScoreWeekMin     float64 `json:"score_week_min" yaml:"score_week_min"`
	ScoreMonthMin    float64 `json:"score_month_min" yaml:"score_month_min"`
	AllowedHours     []int   `json:"allowed_hours,omitempty" yaml:"allowed_hours,omitempty"`
	LiquidityEnabled bool    `json:"liquidity_enabled" yaml:"liquidity_enabled"`
	MinOIUSD         float64 `json:"min_oi_usd" yaml:"min_oi_usd"`
	MinVolumeUSD     float64 `json:"min_volume_usd" yaml:"min_volume_usd"`
}

// DataConfig names the signal and candle CSV inputs for a session.
type DataConfig struct {
	SignalsCSV string `json:"signals_csv" yaml:"signals_csv"`
	CandlesDir string `json:"candles_dir" yaml:"candles_dir"`
}

// JournalConfig selects the Result Sink backend, grounded on the
// teacher's JournalConfig (config/config.go).
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "sqlite", "csv", or "memory"
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	SessionsFile string `json:"sessions_file,omitempty" yaml:"sessions_file,omitempty"`
}

// LoadFromFile reads and validates a session config, trying YAML then
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields LoadFromFile alone cannot — that the
// strategy params this config resolves to will themselves pass
// params.StrategyParams.Validate, and that the data paths are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ExchangeID) == "" {
		return fmt.Errorf("config: exchange_id is required")
	}
	if strings.TrimSpace(c.Data.SignalsCSV) == "" {
		return fmt.Errorf("config: data.signals_csv is required")
	}
	if strings.TrimSpace(c.Data.CandlesDir) == "" {
		return fmt.Errorf("config: data.candles_dir is required")
	}
	if _, err := c.Strategy.toParams(); err != nil {
		return err
	}
	return nil
}

// StrategyParams resolves this config's StrategyConfig into a
// validated params.StrategyParams.
func (c *Config) StrategyParams() (params.StrategyParams, error) {
	return c.Strategy.toParams()
}

func (s StrategyConfig) toParams() (params.StrategyParams, error) {
	interval := 15 * time.Minute
	if s.WaveInterval != "" {
		d, err := time.ParseDuration(s.WaveInterval)
		if err != nil {
			return params.StrategyParams{}, fmt.Errorf("config: wave_interval: %w", err)
		}
		interval = d
	}

	allowed := map[int]bool{}
	for _, h := range s.AllowedHours {
		allowed[h] = true
	}

	p := params.StrategyParams{
		PositionSize:               s.PositionSize,
		Leverage:                   s.Leverage,
		StopLossPct:                s.StopLossPct,
		TakeProfitPct:              s.TakeProfitPct,
		UseTrailingStop:            s.UseTrailingStop,
		TrailingDistancePct:        s.TrailingDistancePct,
		TrailingActivationPct:      s.TrailingActivationPct,
		CommissionRate:             s.CommissionRate,
		SlippagePct:                s.SlippagePct,
		LiquidationThreshold:       s.LiquidationThreshold,
		MaxTradesPerWave:           s.MaxTradesPerWave,
		InitialCapital:             s.InitialCapital,
		SimulationEndTime:          s.SimulationEndTime,
		WaveInterval:               interval,
		Phase1Hours:                s.Phase1Hours,
		BreakevenWindowHours:       s.BreakevenWindowHours,
		SmartLossPctPerHour:        s.SmartLossPctPerHour,
		ForcedCloseMaxLossFraction: s.ForcedCloseMaxLossFraction,
		ScoreWeekMin:               s.ScoreWeekMin,
		ScoreMonthMin:              s.ScoreMonthMin,
		AllowedHours:               allowed,
		LiquidityEnabled:           s.LiquidityEnabled,
		MinOIUSD:                   s.MinOIUSD,
		MinVolumeUSD:               s.MinVolumeUSD,
	}

	if p.Phase1Hours == 0 && p.BreakevenWindowHours == 0 && p.SmartLossPctPerHour == 0 {
		d := params.Defaults()
		p.Phase1Hours, p.BreakevenWindowHours = d.Phase1Hours, d.BreakevenWindowHours
		p.SmartLossPctPerHour, p.ForcedCloseMaxLossFraction = d.SmartLossPctPerHour, d.ForcedCloseMaxLossFraction
		if p.LiquidationThreshold == 0 {
			p.LiquidationThreshold = d.LiquidationThreshold
		}
	}

	if err := p.Validate(); err != nil {
		return params.StrategyParams{}, err
	}
	return p, nil
}
