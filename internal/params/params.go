// Package params defines the strategy parameter set and its validation,
// grounded on the teacher's config.Config/Validate shape
// (config/config.go) — a flat struct of tunables with a single Validate
// method that returns a wrapped, descriptive error per bad field rather
// than a panic or a generic error.
package params

import (
	"fmt"
	"time"
)

// StrategyParams is the full tunable set for one backtest run, spec.md
// §3.
type StrategyParams struct {
	PositionSize    float64 // margin USD committed per trade
	Leverage        int
	StopLossPct     float64
	TakeProfitPct   float64
	UseTrailingStop bool
	TrailingDistancePct   float64
	TrailingActivationPct float64
	CommissionRate  float64 // flat, per side, on notional
	SlippagePct     float64 // applied only to stop-loss / liquidation exits

	LiquidationThreshold float64 // in (0,1]
	MaxTradesPerWave     int
	InitialCapital       float64
	SimulationEndTime    time.Time

	WaveInterval               time.Duration
	Phase1Hours                int
	BreakevenWindowHours       int
	SmartLossPctPerHour        float64
	ForcedCloseMaxLossFraction float64

	// Eligibility gate thresholds, carried alongside StrategyParams
	// because the params source resolves both together per exchange.
	ScoreWeekMin  float64
	ScoreMonthMin float64
	AllowedHours  map[int]bool

	LiquidityEnabled bool
	MinOIUSD         float64
	MinVolumeUSD     float64
}

// Defaults returns the spec.md §3 defaults for the fields it fixes
// outright (wave_interval, phase1_hours, breakeven_window_hours,
// smart_loss_pct_per_hour, forced_close_max_loss_fraction). Callers
// still need to set PositionSize, Leverage, and the rest before Validate
// will pass.
func Defaults() StrategyParams {
	return StrategyParams{
		WaveInterval:               15 * time.Minute,
		Phase1Hours:                24,
		BreakevenWindowHours:       8,
		SmartLossPctPerHour:        0.5,
		ForcedCloseMaxLossFraction: 0.95,
		LiquidationThreshold:       1.0,
	}
}

// ConfigError reports an invalid StrategyParams field, rejected before
// the wave loop ever runs (spec.md §7).
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Validate rejects a StrategyParams that would make the simulator or
// scheduler misbehave, per spec.md §7: non-positive position_size,
// leverage < 1, negative percents, max_trades_per_wave < 1.
func (p StrategyParams) Validate() error {
	switch {
	case p.PositionSize <= 0:
		return &ConfigError{"position_size", "must be positive"}
	case p.Leverage < 1:
		return &ConfigError{"leverage", "must be >= 1"}
	case p.StopLossPct < 0:
		return &ConfigError{"stop_loss_pct", "must not be negative"}
	case p.TakeProfitPct < 0:
		return &ConfigError{"take_profit_pct", "must not be negative"}
	case p.TrailingDistancePct < 0:
		return &ConfigError{"trailing_distance_pct", "must not be negative"}
	case p.TrailingActivationPct < 0:
		return &ConfigError{"trailing_activation_pct", "must not be negative"}
	case p.CommissionRate < 0:
		return &ConfigError{"commission_rate", "must not be negative"}
	case p.SlippagePct < 0:
		return &ConfigError{"slippage_pct", "must not be negative"}
	case p.LiquidationThreshold <= 0 || p.LiquidationThreshold > 1:
		return &ConfigError{"liquidation_threshold", "must be in (0, 1]"}
	case p.MaxTradesPerWave < 1:
		return &ConfigError{"max_trades_per_wave", "must be >= 1"}
	case p.InitialCapital <= 0:
		return &ConfigError{"initial_capital", "must be positive"}
	case p.SimulationEndTime.IsZero():
		return &ConfigError{"simulation_end_time", "must be set"}
	case p.WaveInterval <= 0:
		return &ConfigError{"wave_interval", "must be positive"}
	case p.ForcedCloseMaxLossFraction <= 0 || p.ForcedCloseMaxLossFraction > 1:
		return &ConfigError{"forced_close_max_loss_fraction", "must be in (0, 1]"}
	}
	return nil
}

// EffectiveNotional is position_size * leverage, the exposure used for
// every PnL-percent calculation (glossary).
func (p StrategyParams) EffectiveNotional() float64 {
	return p.PositionSize * float64(p.Leverage)
}
