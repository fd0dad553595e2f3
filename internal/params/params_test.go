package params

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validParams() StrategyParams {
	p := Defaults()
	p.PositionSize = 1000
	p.Leverage = 5
	p.StopLossPct = 2
	p.TakeProfitPct = 3
	p.CommissionRate = 0.001
	p.SlippagePct = 0.5
	p.MaxTradesPerWave = 3
	p.InitialCapital = 50000
	p.SimulationEndTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return p
}

func TestStrategyParams_Validate_OK(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validParams().Validate())
}

func TestStrategyParams_Validate_RejectsBadFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		break_ func(*StrategyParams)
		field string
	}{
		{"position size", func(p *StrategyParams) { p.PositionSize = 0 }, "position_size"},
		{"leverage", func(p *StrategyParams) { p.Leverage = 0 }, "leverage"},
		{"stop loss", func(p *StrategyParams) { p.StopLossPct = -1 }, "stop_loss_pct"},
		{"liquidation threshold", func(p *StrategyParams) { p.LiquidationThreshold = 1.5 }, "liquidation_threshold"},
		{"max trades per wave", func(p *StrategyParams) { p.MaxTradesPerWave = 0 }, "max_trades_per_wave"},
		{"initial capital", func(p *StrategyParams) { p.InitialCapital = 0 }, "initial_capital"},
		{"simulation end time", func(p *StrategyParams) { p.SimulationEndTime = time.Time{} }, "simulation_end_time"},
		{"wave interval", func(p *StrategyParams) { p.WaveInterval = 0 }, "wave_interval"},
		{"forced close fraction", func(p *StrategyParams) { p.ForcedCloseMaxLossFraction = 0 }, "forced_close_max_loss_fraction"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			c.break_(&p)
			err := p.Validate()
			if assert.Error(t, err) {
				var cfgErr *ConfigError
				if assert.ErrorAs(t, err, &cfgErr) {
					assert.Equal(t, c.field, cfgErr.Field)
				}
			}
		})
	}
}

func TestStrategyParams_EffectiveNotional(t *testing.T) {
	t.Parallel()
	p := validParams()
	p.PositionSize = 200
	p.Leverage = 10
	assert.Equal(t, 2000.0, p.EffectiveNotional())
}

func TestResolve_EmptyCandidates(t *testing.T) {
	t.Parallel()
	_, ok := Resolve(nil)
	assert.False(t, ok)
}

func TestResolve_PicksMaxPnLThenWinRate(t *testing.T) {
	t.Parallel()

	best := StrategyParams{PositionSize: 1}
	nearMiss := StrategyParams{PositionSize: 2}
	tooLow := StrategyParams{PositionSize: 3}

	candidates := []Candidate{
		{Params: tooLow, TotalPnLUSD: 10, WinRate: 90},
		{Params: nearMiss, TotalPnLUSD: 90, WinRate: 80},
		{Params: best, TotalPnLUSD: 100, WinRate: 50},
	}

	got, ok := Resolve(candidates)
	if assert.True(t, ok) {
		// nearMiss (90) is within 85% of the max (100) and has a higher
		// win rate than the max-PnL candidate (50), so it wins the
		// second-stage tiebreak.
		assert.Equal(t, nearMiss, got)
	}
}

func TestResolve_AllNegativePnL_StillConsidersTheMax(t *testing.T) {
	t.Parallel()

	worst := StrategyParams{PositionSize: 1}
	best := StrategyParams{PositionSize: 2}

	candidates := []Candidate{
		{Params: worst, TotalPnLUSD: -500, WinRate: 90},
		{Params: best, TotalPnLUSD: -10, WinRate: 10},
	}

	got, ok := Resolve(candidates)
	if assert.True(t, ok) {
		assert.Equal(t, best, got)
	}
}
