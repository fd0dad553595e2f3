package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/params"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

type memHistorySource map[string]market.History

func (m memHistorySource) History(pairSymbol string) (market.History, bool) {
	h, ok := m[pairSymbol]
	return h, ok
}

func flatCandles(start time.Time, n int, step time.Duration, price float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := 0; i < n; i++ {
		out[i] = market.Candle{Timestamp: start.Add(time.Duration(i) * step), Open: price, High: price, Low: price, Close: price}
	}
	return out
}

func testParams(end time.Time) params.StrategyParams {
	return params.StrategyParams{
		PositionSize:               1000,
		Leverage:                   1,
		StopLossPct:                50,
		TakeProfitPct:              50,
		CommissionRate:             0.001,
		SlippagePct:                0.5,
		LiquidationThreshold:       1.0,
		MaxTradesPerWave:           1,
		InitialCapital:             10000,
		WaveInterval:               15 * time.Minute,
		Phase1Hours:                24,
		BreakevenWindowHours:       8,
		SmartLossPctPerHour:        0.5,
		ForcedCloseMaxLossFraction: 0.95,
		SimulationEndTime:          end,
	}
}

func TestRun_AdmitsWithinWaveCapInScoreOrder(t *testing.T) {
	t.Parallel()

	wave0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := wave0.Add(2 * time.Hour)

	hist := memHistorySource{
		"AAA": {PairSymbol: "AAA", Candles: flatCandles(wave0, 10, 5*time.Minute, 100)},
		"BBB": {PairSymbol: "BBB", Candles: flatCandles(wave0, 10, 5*time.Minute, 100)},
	}

	signals := []signal.Signal{
		{SignalID: "low", PairSymbol: "BBB", Action: signal.Long, Timestamp: wave0, ScoreWeek: 1, ScoreMonth: 1},
		{SignalID: "high", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
	}

	p := testParams(end)
	p.MaxTradesPerWave = 1

	result := Run(signals, hist, p)

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "high", result.Outcomes[0].SignalID)
	assert.Equal(t, 1, result.Skips[signal.WaveCapReached])
}

func TestRun_DuplicatePairSkippedWithinSameWave(t *testing.T) {
	t.Parallel()

	wave0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := wave0.Add(2 * time.Hour)

	hist := memHistorySource{
		"AAA": {PairSymbol: "AAA", Candles: flatCandles(wave0, 10, 5*time.Minute, 100)},
	}

	signals := []signal.Signal{
		{SignalID: "first", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
		{SignalID: "second", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 5, ScoreMonth: 5},
	}

	p := testParams(end)
	p.MaxTradesPerWave = 5

	result := Run(signals, hist, p)

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "first", result.Outcomes[0].SignalID)
	assert.Equal(t, 1, result.Skips[signal.DuplicatePair])
}

func TestRun_NoHistorySkipsAndContinues(t *testing.T) {
	t.Parallel()

	wave0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := wave0.Add(2 * time.Hour)

	hist := memHistorySource{
		"AAA": {PairSymbol: "AAA", Candles: flatCandles(wave0, 10, 5*time.Minute, 100)},
	}

	signals := []signal.Signal{
		{SignalID: "untracked", PairSymbol: "ZZZ", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
		{SignalID: "tracked", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
	}

	p := testParams(end)
	p.MaxTradesPerWave = 5 // room for both, so the wave cap never hides the no_history skip

	result := Run(signals, hist, p)

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "tracked", result.Outcomes[0].SignalID)
	assert.Equal(t, 1, result.Skips[signal.NoHistory])
}

func TestRun_InsufficientCapitalSkipsAdmission(t *testing.T) {
	t.Parallel()

	wave0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := wave0.Add(2 * time.Hour)

	hist := memHistorySource{
		"AAA": {PairSymbol: "AAA", Candles: flatCandles(wave0, 10, 5*time.Minute, 100)},
		"BBB": {PairSymbol: "BBB", Candles: flatCandles(wave0, 10, 5*time.Minute, 100)},
	}

	signals := []signal.Signal{
		{SignalID: "first", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
		{SignalID: "second", PairSymbol: "BBB", Action: signal.Long, Timestamp: wave0, ScoreWeek: 8, ScoreMonth: 8},
	}

	p := testParams(end)
	p.MaxTradesPerWave = 5
	p.InitialCapital = 1000
	p.PositionSize = 1000 // only enough free capital for one position

	result := Run(signals, hist, p)

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "first", result.Outcomes[0].SignalID)
	assert.Equal(t, 1, result.Skips[signal.InsufficientCapital])
}

func TestRun_FinalizesPositionsStillOpenAtSessionEnd(t *testing.T) {
	t.Parallel()

	wave0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := wave0.Add(time.Hour)

	// Nothing in this flat candle series ever triggers an exit, so the
	// position rides to simulation_end_time and Finalize must pick it up.
	hist := memHistorySource{
		"AAA": {PairSymbol: "AAA", Candles: flatCandles(wave0, 13, 5*time.Minute, 100)},
	}

	signals := []signal.Signal{
		{SignalID: "only", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
	}

	p := testParams(end)
	result := Run(signals, hist, p)

	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, end, result.Outcomes[0].CloseTime)
}

func TestRun_IsDeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	wave0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := wave0.Add(3 * time.Hour)

	hist := memHistorySource{
		"AAA": {PairSymbol: "AAA", Candles: flatCandles(wave0, 40, 5*time.Minute, 100)},
		"BBB": {PairSymbol: "BBB", Candles: flatCandles(wave0, 40, 5*time.Minute, 100)},
	}

	signals := []signal.Signal{
		{SignalID: "a", PairSymbol: "AAA", Action: signal.Long, Timestamp: wave0, ScoreWeek: 9, ScoreMonth: 9},
		{SignalID: "b", PairSymbol: "BBB", Action: signal.Short, Timestamp: wave0.Add(15 * time.Minute), ScoreWeek: 7, ScoreMonth: 7},
	}

	p := testParams(end)
	p.MaxTradesPerWave = 5

	first := Run(signals, hist, p)
	second := Run(signals, hist, p)

	assert.Equal(t, first.Outcomes, second.Outcomes)
	assert.Equal(t, first.Final, second.Final)
}

func TestKey_TruncatesToWaveInterval(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 1, 1, 10, 37, 12, 0, time.UTC)
	got := Key(ts, 15*time.Minute)
	assert.Equal(t, time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC), got)
}
