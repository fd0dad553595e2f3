package signal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSignalCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signals.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCSVSource_ParsesRowsAndNormalizesAction(t *testing.T) {
	t.Parallel()

	path := writeSignalCSV(t, `signal_id,pair_symbol,trading_pair_id,exchange_id,action,timestamp,score_week,score_month,oi_value_usd,volume_24h_usd
s1,BTCUSDT,p1,binance,BUY,2026-01-01T00:00:00Z,10,20,1000000,5000000
s2,ETHUSDT,p2,binance,SELL,2026-01-01T00:05:00Z,5,8,,
`)
	src, err := NewCSVSource(path)
	require.NoError(t, err)

	got, counts, err := src.Signals(Filter{})
	require.NoError(t, err)
	assert.Empty(t, counts)
	require.Len(t, got, 2)
	assert.Equal(t, Long, got[0].Action)
	assert.Equal(t, Short, got[1].Action)
	assert.Equal(t, 1000000.0, got[0].OIValueUSD)
	assert.Equal(t, 0.0, got[1].OIValueUSD)
}

func TestCSVSource_AppliesFilterAndTalliesSkips(t *testing.T) {
	t.Parallel()

	path := writeSignalCSV(t, `signal_id,pair_symbol,trading_pair_id,exchange_id,action,timestamp,score_week,score_month
s1,BTCUSDT,p1,binance,LONG,2026-01-01T00:00:00Z,10,20
s2,ETHUSDT,p2,binance,LONG,2026-01-01T00:00:00Z,1,1
`)
	src, err := NewCSVSource(path)
	require.NoError(t, err)

	got, counts, err := src.Signals(Filter{ScoreWeekMin: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SignalID)
	assert.Equal(t, 1, counts[FilterScore])
}

func TestCSVSource_BadActionErrors(t *testing.T) {
	t.Parallel()

	path := writeSignalCSV(t, `signal_id,pair_symbol,trading_pair_id,exchange_id,action,timestamp,score_week,score_month
s1,BTCUSDT,p1,binance,SIDEWAYS,2026-01-01T00:00:00Z,10,20
`)
	_, err := NewCSVSource(path)
	assert.Error(t, err)
}

func TestCSVSource_ShortRowErrors(t *testing.T) {
	t.Parallel()

	path := writeSignalCSV(t, `signal_id,pair_symbol
s1,BTCUSDT
`)
	_, err := NewCSVSource(path)
	assert.Error(t, err)
}
