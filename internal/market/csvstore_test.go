package market

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCandleCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCSVStore_ParsesHeaderAndOptionalColumns(t *testing.T) {
	t.Parallel()

	path := writeCandleCSV(t, `timestamp,open,high,low,close,mark_price,volume,open_interest
2026-01-01T00:00:00Z,100,101,99,100.5,100.4,1000,5000
2026-01-01T00:05:00Z,100.5,102,100,101,,,
`)
	s, err := NewCSVStore("AAA", path)
	require.NoError(t, err)

	out, err := s.Candles(context.Background(), "AAA", FiveMinute, time.Time{}, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 100.4, out[0].MarkPrice)
	assert.Equal(t, 1000.0, out[0].Volume)
	assert.Equal(t, 0.0, out[1].MarkPrice)
}

func TestCSVStore_NoHeaderRowAlsoParses(t *testing.T) {
	t.Parallel()

	path := writeCandleCSV(t, `2026-01-01T00:00:00Z,100,101,99,100.5
`)
	s, err := NewCSVStore("AAA", path)
	require.NoError(t, err)

	out, err := s.Candles(context.Background(), "AAA", FiveMinute, time.Time{}, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 100.5, out[0].Close)
}

func TestCSVStore_MismatchedPairIDReturnsEmpty(t *testing.T) {
	t.Parallel()

	path := writeCandleCSV(t, `timestamp,open,high,low,close
2026-01-01T00:00:00Z,100,101,99,100.5
`)
	s, err := NewCSVStore("AAA", path)
	require.NoError(t, err)

	out, err := s.Candles(context.Background(), "ZZZ", FiveMinute, time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCSVStore_FiltersByRange(t *testing.T) {
	t.Parallel()

	path := writeCandleCSV(t, `timestamp,open,high,low,close
2026-01-01T00:00:00Z,100,101,99,100
2026-01-01T00:05:00Z,100,101,99,101
2026-01-01T00:10:00Z,100,101,99,102
`)
	s, err := NewCSVStore("AAA", path)
	require.NoError(t, err)

	out, err := s.Candles(context.Background(), "AAA", FiveMinute,
		time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 101.0, out[0].Close)
}

func TestCSVStore_BadRowErrors(t *testing.T) {
	t.Parallel()

	path := writeCandleCSV(t, `timestamp,open,high,low,close
not-a-time,100,101,99,100
`)
	_, err := NewCSVStore("AAA", path)
	assert.Error(t, err)
}
