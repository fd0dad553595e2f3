package params

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := NewSQLiteHistory(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestSQLiteHistory_RecordAndBest(t *testing.T) {
	t.Parallel()

	h := newTestSQLiteHistory(t)
	ctx := context.Background()

	p := Defaults()
	p.PositionSize = 1000
	p.Leverage = 2
	p.MaxTradesPerWave = 1
	p.InitialCapital = 10000

	require.NoError(t, h.Record(ctx, "run1", "binance", Candidate{Params: p, TotalPnLUSD: 250, WinRate: 60}))

	got, err := h.Best(ctx, "binance")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 250.0, got[0].TotalPnLUSD, 1e-9)
	assert.Equal(t, 2, got[0].Params.Leverage)
}

func TestSQLiteHistory_RecordUpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newTestSQLiteHistory(t)
	ctx := context.Background()

	p := Defaults()
	require.NoError(t, h.Record(ctx, "run1", "binance", Candidate{Params: p, TotalPnLUSD: 100, WinRate: 10}))
	require.NoError(t, h.Record(ctx, "run1", "binance", Candidate{Params: p, TotalPnLUSD: 200, WinRate: 20}))

	got, err := h.Best(ctx, "binance")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 200.0, got[0].TotalPnLUSD, 1e-9)
}

func TestSQLiteHistory_BestUnknownExchangeIsEmpty(t *testing.T) {
	t.Parallel()

	h := newTestSQLiteHistory(t)
	got, err := h.Best(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}
