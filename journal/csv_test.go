package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_WritesHeadersAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	sessionsPath := filepath.Join(dir, "sessions.csv")

	j, err := NewCSV(tradesPath, sessionsPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, j.AppendTrade(ctx, sampleTrade("sess1", "sig1", 28)))
	require.NoError(t, j.WriteSummary(ctx, SummaryRecord{SessionID: "sess1", TotalTrades: 1, WinRate: 100}))
	require.NoError(t, j.Close())

	tradesBody, err := os.ReadFile(tradesPath)
	require.NoError(t, err)
	assert.Contains(t, string(tradesBody), "session_id,signal_id,pair_symbol")
	assert.Contains(t, string(tradesBody), "sess1,sig1,BTCUSDT")

	sessionsBody, err := os.ReadFile(sessionsPath)
	require.NoError(t, err)
	assert.Contains(t, string(sessionsBody), "session_id,exchange_id,started_at")
	assert.Contains(t, string(sessionsBody), "sess1")
}

func TestCSV_OpenFailsIfTradesPathUnwritable(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "nope", "trades.csv"), filepath.Join(t.TempDir(), "sessions.csv"))
	assert.Error(t, err)
}
