package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVStore reads one pair's candle history from a CSV file with header
// row:
//
//	timestamp,open,high,low,close,mark_price,volume,open_interest
//
// timestamp is RFC3339. mark_price, volume and open_interest may be
// blank. This is the same row-scanning idiom as the teacher's
// internal/backtest.CSVTicksFeed, generalized from one bid/ask tick per
// row to one OHLC bar per row and loaded eagerly rather than streamed,
// matching §5's "read once, retained for the session's duration".
type CSVStore struct {
	pairID  string
	candles []Candle
}

func NewCSVStore(pairID, path string) (*CSVStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var candles []Candle
	sawHeader := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candle csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if !sawHeader {
			sawHeader = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "timestamp") {
				continue
			}
		}
		c, err := parseCandleRow(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}

	return &CSVStore{pairID: pairID, candles: candles}, nil
}

func parseCandleRow(row []string) (Candle, error) {
	if len(row) < 5 {
		return Candle{}, fmt.Errorf("bad candle row %v: need at least 5 fields", row)
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
	if err != nil {
		return Candle{}, fmt.Errorf("bad candle timestamp %q: %w", row[0], err)
	}
	o, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return Candle{}, fmt.Errorf("bad open %q: %w", row[1], err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return Candle{}, fmt.Errorf("bad high %q: %w", row[2], err)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return Candle{}, fmt.Errorf("bad low %q: %w", row[3], err)
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return Candle{}, fmt.Errorf("bad close %q: %w", row[4], err)
	}
	candle := Candle{Timestamp: ts, Open: o, High: h, Low: l, Close: c}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		candle.MarkPrice, _ = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	}
	if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
		candle.Volume, _ = strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	}
	if len(row) > 7 && strings.TrimSpace(row[7]) != "" {
		candle.OpenInterest, _ = strconv.ParseFloat(strings.TrimSpace(row[7]), 64)
	}
	return candle, nil
}

func (s *CSVStore) Candles(ctx context.Context, pairID string, tf Timeframe, from, to time.Time) ([]Candle, error) {
	if pairID != s.pairID {
		return nil, nil
	}
	var out []Candle
	for _, c := range s.candles {
		if c.Timestamp.Before(from) || c.Timestamp.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
