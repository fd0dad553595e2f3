package signal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVSource reads signals from a CSV file with header row:
//
//	signal_id,pair_symbol,trading_pair_id,exchange_id,action,timestamp,score_week,score_month,oi_value_usd,volume_24h_usd
//
// action is "LONG"/"SHORT" (or "BUY"/"SELL", normalized at the
// boundary per the glossary). timestamp is RFC3339. Same row-scanning
// idiom as market.CSVStore and the teacher's CSVTicksFeed.
type CSVSource struct {
	all []Signal
}

func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signal csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var all []Signal
	sawHeader := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read signal csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if !sawHeader {
			sawHeader = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "signal_id") {
				continue
			}
		}
		s, err := parseSignalRow(row)
		if err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return &CSVSource{all: all}, nil
}

func parseSignalRow(row []string) (Signal, error) {
	if len(row) < 8 {
		return Signal{}, fmt.Errorf("bad signal row %v: need at least 8 fields", row)
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[5]))
	if err != nil {
		return Signal{}, fmt.Errorf("bad signal timestamp %q: %w", row[5], err)
	}
	scoreWeek, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil {
		return Signal{}, fmt.Errorf("bad score_week %q: %w", row[6], err)
	}
	scoreMonth, err := strconv.ParseFloat(strings.TrimSpace(row[7]), 64)
	if err != nil {
		return Signal{}, fmt.Errorf("bad score_month %q: %w", row[7], err)
	}

	action := Long
	switch strings.ToUpper(strings.TrimSpace(row[4])) {
	case "LONG", "BUY":
		action = Long
	case "SHORT", "SELL":
		action = Short
	default:
		return Signal{}, fmt.Errorf("bad signal action %q", row[4])
	}

	s := Signal{
		SignalID:      strings.TrimSpace(row[0]),
		PairSymbol:    strings.TrimSpace(row[1]),
		TradingPairID: strings.TrimSpace(row[2]),
		ExchangeID:    strings.TrimSpace(row[3]),
		Action:        action,
		Timestamp:     ts,
		ScoreWeek:     scoreWeek,
		ScoreMonth:    scoreMonth,
	}
	if len(row) > 8 && strings.TrimSpace(row[8]) != "" {
		s.OIValueUSD, _ = strconv.ParseFloat(strings.TrimSpace(row[8]), 64)
	}
	if len(row) > 9 && strings.TrimSpace(row[9]) != "" {
		s.Volume24hUSD, _ = strconv.ParseFloat(strings.TrimSpace(row[9]), 64)
	}
	return s, nil
}

func (c *CSVSource) Signals(filter Filter) ([]Signal, SkipCounts, error) {
	eligible, counts := Apply(c.all, filter)
	return eligible, counts, nil
}
