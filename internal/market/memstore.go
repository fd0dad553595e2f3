package market

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Store, grounded on the teacher's
// sim.PriceStore: a mutex-guarded map keyed by the lookup key, swapped
// here for a per-pair candle slice instead of a single latest price.
// It backs unit tests; the CLI reads candles from CSV files instead.
type MemStore struct {
	mu      sync.RWMutex
	candles map[string][]Candle // keyed by pairID
}

func NewMemStore() *MemStore {
	return &MemStore{candles: make(map[string][]Candle)}
}

// Seed appends candles for pairID, then re-sorts and dedupes by
// timestamp so the ordering invariant in Store's doc comment always holds
// regardless of insertion order.
func (s *MemStore) Seed(pairID string, candles ...Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append(s.candles[pairID], candles...)
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })

	deduped := all[:0:0]
	for i, c := range all {
		if i > 0 && c.Timestamp.Equal(all[i-1].Timestamp) {
			continue
		}
		deduped = append(deduped, c)
	}
	s.candles[pairID] = deduped
}

func (s *MemStore) Candles(ctx context.Context, pairID string, tf Timeframe, from, to time.Time) ([]Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.candles[pairID]
	lo := sort.Search(len(all), func(i int) bool { return !all[i].Timestamp.Before(from) })
	hi := sort.Search(len(all), func(i int) bool { return all[i].Timestamp.After(to) })
	if lo >= hi {
		return nil, nil
	}

	out := make([]Candle, hi-lo)
	copy(out, all[lo:hi])
	return out, nil
}

// snapshot builds a PriceLookup from the current mark of each pair in
// prices — the Wave Scheduler's concrete PriceLookup at one wave
// boundary.
type snapshot map[string]float64

func NewSnapshot(prices map[string]float64) PriceLookup {
	s := make(snapshot, len(prices))
	for k, v := range prices {
		s[k] = v
	}
	return s
}

func (s snapshot) Price(pairSymbol string) (float64, bool) {
	p, ok := s[pairSymbol]
	return p, ok
}
