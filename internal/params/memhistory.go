package params

import "context"

// MemHistory is an in-memory History, used by tests. With exactly one
// candidate per exchange, Resolve is a no-op pass-through. The CLI
// uses SQLiteHistory, or no history at all.
type MemHistory map[string][]Candidate

func (m MemHistory) Best(ctx context.Context, exchangeID string) ([]Candidate, error) {
	return m[exchangeID], nil
}
