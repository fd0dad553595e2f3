package signal

// MemSource is an in-memory Source, grounded on the teacher's
// testJournal test fakes: a plain slice wrapped to satisfy the
// interface for unit tests; the CLI reads signals from CSV instead.
type MemSource struct {
	All []Signal
}

func (m MemSource) Signals(filter Filter) ([]Signal, SkipCounts, error) {
	eligible, counts := Apply(m.All, filter)
	return eligible, counts, nil
}
