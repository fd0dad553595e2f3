package signal

// SkipReason tags why a signal never became a trade. It is not an
// error — every value here is counted in SessionSummary, never
// propagated as a failure. Values are interned strings rather than a
// plain int enum so the journal and the session summary can persist
// them directly, mirroring how the teacher's journal records store
// close reasons as free-form strings — except that here the set is
// closed and only ever produced by package code, never typed by hand
// at a call site.
type SkipReason string

const (
	FilterScore     SkipReason = "filter_score"
	FilterHour      SkipReason = "filter_hour"
	FilterExchange  SkipReason = "filter_exchange"
	FilterLiquidity SkipReason = "filter_liquidity"

	// The remaining reasons are produced downstream of the eligibility
	// filter, by the Wave Scheduler's admission step, but share this
	// same closed set and the same SkipCounts tally.
	NoEntry             SkipReason = "no_entry"
	NoHistory           SkipReason = "no_history"
	InsufficientCapital SkipReason = "insufficient_capital"
	DuplicatePair       SkipReason = "duplicate_pair"
	WaveCapReached      SkipReason = "wave_cap_reached"
)

// SkipCounts tallies SkipReason occurrences across a session: the
// eligibility filter's reasons plus the Wave Scheduler's admission
// reasons, all in the one map.
type SkipCounts map[SkipReason]int

func (c SkipCounts) Add(reason SkipReason) {
	c[reason]++
}

func (c SkipCounts) Merge(other SkipCounts) {
	for reason, n := range other {
		c[reason] += n
	}
}
