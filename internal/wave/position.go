package wave

import (
	"github.com/rustyeddy/wavebacktest/internal/sim"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// openPosition is a position admitted in some wave whose projected
// close lies beyond that wave — it survives in the Scheduler's
// pair_symbol-keyed map until a later wave's close-due step reaches
// its projected close time, or finalization catches it still open at
// simulation_end_time. Nothing outside this package ever holds a
// pointer to one.
type openPosition struct {
	sig          signal.Signal
	entry        float64
	positionSize float64
	notional     float64
	projected    sim.Outcome
}
