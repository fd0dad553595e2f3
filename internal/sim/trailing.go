package sim

import (
	"github.com/rustyeddy/wavebacktest/internal/market"
	"github.com/rustyeddy/wavebacktest/internal/signal"
)

// trailingMachine is the arm/ratchet/trigger state carried across
// candles once use_trailing_stop is set. It never moves the stop
// against the position (monotonic ratchet) and excludes the bar on
// which it first arms from also triggering on that same bar.
type trailingMachine struct {
	dir          signal.Action
	distancePct  float64
	activation   float64
	peak         float64
	armed        bool
	armedAt      int // candle index it armed on, -1 until armed
	stop         float64
}

func newTrailingMachine(dir signal.Action, entry, distancePct, activationPrice float64) *trailingMachine {
	return &trailingMachine{
		dir:         dir,
		distancePct: distancePct,
		activation:  activationPrice,
		peak:        entry,
		armedAt:     -1,
	}
}

func (m *trailingMachine) stopFor(peak float64) float64 {
	if m.dir == signal.Long {
		return peak * (1 - m.distancePct/100)
	}
	return peak * (1 + m.distancePct/100)
}

func (m *trailingMachine) updatePeak(c market.Candle) {
	if m.dir == signal.Long {
		if c.High > m.peak {
			m.peak = c.High
		}
		return
	}
	if c.Low < m.peak {
		m.peak = c.Low
	}
}

func (m *trailingMachine) armedNow() bool {
	if m.dir == signal.Long {
		return m.peak >= m.activation
	}
	return m.peak <= m.activation
}

func (m *trailingMachine) ratchet(candidate float64) {
	if m.dir == signal.Long {
		if candidate > m.stop {
			m.stop = candidate
		}
		return
	}
	if candidate < m.stop {
		m.stop = candidate
	}
}

// step advances the machine by one candle. idx is the candle's
// position in the walk, used only to exclude the arming bar from
// triggering. Returns whether the trailing stop triggered on this bar.
func (m *trailingMachine) step(c market.Candle, idx int) bool {
	m.updatePeak(c)

	if !m.armed {
		if !m.armedNow() {
			return false
		}
		m.armed = true
		m.armedAt = idx
		m.stop = m.stopFor(m.peak)
		return false
	}

	m.ratchet(m.stopFor(m.peak))

	if idx == m.armedAt {
		return false
	}
	if m.dir == signal.Long {
		return c.Low <= m.stop
	}
	return c.High >= m.stop
}
