// Package strategy hosts signal generators used by the calling application
// when no external prediction source is wired in. The backtest engine
// itself never generates signals.
package strategy

import (
	"math"

	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

// Momentum emits a signal when the close-to-close change over a lookback
// window of bars exceeds a threshold. Confidence scales with how far past
// the threshold the move is, capped at 1.
type Momentum struct {
	threshold float64
	window    int
	closes    []float64
}

// NewMomentum builds a momentum generator with sane defaults for zero
// or negative inputs.
func NewMomentum(threshold float64, windowBars int) *Momentum {
	if threshold <= 0 {
		threshold = 0.01
	}
	if windowBars <= 0 {
		windowBars = 10
	}
	return &Momentum{threshold: threshold, window: windowBars}
}

// Name returns the configured identifier for logging.
func (m *Momentum) Name() string { return "Momentum" }

// OnBar observes a bar and returns a signal timestamped at that bar, or nil.
func (m *Momentum) OnBar(bar market.Bar) *signal.Signal {
	if bar.Close <= 0 {
		return nil
	}
	m.closes = append(m.closes, bar.Close)
	if len(m.closes) > m.window+1 {
		m.closes = m.closes[len(m.closes)-m.window-1:]
	}
	if len(m.closes) < m.window+1 {
		return nil
	}

	oldest := m.closes[0]
	if oldest <= 0 {
		return nil
	}
	change := (bar.Close - oldest) / oldest
	if math.Abs(change) < m.threshold {
		return nil
	}

	direction := signal.Long
	if change < 0 {
		direction = signal.Short
	}
	confidence := math.Min(1, math.Abs(change)/(2*m.threshold))
	return &signal.Signal{
		Ts:             bar.Ts,
		Direction:      direction,
		Confidence:     confidence,
		ReferencePrice: bar.Close,
	}
}
