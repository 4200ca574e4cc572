package market

import (
	"math"
	"math/rand"
	"time"
)

// Condition names a synthetic market regime. The set is closed; each value
// maps to a pure progress-to-delta function rather than a pluggable generator.
type Condition string

const (
	Trending Condition = "trending"
	Ranging  Condition = "ranging"
	Volatile Condition = "volatile"
	Breakout Condition = "breakout"
)

// drift returns the deterministic fractional price delta for one step at the
// given progress through the series, progress in [0,1].
func (c Condition) drift(progress float64) float64 {
	switch c {
	case Trending:
		return 0.0015
	case Ranging:
		return 0.004 * math.Sin(progress*8*math.Pi)
	case Volatile:
		return 0.003 * math.Sin(progress*20*math.Pi)
	case Breakout:
		if progress < 0.6 {
			return 0
		}
		return 0.004
	default:
		return 0
	}
}

// noiseScale returns the magnitude of the random component layered on top of
// the deterministic drift.
func (c Condition) noiseScale() float64 {
	switch c {
	case Volatile:
		return 0.008
	case Ranging:
		return 0.002
	default:
		return 0.001
	}
}

// GenerateSeries builds n synthetic bars for the condition, starting at
// startPrice with one bar per interval from start. The same seed always
// yields the same series, so generated fixtures are reproducible.
func GenerateSeries(cond Condition, n int, startPrice float64, start time.Time, interval time.Duration, seed int64) []Bar {
	if n <= 0 || startPrice <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	bars := make([]Bar, 0, n)
	price := startPrice
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n)
		delta := cond.drift(progress) + cond.noiseScale()*(rng.Float64()*2-1)

		open := price
		closePx := price * (1 + delta)
		high := math.Max(open, closePx) * (1 + cond.noiseScale()*rng.Float64())
		low := math.Min(open, closePx) * (1 - cond.noiseScale()*rng.Float64())
		volume := 1000 + 500*rng.Float64()

		bars = append(bars, Bar{
			Ts:     start.Add(time.Duration(i) * interval),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
		price = closePx
	}
	return bars
}
