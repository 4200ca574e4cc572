// Package equity marks the portfolio to market and builds the equity curve.
package equity

import (
	"time"

	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/position"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

// Point is one marked portfolio value at a bar timestamp.
type Point struct {
	Ts    time.Time `json:"ts"`
	Value float64   `json:"value"`
}

// Curve is the per-bar equity series, strictly ordered by timestamp.
type Curve []Point

// Mark values the portfolio at the bar's close: cash plus the direction-
// adjusted unrealized PnL of every open position. The mark uses the close
// price regardless of any stop/target fill that same bar.
func Mark(bar market.Bar, cash float64, open []*position.Position) Point {
	value := cash
	for _, p := range open {
		unrealized := (bar.Close - p.EntryPrice) * p.Size
		if p.Direction == signal.Short {
			unrealized = -unrealized
		}
		value += unrealized
	}
	return Point{Ts: bar.Ts, Value: value}
}
