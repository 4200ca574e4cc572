package position

import (
	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

// ExitDecision says whether and how an open position closes on a bar.
type ExitDecision int

const (
	ExitNone ExitDecision = iota
	ExitStop
	ExitTarget
)

// EvaluateExit checks an open position against a bar's intrabar range.
// When both the stop and the target are touched within the same bar, the
// stop wins: adverse excursion is assumed to occur first. The fill price is
// the stop/target level itself, not the bar close.
func EvaluateExit(p *Position, bar market.Bar) ExitDecision {
	switch p.Direction {
	case signal.Long:
		if bar.Low <= p.StopPrice {
			return ExitStop
		}
		if bar.High >= p.TargetPrice {
			return ExitTarget
		}
	case signal.Short:
		if bar.High >= p.StopPrice {
			return ExitStop
		}
		if bar.Low <= p.TargetPrice {
			return ExitTarget
		}
	}
	return ExitNone
}

// ExitPrice returns the fill price implied by a decision.
func (p *Position) ExitPrice(d ExitDecision) float64 {
	if d == ExitTarget {
		return p.TargetPrice
	}
	return p.StopPrice
}
