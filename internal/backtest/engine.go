// Package backtest replays a bar series against a signal stream and
// simulates execution, risk, and accounting for one portfolio.
package backtest

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/SaNiA2901/forex-neural-trader/internal/config"
	"github.com/SaNiA2901/forex-neural-trader/internal/equity"
	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/metrics"
	"github.com/SaNiA2901/forex-neural-trader/internal/position"
	"github.com/SaNiA2901/forex-neural-trader/internal/risk"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
	"github.com/SaNiA2901/forex-neural-trader/internal/stats"
)

// RejectReason classifies why a signal did not open a position.
type RejectReason string

const (
	RejectCapacityExceeded RejectReason = "CAPACITY_EXCEEDED"
	RejectInvalidRiskInput RejectReason = "INVALID_RISK_INPUT"
	RejectNoMatchingBar    RejectReason = "NO_MATCHING_BAR"
)

// Rejection pairs a dropped signal with its reason. Rejections are
// permanent; there is no retry or queueing.
type Rejection struct {
	Signal signal.Signal `json:"signal"`
	Reason RejectReason  `json:"reason"`
}

// Result is the complete output of one run, returned synchronously.
type Result struct {
	Trades      []position.Trade `json:"trades"`
	EquityCurve equity.Curve     `json:"equity_curve"`
	Metrics     stats.Metrics    `json:"metrics"`
	Rejected    []Rejection      `json:"rejected"`
}

// Engine evaluates exactly one configuration against one signal stream.
// An Engine holds no run state; each Run owns its state exclusively, so
// independent runs may execute concurrently, one Engine each or shared.
type Engine struct {
	cfg config.Backtest
	log zerolog.Logger
}

// New validates the configuration and builds an engine. Validation failures
// are fatal before any bar is processed.
func New(cfg config.Backtest, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, log: log}, nil
}

// Run processes bars strictly in order. Per bar: evaluate exits for open
// positions, try entries for signals whose timestamp matches the bar
// exactly, mark equity at the close, and after the final bar force-close
// anything still open. Fatal errors return no partial result.
func (e *Engine) Run(bars []market.Bar, signals []signal.Signal) (*Result, error) {
	byTs, rejected := indexSignals(signals, bars)

	mgr := position.NewManager(e.cfg, e.log)
	curve := make(equity.Curve, 0, len(bars))

	for i, bar := range bars {
		if i > 0 {
			if err := market.CheckOrder(bars[i-1], bar); err != nil {
				return nil, err
			}
		}

		if err := e.applyExits(mgr, bar); err != nil {
			return nil, err
		}

		for _, sig := range byTs[bar.Ts.UnixNano()] {
			if _, err := mgr.TryOpen(sig, bar); err != nil {
				reason := classifyReject(err)
				if reason == "" {
					return nil, err
				}
				rejected = append(rejected, Rejection{Signal: sig, Reason: reason})
				metrics.RejectedSignals.WithLabelValues(string(reason)).Inc()
				e.log.Debug().Time("ts", sig.Ts).Str("reason", string(reason)).Msg("rejected signal")
			}
		}

		curve = append(curve, equity.Mark(bar, mgr.Cash(), mgr.OpenPositions()))
		metrics.BarsTotal.Inc()

		if i == len(bars)-1 {
			if err := e.forceCloseAll(mgr, bar); err != nil {
				return nil, err
			}
		}
	}

	if err := checkInvariants(mgr, curve, len(bars)); err != nil {
		return nil, err
	}

	trades := mgr.Trades()
	metrics.RunsTotal.Inc()
	e.log.Info().
		Int("bars", len(bars)).
		Int("trades", len(trades)).
		Int("rejected", len(rejected)).
		Float64("final_cash", mgr.Cash()).
		Msg("run complete")

	return &Result{
		Trades:      trades,
		EquityCurve: curve,
		Metrics:     stats.Compute(trades, curve, e.cfg.InitialCapital),
		Rejected:    rejected,
	}, nil
}

// applyExits closes every open position whose stop or target is breached
// intrabar, filling at the breached level.
func (e *Engine) applyExits(mgr *position.Manager, bar market.Bar) error {
	open := append([]*position.Position(nil), mgr.OpenPositions()...)
	for _, p := range open {
		decision := position.EvaluateExit(p, bar)
		if decision == position.ExitNone {
			continue
		}
		reason := position.ClosedByStop
		if decision == position.ExitTarget {
			reason = position.ClosedByTarget
		}
		if _, err := mgr.Close(p, p.ExitPrice(decision), bar.Ts, reason); err != nil {
			return fmt.Errorf("invariant: exit close failed: %w", err)
		}
		metrics.TradesTotal.WithLabelValues(string(reason)).Inc()
	}
	return nil
}

// forceCloseAll liquidates every remaining position at the bar close.
func (e *Engine) forceCloseAll(mgr *position.Manager, bar market.Bar) error {
	open := append([]*position.Position(nil), mgr.OpenPositions()...)
	for _, p := range open {
		if _, err := mgr.Close(p, bar.Close, bar.Ts, position.ClosedForced); err != nil {
			return fmt.Errorf("invariant: forced close failed: %w", err)
		}
		metrics.TradesTotal.WithLabelValues(string(position.ClosedForced)).Inc()
	}
	return nil
}

// indexSignals buckets signals by exact timestamp and pre-rejects those
// with no matching bar, preserving the input order within a bucket.
func indexSignals(signals []signal.Signal, bars []market.Bar) (map[int64][]signal.Signal, []Rejection) {
	barTs := make(map[int64]struct{}, len(bars))
	for _, b := range bars {
		barTs[b.Ts.UnixNano()] = struct{}{}
	}

	byTs := make(map[int64][]signal.Signal, len(signals))
	var rejected []Rejection
	for _, sig := range signals {
		key := sig.Ts.UnixNano()
		if _, ok := barTs[key]; !ok {
			rejected = append(rejected, Rejection{Signal: sig, Reason: RejectNoMatchingBar})
			metrics.RejectedSignals.WithLabelValues(string(RejectNoMatchingBar)).Inc()
			continue
		}
		byTs[key] = append(byTs[key], sig)
	}
	return byTs, rejected
}

// classifyReject maps per-signal rejection errors to reasons. Anything else
// is fatal and returns the empty reason.
func classifyReject(err error) RejectReason {
	switch {
	case errors.Is(err, position.ErrCapacityExceeded):
		return RejectCapacityExceeded
	case errors.Is(err, risk.ErrInvalidRiskInput):
		return RejectInvalidRiskInput
	default:
		return ""
	}
}

// checkInvariants fails loudly on states that indicate a logic bug.
func checkInvariants(mgr *position.Manager, curve equity.Curve, barsProcessed int) error {
	if len(curve) != barsProcessed {
		return fmt.Errorf("invariant: equity curve length %d does not match %d processed bars", len(curve), barsProcessed)
	}
	if open := len(mgr.OpenPositions()); open != 0 {
		return fmt.Errorf("invariant: %d positions still open after final bar", open)
	}
	for _, t := range mgr.Trades() {
		if t.Size <= 0 {
			return fmt.Errorf("invariant: trade with non-positive size %.8f", t.Size)
		}
		if t.ExitTime.Before(t.EntryTime) {
			return fmt.Errorf("invariant: trade exits at %s before entry at %s", t.ExitTime, t.EntryTime)
		}
	}
	return nil
}
