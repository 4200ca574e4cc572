// Package stats derives aggregate performance metrics from a completed run.
package stats

import (
	"math"

	"github.com/SaNiA2901/forex-neural-trader/internal/equity"
	"github.com/SaNiA2901/forex-neural-trader/internal/position"
)

// Metrics is a stateless snapshot of run performance.
type Metrics struct {
	TotalTrades  int     `json:"total_trades"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"` // +Inf when there are profits and no losses
	SharpeRatio  float64 `json:"sharpe_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	NetProfit    float64 `json:"net_profit"`
}

// Compute derives metrics from the trade ledger and equity curve. It is a
// pure function: inputs are never mutated.
func Compute(trades []position.Trade, curve equity.Curve, initialCapital float64) Metrics {
	m := Metrics{TotalTrades: len(trades)}

	var wins int
	var grossProfit, grossLoss float64
	for _, t := range trades {
		m.NetProfit += t.NetPnL
		if t.NetPnL > 0 {
			wins++
			grossProfit += t.NetPnL
		} else {
			grossLoss += -t.NetPnL
		}
	}
	if m.TotalTrades > 0 {
		m.WinRate = float64(wins) / float64(m.TotalTrades)
		if grossLoss > 0 {
			m.ProfitFactor = grossProfit / grossLoss
		} else if grossProfit > 0 {
			m.ProfitFactor = math.Inf(1)
		}
	}

	m.SharpeRatio = sharpe(curve)
	m.MaxDrawdown = maxDrawdown(curve, initialCapital)
	return m
}

// sharpe is mean over population stdev of per-bar returns, 0 when fewer
// than two returns exist or the returns never vary.
func sharpe(curve equity.Curve) float64 {
	if len(curve) < 3 {
		return 0
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev == 0 {
			return 0
		}
		returns = append(returns, (curve[i].Value-prev)/prev)
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0
	}
	return mean / stdev
}

// maxDrawdown is the largest fractional decline from a running equity peak.
// The peak starts at initial capital, the curve's implicit value before any
// bar is processed.
func maxDrawdown(curve equity.Curve, initialCapital float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := initialCapital
	var worst float64
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := (peak - p.Value) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
