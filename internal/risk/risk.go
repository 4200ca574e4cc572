// Package risk converts account state and stop distance into position size.
package risk

import (
	"errors"
	"math"

	"github.com/SaNiA2901/forex-neural-trader/internal/config"
)

// ErrInvalidRiskInput reports a sizing request that cannot produce a
// positive position: zero stop distance, non-positive account value, or a
// notional cap that leaves no room.
var ErrInvalidRiskInput = errors.New("invalid risk input")

// Size returns the number of units to open so that the loss at the stop
// equals accountValue × riskPerTradePercent, additionally capped so the
// entry notional never exceeds accountValue × positionSizePercent. The
// effective size is the minimum of the two.
func Size(accountValue, entryPrice, stopPrice float64, cfg config.Backtest) (float64, error) {
	if accountValue <= 0 {
		return 0, ErrInvalidRiskInput
	}
	perUnitRisk := math.Abs(entryPrice - stopPrice)
	if perUnitRisk <= 0 {
		return 0, ErrInvalidRiskInput
	}

	size := accountValue * cfg.RiskPerTradePercent / perUnitRisk
	if entryPrice > 0 {
		maxNotional := accountValue * cfg.PositionSizePercent
		if size*entryPrice > maxNotional {
			size = maxNotional / entryPrice
		}
	}
	if size <= 0 {
		return 0, ErrInvalidRiskInput
	}
	return size, nil
}
