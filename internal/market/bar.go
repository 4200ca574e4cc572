// Package market hosts price-bar types and the sources that produce them.
package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnorderedInput reports a timestamp regression or duplicate in a bar series.
var ErrUnorderedInput = errors.New("unordered price input")

// Bar models one OHLCV observation at a fixed timestamp.
type Bar struct {
	Ts     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Validate checks the OHLCV shape invariants of a single bar.
func (b Bar) Validate() error {
	if b.High < b.Open || b.High < b.Close {
		return fmt.Errorf("bar %s: high %.8f below open/close", b.Ts.Format(time.RFC3339), b.High)
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("bar %s: low %.8f above open/close", b.Ts.Format(time.RFC3339), b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s: negative volume %.8f", b.Ts.Format(time.RFC3339), b.Volume)
	}
	return nil
}

// CheckOrder verifies that cur strictly follows prev in time. Equal or
// regressing timestamps are both ordering violations.
func CheckOrder(prev, cur Bar) error {
	if !cur.Ts.After(prev.Ts) {
		return fmt.Errorf("%w: %s does not advance past %s",
			ErrUnorderedInput, cur.Ts.Format(time.RFC3339), prev.Ts.Format(time.RFC3339))
	}
	return nil
}
