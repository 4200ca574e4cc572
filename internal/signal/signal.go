// Package signal standardizes payloads shared between prediction sources and the backtest engine.
package signal

import "time"

// Direction enumerates the trade sides a signal may request.
type Direction string

const (
	// Long indicates a buy-to-open request.
	Long Direction = "LONG"
	// Short indicates a sell-to-open request.
	Short Direction = "SHORT"
)

// Valid reports whether the direction is one of the known sides.
func (d Direction) Valid() bool { return d == Long || d == Short }

// Signal expresses an externally produced directional trade request. It is
// treated as an entry request effective at the bar whose timestamp matches
// exactly; a signal with no matching bar is rejected, never executed at a
// different time. Confidence is carried through to the resulting trade as
// metadata and does not affect sizing.
type Signal struct {
	Ts             time.Time `json:"ts"`
	Direction      Direction `json:"direction"`
	Confidence     float64   `json:"confidence"` // [0,1]
	ReferencePrice float64   `json:"reference_price"`
}
