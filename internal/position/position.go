// Package position owns the open-position set, trade accounting, and intrabar exit rules.
package position

import (
	"time"

	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

// Status tracks a position through its lifecycle. Closed statuses double as
// the close reason on the resulting trade.
type Status string

const (
	Open           Status = "OPEN"
	ClosedByStop   Status = "CLOSED_BY_STOP"
	ClosedByTarget Status = "CLOSED_BY_TARGET"
	ClosedForced   Status = "CLOSED_FORCED"
)

// Position is a live holding. It is created by the Manager on entry and
// mutated only by the Manager until it is closed into a Trade.
type Position struct {
	ID          int
	Direction   signal.Direction
	EntryTime   time.Time
	EntryPrice  float64
	Size        float64 // units of base asset
	StopPrice   float64
	TargetPrice float64
	Confidence  float64
	Status      Status
}

// Trade is the immutable record of a closed position.
type Trade struct {
	EntryTime   time.Time        `json:"entry_time"`
	ExitTime    time.Time        `json:"exit_time"`
	EntryPrice  float64          `json:"entry_price"`
	ExitPrice   float64          `json:"exit_price"`
	Direction   signal.Direction `json:"direction"`
	Size        float64          `json:"size"`
	GrossPnL    float64          `json:"gross_pnl"`
	Costs       float64          `json:"costs"`
	NetPnL      float64          `json:"net_pnl"`
	CloseReason Status           `json:"close_reason"`
	Confidence  float64          `json:"confidence"`
}

// Ledger stores closed trades in exit order for later inspection. It is
// run-local and append-only.
type Ledger struct {
	trades []Trade
}

// NewLedger creates an empty ledger optionally pre-sizing storage.
func NewLedger(capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{trades: make([]Trade, 0, capacity)}
}

// Append records a closed trade.
func (l *Ledger) Append(t Trade) {
	l.trades = append(l.trades, t)
}

// Snapshot returns a copy of the recorded trades.
func (l *Ledger) Snapshot() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Len reports the number of recorded trades.
func (l *Ledger) Len() int { return len(l.trades) }
