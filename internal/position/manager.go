package position

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/SaNiA2901/forex-neural-trader/internal/config"
	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/risk"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

var (
	// ErrCapacityExceeded reports that the concurrency cap blocks a new entry.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrNotOpen reports an attempt to close a position that is not open.
	// This is a logic bug in the caller, never a market condition.
	ErrNotOpen = errors.New("position is not open")
)

// Manager owns one run's mutable trading state: cash, the open-position
// set, and the closed-trade ledger. It is not safe for concurrent use;
// each run holds its own Manager.
type Manager struct {
	cfg    config.Backtest
	log    zerolog.Logger
	cash   float64
	open   []*Position
	ledger *Ledger
	nextID int
}

// NewManager seeds a manager with the run's starting capital.
func NewManager(cfg config.Backtest, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		log:    log,
		cash:   cfg.InitialCapital,
		ledger: NewLedger(64),
		nextID: 1,
	}
}

// Cash returns the realized cash balance. Unrealized PnL never touches it.
func (m *Manager) Cash() float64 { return m.cash }

// OpenPositions returns the live position set in entry order.
func (m *Manager) OpenPositions() []*Position { return m.open }

// Trades returns a copy of the closed-trade ledger, ordered by exit time.
func (m *Manager) Trades() []Trade { return m.ledger.Snapshot() }

// TryOpen opens a position for the signal at the bar's close price. A nil
// position with a non-nil error means the signal was rejected; rejection
// reasons are ErrCapacityExceeded or risk.ErrInvalidRiskInput.
func (m *Manager) TryOpen(sig signal.Signal, bar market.Bar) (*Position, error) {
	if len(m.open) >= m.cfg.MaxConcurrentPositions {
		return nil, ErrCapacityExceeded
	}

	entry := bar.Close
	var stop, target float64
	switch sig.Direction {
	case signal.Long:
		stop = entry * (1 - m.cfg.StopLossPercent)
		target = entry * (1 + m.cfg.TakeProfitPercent)
	case signal.Short:
		stop = entry * (1 + m.cfg.StopLossPercent)
		target = entry * (1 - m.cfg.TakeProfitPercent)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", risk.ErrInvalidRiskInput, sig.Direction)
	}

	size, err := risk.Size(m.cash, entry, stop, m.cfg)
	if err != nil {
		return nil, err
	}

	p := &Position{
		ID:          m.nextID,
		Direction:   sig.Direction,
		EntryTime:   bar.Ts,
		EntryPrice:  entry,
		Size:        size,
		StopPrice:   stop,
		TargetPrice: target,
		Confidence:  sig.Confidence,
		Status:      Open,
	}
	m.nextID++
	m.open = append(m.open, p)
	m.log.Debug().
		Int("id", p.ID).
		Str("direction", string(p.Direction)).
		Float64("entry", entry).
		Float64("size", size).
		Float64("stop", stop).
		Float64("target", target).
		Msg("opened position")
	return p, nil
}

// Close realizes a position into a trade at the given fill, removes it from
// the open set, and credits the net PnL (entry and exit costs included) to
// cash.
func (m *Manager) Close(p *Position, exitPrice float64, exitTime time.Time, reason Status) (Trade, error) {
	if p == nil || p.Status != Open {
		return Trade{}, ErrNotOpen
	}
	idx := -1
	for i, open := range m.open {
		if open == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Trade{}, ErrNotOpen
	}

	gross := (exitPrice - p.EntryPrice) * p.Size
	if p.Direction == signal.Short {
		gross = -gross
	}
	costs := (p.EntryPrice*p.Size + exitPrice*p.Size) * m.cfg.TransactionCostPercent
	net := gross - costs

	p.Status = reason
	m.open = append(m.open[:idx], m.open[idx+1:]...)
	m.cash += net

	trade := Trade{
		EntryTime:   p.EntryTime,
		ExitTime:    exitTime,
		EntryPrice:  p.EntryPrice,
		ExitPrice:   exitPrice,
		Direction:   p.Direction,
		Size:        p.Size,
		GrossPnL:    gross,
		Costs:       costs,
		NetPnL:      net,
		CloseReason: reason,
		Confidence:  p.Confidence,
	}
	m.ledger.Append(trade)
	m.log.Debug().
		Int("id", p.ID).
		Str("reason", string(reason)).
		Float64("exit", exitPrice).
		Float64("net_pnl", net).
		Msg("closed position")
	return trade, nil
}
