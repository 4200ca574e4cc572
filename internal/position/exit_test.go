package position

import (
	"testing"

	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

func longPosition() *Position {
	return &Position{Direction: signal.Long, EntryPrice: 100, StopPrice: 98, TargetPrice: 104, Status: Open}
}

func shortPosition() *Position {
	return &Position{Direction: signal.Short, EntryPrice: 100, StopPrice: 102, TargetPrice: 96, Status: Open}
}

func TestEvaluateExitLong(t *testing.T) {
	p := longPosition()

	if d := EvaluateExit(p, market.Bar{Open: 100, High: 101, Low: 99, Close: 100.5}); d != ExitNone {
		t.Fatalf("expected no exit inside the range, got %v", d)
	}
	if d := EvaluateExit(p, market.Bar{Open: 100, High: 100.5, Low: 97.5, Close: 98.5}); d != ExitStop {
		t.Fatalf("expected stop when low breaches, got %v", d)
	}
	if d := EvaluateExit(p, market.Bar{Open: 100, High: 104.5, Low: 99.5, Close: 104}); d != ExitTarget {
		t.Fatalf("expected target when high breaches, got %v", d)
	}
}

func TestEvaluateExitShort(t *testing.T) {
	p := shortPosition()

	if d := EvaluateExit(p, market.Bar{Open: 100, High: 101, Low: 99, Close: 100}); d != ExitNone {
		t.Fatalf("expected no exit inside the range, got %v", d)
	}
	if d := EvaluateExit(p, market.Bar{Open: 100, High: 102.5, Low: 99.5, Close: 101}); d != ExitStop {
		t.Fatalf("expected stop when high breaches, got %v", d)
	}
	if d := EvaluateExit(p, market.Bar{Open: 100, High: 100.5, Low: 95.5, Close: 96}); d != ExitTarget {
		t.Fatalf("expected target when low breaches, got %v", d)
	}
}

// Both levels breached within one bar resolves as a stop: the adverse move
// is assumed to happen first.
func TestEvaluateExitTieBreakPrefersStop(t *testing.T) {
	p := longPosition()
	bar := market.Bar{Open: 100, High: 105, Low: 97, Close: 101}
	if d := EvaluateExit(p, bar); d != ExitStop {
		t.Fatalf("expected stop on tie, got %v", d)
	}
	if px := p.ExitPrice(ExitStop); px != 98 {
		t.Fatalf("expected fill at stop price 98, got %.4f", px)
	}

	s := shortPosition()
	bar = market.Bar{Open: 100, High: 103, Low: 95, Close: 99}
	if d := EvaluateExit(s, bar); d != ExitStop {
		t.Fatalf("expected short stop on tie, got %v", d)
	}
}

func TestExitPriceUsesTriggerLevel(t *testing.T) {
	p := longPosition()
	if px := p.ExitPrice(ExitTarget); px != 104 {
		t.Fatalf("expected target fill 104, got %.4f", px)
	}
	if px := p.ExitPrice(ExitStop); px != 98 {
		t.Fatalf("expected stop fill 98, got %.4f", px)
	}
}
