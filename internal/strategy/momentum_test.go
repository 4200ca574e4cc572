package strategy

import (
	"testing"
	"time"

	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/signal"
)

func feedCloses(m *Momentum, closes []float64) *signal.Signal {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var last *signal.Signal
	for i, c := range closes {
		bar := market.Bar{Ts: start.Add(time.Duration(i) * time.Minute), Open: c, High: c, Low: c, Close: c, Volume: 1}
		if s := m.OnBar(bar); s != nil {
			last = s
		}
	}
	return last
}

func TestMomentumEmitsLongOnRise(t *testing.T) {
	m := NewMomentum(0.02, 3)
	s := feedCloses(m, []float64{100, 100, 100, 100, 104})
	if s == nil {
		t.Fatalf("expected a signal after a 4%% move")
	}
	if s.Direction != signal.Long {
		t.Fatalf("expected long, got %s", s.Direction)
	}
	if s.Confidence <= 0 || s.Confidence > 1 {
		t.Fatalf("confidence out of range: %.4f", s.Confidence)
	}
	if s.ReferencePrice != 104 {
		t.Fatalf("reference price should be the triggering close, got %.4f", s.ReferencePrice)
	}
}

func TestMomentumEmitsShortOnFall(t *testing.T) {
	m := NewMomentum(0.02, 3)
	s := feedCloses(m, []float64{100, 100, 100, 100, 96})
	if s == nil || s.Direction != signal.Short {
		t.Fatalf("expected short signal, got %+v", s)
	}
}

func TestMomentumQuietBelowThreshold(t *testing.T) {
	m := NewMomentum(0.02, 3)
	if s := feedCloses(m, []float64{100, 100.1, 100.2, 100.3, 100.4}); s != nil {
		t.Fatalf("expected no signal below threshold, got %+v", s)
	}
}

func TestMomentumNeedsFullWindow(t *testing.T) {
	m := NewMomentum(0.02, 10)
	if s := feedCloses(m, []float64{100, 110}); s != nil {
		t.Fatalf("expected no signal before the window fills, got %+v", s)
	}
}

func TestMomentumIgnoresBadBars(t *testing.T) {
	m := NewMomentum(0.02, 2)
	if s := feedCloses(m, []float64{0, -5}); s != nil {
		t.Fatalf("expected no signal for non-positive closes, got %+v", s)
	}
}
