package market

import (
	"reflect"
	"testing"
	"time"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateSeriesDeterministic(t *testing.T) {
	a := GenerateSeries(Volatile, 100, 100, start, time.Minute, 42)
	b := GenerateSeries(Volatile, 100, 100, start, time.Minute, 42)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed must produce the same series")
	}
	c := GenerateSeries(Volatile, 100, 100, start, time.Minute, 43)
	if reflect.DeepEqual(a, c) {
		t.Fatalf("different seeds should diverge")
	}
}

func TestGenerateSeriesBarsAreValidAndOrdered(t *testing.T) {
	for _, cond := range []Condition{Trending, Ranging, Volatile, Breakout} {
		bars := GenerateSeries(cond, 50, 100, start, time.Minute, 7)
		if len(bars) != 50 {
			t.Fatalf("%s: expected 50 bars, got %d", cond, len(bars))
		}
		for i, b := range bars {
			if err := b.Validate(); err != nil {
				t.Fatalf("%s bar %d invalid: %v", cond, i, err)
			}
			if i > 0 {
				if err := CheckOrder(bars[i-1], b); err != nil {
					t.Fatalf("%s bar %d out of order: %v", cond, i, err)
				}
			}
		}
	}
}

func TestTrendingSeriesDrifts(t *testing.T) {
	bars := GenerateSeries(Trending, 200, 100, start, time.Minute, 1)
	if bars[len(bars)-1].Close <= bars[0].Open {
		t.Fatalf("trending series should end above its start, got %.4f -> %.4f",
			bars[0].Open, bars[len(bars)-1].Close)
	}
}

func TestGenerateSeriesRejectsBadInput(t *testing.T) {
	if bars := GenerateSeries(Trending, 0, 100, start, time.Minute, 1); bars != nil {
		t.Fatalf("expected nil for zero count")
	}
	if bars := GenerateSeries(Trending, 10, 0, start, time.Minute, 1); bars != nil {
		t.Fatalf("expected nil for non-positive start price")
	}
}
