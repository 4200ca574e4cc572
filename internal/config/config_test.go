package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validBacktest() Backtest {
	return Backtest{
		InitialCapital:         10000,
		PositionSizePercent:    0.25,
		StopLossPercent:        0.02,
		TakeProfitPercent:      0.04,
		TransactionCostPercent: 0.001,
		MaxConcurrentPositions: 3,
		RiskPerTradePercent:    0.01,
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validBacktest().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Backtest){
		"zero capital":        func(b *Backtest) { b.InitialCapital = 0 },
		"negative capital":    func(b *Backtest) { b.InitialCapital = -1 },
		"negative size pct":   func(b *Backtest) { b.PositionSizePercent = -0.1 },
		"zero stop loss":      func(b *Backtest) { b.StopLossPercent = 0 },
		"zero take profit":    func(b *Backtest) { b.TakeProfitPercent = 0 },
		"negative tx cost":    func(b *Backtest) { b.TransactionCostPercent = -0.001 },
		"zero concurrency":    func(b *Backtest) { b.MaxConcurrentPositions = 0 },
		"zero risk per trade": func(b *Backtest) { b.RiskPerTradePercent = 0 },
		"risk per trade > 1":  func(b *Backtest) { b.RiskPerTradePercent = 1.5 },
		"negative risk pct":   func(b *Backtest) { b.RiskPerTradePercent = -0.01 },
	}
	for name, mutate := range cases {
		b := validBacktest()
		mutate(&b)
		if err := b.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: test
  log_level: debug
backtest:
  initial_capital: 5000
  position_size_percent: 0.3
  stop_loss_percent: 0.01
  take_profit_percent: 0.02
  transaction_cost_percent: 0.0005
  max_concurrent_positions: 2
  risk_per_trade_percent: 0.02
data:
  source: synthetic
  condition: ranging
  bars: 100
  seed: 9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backtest.InitialCapital != 5000 || cfg.Backtest.MaxConcurrentPositions != 2 {
		t.Fatalf("backtest section not hydrated: %+v", cfg.Backtest)
	}
	if cfg.Data.Condition != "ranging" || cfg.Data.Seed != 9 {
		t.Fatalf("data section not hydrated: %+v", cfg.Data)
	}
	if err := cfg.Backtest.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}

	saved := filepath.Join(t.TempDir(), "saved.yaml")
	if err := Save(saved, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	reloaded, err := Load(saved)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Backtest != cfg.Backtest {
		t.Fatalf("round trip changed backtest config")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config")
	}
}
