// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a configuration that fails validation before any bar is processed.
var ErrInvalid = errors.New("invalid configuration")

// App captures process-wide runtime settings such as name, metrics address, and logging level.
type App struct {
	Name        string `yaml:"name"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Backtest holds the simulation parameters for one run. The struct is
// immutable for the duration of a run.
type Backtest struct {
	InitialCapital         float64 `yaml:"initial_capital"`
	PositionSizePercent    float64 `yaml:"position_size_percent"`
	StopLossPercent        float64 `yaml:"stop_loss_percent"`
	TakeProfitPercent      float64 `yaml:"take_profit_percent"`
	TransactionCostPercent float64 `yaml:"transaction_cost_percent"`
	MaxConcurrentPositions int     `yaml:"max_concurrent_positions"`
	RiskPerTradePercent    float64 `yaml:"risk_per_trade_percent"`
}

// Validate checks the run parameters. Any failure is fatal and reported
// before simulation starts.
func (b Backtest) Validate() error {
	if b.InitialCapital <= 0 {
		return fmt.Errorf("%w: initial_capital must be positive, got %.8f", ErrInvalid, b.InitialCapital)
	}
	if b.PositionSizePercent < 0 {
		return fmt.Errorf("%w: position_size_percent must not be negative, got %.8f", ErrInvalid, b.PositionSizePercent)
	}
	if b.StopLossPercent <= 0 {
		return fmt.Errorf("%w: stop_loss_percent must be positive, got %.8f", ErrInvalid, b.StopLossPercent)
	}
	if b.TakeProfitPercent <= 0 {
		return fmt.Errorf("%w: take_profit_percent must be positive, got %.8f", ErrInvalid, b.TakeProfitPercent)
	}
	if b.TransactionCostPercent < 0 {
		return fmt.Errorf("%w: transaction_cost_percent must not be negative, got %.8f", ErrInvalid, b.TransactionCostPercent)
	}
	if b.MaxConcurrentPositions < 1 {
		return fmt.Errorf("%w: max_concurrent_positions must be at least 1, got %d", ErrInvalid, b.MaxConcurrentPositions)
	}
	if b.RiskPerTradePercent <= 0 || b.RiskPerTradePercent > 1 {
		return fmt.Errorf("%w: risk_per_trade_percent must be in (0,1], got %.8f", ErrInvalid, b.RiskPerTradePercent)
	}
	return nil
}

// Data selects where the cmd wrapper sources bars and signals from.
type Data struct {
	Source      string  `yaml:"source"` // synthetic | csv | binance
	BarsPath    string  `yaml:"bars_path"`
	SignalsPath string  `yaml:"signals_path"`
	Symbol      string  `yaml:"symbol"`
	Interval    string  `yaml:"interval"`
	Condition   string  `yaml:"condition"` // trending | ranging | volatile | breakout
	Bars        int     `yaml:"bars"`
	StartPrice  float64 `yaml:"start_price"`
	Seed        int64   `yaml:"seed"`
}

// Strategy tunes the bundled momentum signal generator used when no signal
// file is supplied.
type Strategy struct {
	Threshold  float64 `yaml:"threshold"`
	WindowBars int     `yaml:"window_bars"`
}

// Report names the output files written after a run.
type Report struct {
	TradesJSONL string `yaml:"trades_jsonl"`
	TradesCSV   string `yaml:"trades_csv"`
	EquityCSV   string `yaml:"equity_csv"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Backtest Backtest `yaml:"backtest"`
	Data     Data     `yaml:"data"`
	Strategy Strategy `yaml:"strategy"`
	Report   Report   `yaml:"report"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
