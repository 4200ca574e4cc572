package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/SaNiA2901/forex-neural-trader/internal/backtest"
	"github.com/SaNiA2901/forex-neural-trader/internal/config"
	"github.com/SaNiA2901/forex-neural-trader/internal/market"
	"github.com/SaNiA2901/forex-neural-trader/internal/metrics"
	"github.com/SaNiA2901/forex-neural-trader/internal/report"
	sig "github.com/SaNiA2901/forex-neural-trader/internal/signal"
	"github.com/SaNiA2901/forex-neural-trader/internal/strategy"
	"github.com/SaNiA2901/forex-neural-trader/internal/util"
)

const defaultConfigPath = "config.yaml"

func main() {
	_ = godotenv.Load() // best-effort

	path := os.Getenv("BACKTEST_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	log := util.NewLogger("info")
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("load config")
	}
	log = util.NewLogger(cfg.App.LogLevel)

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bars, err := loadBars(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load bars")
	}
	if len(bars) == 0 {
		log.Fatal().Msg("no bars to process")
	}
	log.Info().Int("bars", len(bars)).Str("source", cfg.Data.Source).Msg("bars loaded")

	signals, err := loadSignals(cfg, bars)
	if err != nil {
		log.Fatal().Err(err).Msg("load signals")
	}
	log.Info().Int("signals", len(signals)).Msg("signals ready")

	engine, err := backtest.New(cfg.Backtest, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}
	result, err := engine.Run(bars, signals)
	if err != nil {
		log.Fatal().Err(err).Msg("run backtest")
	}

	if err := writeReports(cfg.Report, result); err != nil {
		log.Fatal().Err(err).Msg("write reports")
	}

	m := result.Metrics
	log.Info().
		Int("total_trades", m.TotalTrades).
		Float64("win_rate", m.WinRate).
		Float64("profit_factor", m.ProfitFactor).
		Float64("sharpe", m.SharpeRatio).
		Float64("max_drawdown", m.MaxDrawdown).
		Float64("net_profit", m.NetProfit).
		Msg("backtest finished")
}

func loadBars(ctx context.Context, cfg *config.Config, log zerolog.Logger) ([]market.Bar, error) {
	data := cfg.Data
	switch data.Source {
	case "csv":
		return market.LoadCSV(data.BarsPath)
	case "binance":
		n := data.Bars
		if n <= 0 {
			n = 100
		}
		feed := market.NewBinanceFeed(data.Symbol, data.Interval, log)
		return feed.Collect(ctx, n)
	default: // synthetic
		n := data.Bars
		if n <= 0 {
			n = 500
		}
		start := data.StartPrice
		if start <= 0 {
			start = 100
		}
		interval, err := time.ParseDuration(data.Interval)
		if err != nil || interval <= 0 {
			interval = time.Minute
		}
		cond := market.Condition(data.Condition)
		if cond == "" {
			cond = market.Trending
		}
		first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		return market.GenerateSeries(cond, n, start, first, interval, data.Seed), nil
	}
}

func loadSignals(cfg *config.Config, bars []market.Bar) ([]sig.Signal, error) {
	if cfg.Data.SignalsPath != "" {
		return sig.LoadJSONL(cfg.Data.SignalsPath)
	}
	momentum := strategy.NewMomentum(cfg.Strategy.Threshold, cfg.Strategy.WindowBars)
	var signals []sig.Signal
	for _, bar := range bars {
		if s := momentum.OnBar(bar); s != nil {
			signals = append(signals, *s)
		}
	}
	return signals, nil
}

func writeReports(cfg config.Report, result *backtest.Result) error {
	if cfg.TradesJSONL != "" {
		rec, err := report.NewJSONLRecorder(cfg.TradesJSONL)
		if err != nil {
			return err
		}
		for _, t := range result.Trades {
			if err := rec.Record(t); err != nil {
				rec.Close()
				return err
			}
		}
		if err := rec.Close(); err != nil {
			return err
		}
	}
	if cfg.TradesCSV != "" {
		if err := report.WriteTradesCSV(cfg.TradesCSV, result.Trades); err != nil {
			return err
		}
	}
	if cfg.EquityCSV != "" {
		if err := report.WriteEquityCSV(cfg.EquityCSV, result.EquityCurve); err != nil {
			return err
		}
	}
	return nil
}
