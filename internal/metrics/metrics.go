package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "backtest_runs_total", Help: "Completed backtest runs"},
	)
	BarsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bars_processed_total", Help: "Price bars processed across runs"},
	)
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trades_closed_total", Help: "Trades closed"},
		[]string{"reason"},
	)
	RejectedSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_rejected_total", Help: "Signals rejected without opening a position"},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(RunsTotal, BarsTotal, TradesTotal, RejectedSignals)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
