package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve(":0")
	defer srv.Close()

	BarsTotal.Inc()
	RejectedSignals.WithLabelValues("CAPACITY_EXCEEDED").Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{"bars_processed_total", "signals_rejected_total"} {
		if !found[name] {
			t.Fatalf("%s metric not found", name)
		}
	}
}
