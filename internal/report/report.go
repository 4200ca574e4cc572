// Package report writes run results to disk for later analysis.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/SaNiA2901/forex-neural-trader/internal/equity"
	"github.com/SaNiA2901/forex-neural-trader/internal/position"
)

// JSONLRecorder appends trades as JSON lines.
type JSONLRecorder struct {
	file *os.File
	enc  *json.Encoder
}

// NewJSONLRecorder creates/opens the target file and returns a recorder.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLRecorder{file: file, enc: json.NewEncoder(file)}, nil
}

// Record writes a single trade to the underlying JSONL file.
func (r *JSONLRecorder) Record(t position.Trade) error {
	return r.enc.Encode(t)
}

// Close flushes and closes the file handle.
func (r *JSONLRecorder) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// WriteTradesCSV dumps the ledger as one row per trade.
func WriteTradesCSV(path string, trades []position.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write([]string{
		"entry_time", "exit_time", "direction", "entry", "exit", "size",
		"gross_pnl", "costs", "net_pnl", "close_reason", "confidence",
	})
	for _, t := range trades {
		_ = w.Write([]string{
			t.EntryTime.Format(time.RFC3339),
			t.ExitTime.Format(time.RFC3339),
			string(t.Direction),
			formatF(t.EntryPrice), formatF(t.ExitPrice), formatF(t.Size),
			formatF(t.GrossPnL), formatF(t.Costs), formatF(t.NetPnL),
			string(t.CloseReason), formatF(t.Confidence),
		})
	}
	return w.Error()
}

// WriteEquityCSV dumps the equity curve as ts,value rows.
func WriteEquityCSV(path string, curve equity.Curve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create equity csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	_ = w.Write([]string{"ts", "value"})
	for _, p := range curve {
		_ = w.Write([]string{p.Ts.Format(time.RFC3339), formatF(p.Value)})
	}
	return w.Error()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
