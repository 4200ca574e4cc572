package signal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// LoadJSONL reads one signal per line from a JSONL file produced by an
// external prediction source.
func LoadJSONL(path string) ([]Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signals: %w", err)
	}
	defer f.Close()

	var signals []Signal
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var s Signal
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("signals line %d: %w", line, err)
		}
		if !s.Direction.Valid() {
			return nil, fmt.Errorf("signals line %d: unknown direction %q", line, s.Direction)
		}
		signals = append(signals, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}
	return signals, nil
}
