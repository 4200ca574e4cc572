package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type klineEnvelope struct {
	Stream string     `json:"stream"`
	Data   klineEvent `json:"data"`
}

type klineEvent struct {
	Kline klinePayload `json:"k"`
}

type klinePayload struct {
	StartTime int64  `json:"t"`
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Close     string `json:"c"`
	Volume    string `json:"v"`
	Closed    bool   `json:"x"`
}

// BinanceFeed streams closed candles for one symbol from the Binance
// combined-stream websocket. Candles still forming are skipped so the
// consumer only ever sees finalized bars.
type BinanceFeed struct {
	symbol   string
	interval string
	log      zerolog.Logger
}

// NewBinanceFeed builds a kline feed for the given symbol and interval (e.g. "1m").
func NewBinanceFeed(symbol, interval string, log zerolog.Logger) *BinanceFeed {
	if interval == "" {
		interval = "1m"
	}
	return &BinanceFeed{symbol: strings.ToUpper(symbol), interval: interval, log: log}
}

// Run pushes closed bars onto out until the context is canceled, reconnecting
// with exponential backoff on stream errors.
func (f *BinanceFeed) Run(ctx context.Context, out chan<- Bar) error {
	if f.symbol == "" {
		return fmt.Errorf("binance feed requires a symbol")
	}

	url := fmt.Sprintf("wss://stream.binance.com:9443/stream?streams=%s@kline_%s",
		strings.ToLower(f.symbol), f.interval)
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.consumeStream(ctx, url, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Warn().Err(err).Msg("binance kline feed disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

// Collect drains the feed until n closed bars arrive or the context ends.
func (f *BinanceFeed) Collect(ctx context.Context, n int) ([]Bar, error) {
	out := make(chan Bar, n)
	collectCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- f.Run(collectCtx, out) }()

	bars := make([]Bar, 0, n)
	for len(bars) < n {
		select {
		case bar := <-out:
			bars = append(bars, bar)
		case err := <-errc:
			return bars, err
		case <-ctx.Done():
			return bars, ctx.Err()
		}
	}
	return bars, nil
}

func (f *BinanceFeed) consumeStream(ctx context.Context, url string, out chan<- Bar) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.log.Info().Str("symbol", f.symbol).Str("interval", f.interval).Msg("connected kline feed")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					f.log.Warn().Err(err).Msg("binance ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env klineEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			f.log.Warn().Err(err).Msg("failed to decode binance message")
			continue
		}
		k := env.Data.Kline
		if !k.Closed {
			continue
		}

		bar, err := parseKline(k)
		if err != nil {
			f.log.Warn().Err(err).Msg("invalid kline from binance")
			continue
		}
		select {
		case out <- bar:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func parseKline(k klinePayload) (Bar, error) {
	fields := [5]string{k.Open, k.High, k.Low, k.Close, k.Volume}
	var vals [5]float64
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Bar{}, fmt.Errorf("parse kline field %q: %w", s, err)
		}
		vals[i] = v
	}
	return Bar{
		Ts:     time.UnixMilli(k.StartTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
