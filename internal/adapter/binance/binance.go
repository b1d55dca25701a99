// Package binance decodes Binance's partial-depth stream frames into
// book.Update snapshots.
package binance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bookagg/internal/adapter"
	"bookagg/internal/book"
)

// Exchange is the interned code this adapter tags every level with.
const Exchange book.ExchangeCode = "binance"

const defaultURL = "wss://stream.binance.com:9443/ws"

// New builds the Binance adapter for one currency pair, subscribing to
// its partial-depth stream at the system-wide depth and the fastest
// publicly offered cadence.
func New(pair string, depth int) *adapter.Adapter {
	if depth <= 0 {
		depth = book.DefaultDepth
	}
	channel := fmt.Sprintf("%s@depth%d@100ms", strings.ToLower(stripPair(pair)), depth)

	sub := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": []string{channel},
		"id":     10,
	}

	return adapter.New(Exchange, defaultURL, sub, makeDecoder(depth))
}

// stripPair turns "ETH-BTC" into "ethbtc", Binance's concatenated
// stream-symbol format.
func stripPair(pair string) string {
	return strings.ReplaceAll(pair, "-", "")
}

type depthFrame struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// makeDecoder closes over the system-wide depth: every decoded
// snapshot is truncated to it before being handed to the aggregate
// book, regardless of how many levels Binance happened to send.
func makeDecoder(depth int) adapter.Decoder {
	return func(raw []byte) (book.Update, adapter.Signal) {
		var frame depthFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return book.Update{}, adapter.SignalNone
		}
		if len(frame.Bids) == 0 && len(frame.Asks) == 0 {
			return book.Update{}, adapter.SignalNone
		}

		return book.Update{
			Exchange: Exchange,
			Bids:     truncate(levels(frame.Bids), depth),
			Asks:     truncate(levels(frame.Asks), depth),
		}, adapter.SignalData
	}
}

func truncate(levels []book.ExchangeLevel, depth int) []book.ExchangeLevel {
	if len(levels) > depth {
		return levels[:depth]
	}
	return levels
}

func levels(tuples [][2]string) []book.ExchangeLevel {
	out := make([]book.ExchangeLevel, 0, len(tuples))
	for _, t := range tuples {
		price, err := decimal.NewFromString(t[0])
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(t[1])
		if err != nil {
			continue
		}
		out = append(out, book.ExchangeLevel{Exchange: Exchange, Price: price, Amount: amount})
	}
	return out
}
