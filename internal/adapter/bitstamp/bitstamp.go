// Package bitstamp decodes Bitstamp's live order book channel, including
// its bts:request_reconnect service frame.
package bitstamp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bookagg/internal/adapter"
	"bookagg/internal/book"
)

// Exchange is the interned code this adapter tags every level with.
const Exchange book.ExchangeCode = "bitstamp"

const sharedURL = "wss://ws.bitstamp.net"

// New builds the Bitstamp adapter for one currency pair.
func New(pair string, depth int) *adapter.Adapter {
	if depth <= 0 {
		depth = book.DefaultDepth
	}
	channel := fmt.Sprintf("order_book_%s", strings.ToLower(strings.ReplaceAll(pair, "-", "")))

	sub := map[string]interface{}{
		"event": "bts:subscribe",
		"data": map[string]string{
			"channel": channel,
		},
	}

	return adapter.New(Exchange, sharedURL, sub, makeDecoder(depth))
}

type eventFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type orderBookData struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

func makeDecoder(depth int) adapter.Decoder {
	return func(raw []byte) (book.Update, adapter.Signal) {
		var frame eventFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return book.Update{}, adapter.SignalNone
		}

		switch frame.Event {
		case "bts:request_reconnect":
			return book.Update{}, adapter.SignalReconnect

		case "data":
			var data orderBookData
			if err := json.Unmarshal(frame.Data, &data); err != nil {
				return book.Update{}, adapter.SignalNone
			}
			if len(data.Bids) == 0 && len(data.Asks) == 0 {
				return book.Update{}, adapter.SignalNone
			}
			return book.Update{
				Exchange: Exchange,
				Bids:     truncate(levels(data.Bids), depth),
				Asks:     truncate(levels(data.Asks), depth),
			}, adapter.SignalData

		default:
			return book.Update{}, adapter.SignalNone
		}
	}
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

func truncate(levels []book.ExchangeLevel, depth int) []book.ExchangeLevel {
	if len(levels) > depth {
		return levels[:depth]
	}
	return levels
}
