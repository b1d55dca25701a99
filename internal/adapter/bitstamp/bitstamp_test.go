package bitstamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookagg/internal/adapter"
)

func TestDecodeOrderBookFrame(t *testing.T) {
	decode := makeDecoder(10)
	raw := []byte(`{"event":"data","channel":"order_book_ethbtc","data":{"bids":[["0.065","1.0"]],"asks":[["0.066","2.0"]]}}`)

	u, sig := decode(raw)
	require.Equal(t, adapter.SignalData, sig)
	require.Len(t, u.Bids, 1)
	require.Len(t, u.Asks, 1)
	assert.Equal(t, Exchange, u.Exchange)
}

func TestDecodeRequestReconnect(t *testing.T) {
	decode := makeDecoder(10)
	raw := []byte(`{"event":"bts:request_reconnect","channel":"order_book_ethbtc","data":{}}`)

	_, sig := decode(raw)
	assert.Equal(t, adapter.SignalReconnect, sig)
}

func TestDecodeSubscriptionAckIsDropped(t *testing.T) {
	decode := makeDecoder(10)
	raw := []byte(`{"event":"bts:subscription_succeeded","channel":"order_book_ethbtc","data":{}}`)

	_, sig := decode(raw)
	assert.Equal(t, adapter.SignalNone, sig)
}

func TestSubscriptionChannel(t *testing.T) {
	a := New("ETH-BTC", 10)
	sub, ok := a.Subscription.(map[string]interface{})
	require.True(t, ok)
	data, ok := sub["data"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "order_book_ethbtc", data["channel"])
}
