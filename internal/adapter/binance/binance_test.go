package binance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookagg/internal/adapter"
)

func TestDecodeDepthFrame(t *testing.T) {
	decode := makeDecoder(10)
	raw := []byte(`{"lastUpdateId":1,"bids":[["0.0650","10.0"],["0.0649","5.0"]],"asks":[["0.0651","8.0"]]}`)

	u, sig := decode(raw)
	require.Equal(t, adapter.SignalData, sig)
	require.Len(t, u.Bids, 2)
	require.Len(t, u.Asks, 1)
	assert.Equal(t, Exchange, u.Exchange)
	assert.True(t, u.Bids[0].Price.Equal(u.Bids[0].Price))
}

func TestDecodeTruncatesToDepth(t *testing.T) {
	decode := makeDecoder(1)
	raw := []byte(`{"bids":[["10","1"],["9","1"]],"asks":[["11","1"],["12","1"]]}`)

	u, sig := decode(raw)
	require.Equal(t, adapter.SignalData, sig)
	assert.Len(t, u.Bids, 1)
	assert.Len(t, u.Asks, 1)
}

// TestDecodePartialBookDepthPayload pins down the real wire shape for
// the <pair>@depth<N>@100ms channel this adapter actually subscribes
// to: a top-level lastUpdateId/bids/asks snapshot, not the diff-depth
// depthUpdate event's b/a fields.
func TestDecodePartialBookDepthPayload(t *testing.T) {
	decode := makeDecoder(10)
	raw := []byte(`{"lastUpdateId":1,"bids":[["0.065","10"]],"asks":[["0.066","8"]]}`)

	u, sig := decode(raw)
	require.Equal(t, adapter.SignalData, sig)
	require.Len(t, u.Bids, 1)
	require.Len(t, u.Asks, 1)
	assert.Equal(t, Exchange, u.Exchange)
}

func TestDecodeMalformedFrameIsDropped(t *testing.T) {
	decode := makeDecoder(10)
	u, sig := decode([]byte(`not json`))
	assert.Equal(t, adapter.SignalNone, sig)
	assert.Equal(t, "", string(u.Exchange))
}

func TestDecodeEmptyFrameIsDropped(t *testing.T) {
	decode := makeDecoder(10)
	u, sig := decode([]byte(`{"result":null,"id":10}`))
	assert.Equal(t, adapter.SignalNone, sig)
	assert.Equal(t, "", string(u.Exchange))
}

func TestSubscriptionChannelFormat(t *testing.T) {
	a := New("ETH-BTC", 10)
	sub, ok := a.Subscription.(map[string]interface{})
	require.True(t, ok)
	params, ok := sub["params"].([]string)
	require.True(t, ok)
	require.Equal(t, []string{"ethbtc@depth10@100ms"}, params)
}
