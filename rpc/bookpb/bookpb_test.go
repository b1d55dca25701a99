package bookpb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGettersOnNilReceiverReturnZeroValues(t *testing.T) {
	var lvl *Level
	require.Equal(t, "", lvl.GetExchange())
	require.Equal(t, 0.0, lvl.GetPrice())
	require.Equal(t, 0.0, lvl.GetAmount())

	var sum *Summary
	require.Equal(t, 0.0, sum.GetSpread())
	require.Nil(t, sum.GetBids())
	require.Nil(t, sum.GetAsks())
}

func TestResetClearsFields(t *testing.T) {
	lvl := &Level{Exchange: "binance", Price: 100, Amount: 2}
	lvl.Reset()
	require.Equal(t, Level{}, *lvl)

	sum := &Summary{Spread: 1.5, Bids: []*Level{lvl}}
	sum.Reset()
	require.Equal(t, Summary{}, *sum)
}
