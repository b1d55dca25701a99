package fanout

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookagg/internal/book"
)

// fakeStream is a stream.Stream a test can feed and close by hand,
// standing in for a real fused session multiplex.
type fakeStream struct {
	updates chan book.Update
	closed  chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		updates: make(chan book.Update, 4),
		closed:  make(chan struct{}),
	}
}

func (f *fakeStream) Updates() <-chan book.Update { return f.updates }

func (f *fakeStream) Close(ctx context.Context) {
	close(f.updates)
	close(f.closed)
}

func lvl(price, amount string) book.ExchangeLevel {
	return book.ExchangeLevel{
		Exchange: "x",
		Price:    decimal.RequireFromString(price),
		Amount:   decimal.RequireFromString(amount),
	}
}

func TestSubscriberEmitsSummaryAfterEachUpdate(t *testing.T) {
	src := newFakeStream()
	sub := NewSubscriber(src, book.Config{Depth: 5})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	src.updates <- book.Update{
		Exchange: "x",
		Bids:     []book.ExchangeLevel{lvl("100", "1")},
		Asks:     []book.ExchangeLevel{lvl("101", "1")},
	}

	select {
	case summary := <-sub.Summaries():
		require.Len(t, summary.Bids, 1)
		require.Len(t, summary.Asks, 1)
		require.InDelta(t, 1.0, summary.Spread, 1e-9)
		require.Equal(t, "x", summary.Bids[0].Exchange)
		require.InDelta(t, 100.0, summary.Bids[0].Price, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for summary")
	}
}

func TestSubscriberStopsOnContractViolation(t *testing.T) {
	src := newFakeStream()
	sub := NewSubscriber(src, book.Config{Depth: 5})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	src.updates <- book.Update{Exchange: "x", Bids: []book.ExchangeLevel{lvl("100", "1")}}
	select {
	case <-sub.Summaries():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first summary")
	}

	// Same exchange replacing its bid side out of order is a fatal
	// contract violation; the subscriber must stop and close its
	// outbound channel.
	src.updates <- book.Update{Exchange: "x", Bids: []book.ExchangeLevel{lvl("50", "1"), lvl("100", "1")}}

	select {
	case _, ok := <-sub.Summaries():
		require.False(t, ok, "subscriber must close its summary channel after a fatal violation")
	case <-time.After(time.Second):
		t.Fatal("subscriber did not stop after contract violation")
	}
}

func TestSubscriberCloseTearsDownStream(t *testing.T) {
	src := newFakeStream()
	sub := NewSubscriber(src, book.Config{Depth: 5})

	sub.Close(context.Background())

	select {
	case <-src.closed:
	default:
		t.Fatal("subscriber Close did not close the underlying stream")
	}
}
