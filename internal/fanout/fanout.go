// Package fanout drives one subscriber's BookSummary stream end to
// end: a private book.Book fed by a private stream.Stream, emitting a
// bookpb.Summary after every applied update. Each subscriber is fully
// isolated from every other; there is no lock shared across
// subscribers, mirroring the teacher's per-client hub.Client in
// services/api/internal/websocket, generalized from a broadcast hub to
// one aggregation pipeline per subscriber.
package fanout

import (
	"context"

	"bookagg/internal/book"
	"bookagg/internal/metrics"
	"bookagg/internal/stream"
	"bookagg/rpc/bookpb"
)

// outboundCapacity bounds the per-subscriber summary channel, the
// design's subscriber-side backpressure point.
const outboundCapacity = 128

// Subscriber owns one consolidated book and the sessions feeding it.
type Subscriber struct {
	bk    *book.Book
	depth int
	src   stream.Stream
	out   chan *bookpb.Summary
}

// NewSubscriber wires a subscriber to src. Call Run in its own
// goroutine to start draining updates.
func NewSubscriber(src stream.Stream, cfg book.Config) *Subscriber {
	depth := cfg.Depth
	if depth <= 0 {
		depth = book.DefaultDepth
	}
	return &Subscriber{
		bk:    book.New(cfg),
		depth: depth,
		src:   src,
		out:   make(chan *bookpb.Summary, outboundCapacity),
	}
}

// Summaries is the subscriber's outbound channel of wire-ready
// summaries.
func (s *Subscriber) Summaries() <-chan *bookpb.Summary { return s.out }

// Run applies every update from the subscriber's stream until ctx is
// canceled, the stream closes, or a fatal contract violation poisons
// this subscriber's book. It always closes the outbound channel on
// return so the caller can range over Summaries() without a separate
// done signal.
func (s *Subscriber) Run(ctx context.Context) {
	defer close(s.out)

	updates := s.src.Updates()
	for {
		select {
		case <-ctx.Done():
			return

		case u, ok := <-updates:
			if !ok {
				return
			}

			if err := s.bk.Apply(u); err != nil {
				metrics.ContractViolations.WithLabelValues(string(u.Exchange)).Inc()
				return
			}

			select {
			case s.out <- s.snapshot():
				metrics.SummariesEmitted.Inc()
			case <-ctx.Done():
				return
			}
		}
	}
}

// Close tears down every session feeding this subscriber and waits for
// them to terminate.
func (s *Subscriber) Close(ctx context.Context) {
	s.src.Close(ctx)
}

func (s *Subscriber) snapshot() *bookpb.Summary {
	bids := s.bk.BestBids(s.depth)
	asks := s.bk.BestAsks(s.depth)

	summary := &bookpb.Summary{
		Spread: s.bk.Spread(),
		Bids:   make([]*bookpb.Level, len(bids)),
		Asks:   make([]*bookpb.Level, len(asks)),
	}
	for i, lvl := range bids {
		summary.Bids[i] = toLevel(lvl)
	}
	for i, lvl := range asks {
		summary.Asks[i] = toLevel(lvl)
	}
	return summary
}

func toLevel(lvl book.ExchangeLevel) *bookpb.Level {
	price, _ := lvl.Price.Float64()
	amount, _ := lvl.Amount.Float64()
	return &bookpb.Level{
		Exchange: string(lvl.Exchange),
		Price:    price,
		Amount:   amount,
	}
}
