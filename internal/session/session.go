// Package session implements the per-exchange supervised connection:
// connect, subscribe, read, answer liveness pings, decode, and
// transparently reconnect on transport failure or an adapter-signalled
// reconnect request. It is built the way the teacher's
// adapters/binance.go and adapters/okx.go build their own connection
// loops, generalized away from exchange-specific parsing (which now
// lives behind adapter.Adapter.Decode) and onto a single state machine
// shared by every exchange.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"bookagg/internal/adapter"
	"bookagg/internal/book"
	"bookagg/internal/logging"
	"bookagg/internal/metrics"
)

// Command is a control-channel message. CLOSE is the only one the
// design calls for.
type Command int

const (
	// Close tells a live session to send a close frame and terminate.
	Close Command = iota
)

const (
	dialTimeout    = 10 * time.Second
	maxMessageSize = 512 * 1024
	pingInterval   = 20 * time.Second
	pongTimeout    = 60 * time.Second
	writeWait      = 10 * time.Second
)

// ReconnectConfig bounds the reconnect delay. A fixed 200ms delay is
// the design's baseline policy; this keeps the teacher's exponential
// backoff with a cap instead, the "reasonable upgrade" the design notes
// call out, while remaining bounded so a permanently down exchange
// cannot starve attempts.
type ReconnectConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultReconnect matches the design's 200ms baseline as a starting
// point before backoff grows it.
var DefaultReconnect = ReconnectConfig{
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     30 * time.Second,
	Multiplier:   2.0,
}

// Options configures a Session.
type Options struct {
	Logger zerolog.Logger
	// Reconnect bounds the backoff between reconnect attempts.
	Reconnect ReconnectConfig
	// Limiter, if set, is shared across every session a subscriber
	// owns and throttles how fast any one of them can retry — the
	// design's "must remain bounded" guard against a flapping
	// exchange starving attempts.
	Limiter *rate.Limiter
	// OutboundCapacity bounds the updates channel; 16 if unset.
	OutboundCapacity int
	// OnStatusChange, if set, is called from the session's own
	// goroutine whenever its connection status changes. It must not
	// block; a caller wiring this up to Kafka or Redis is expected to
	// do so asynchronously.
	OnStatusChange func(status, reason string)
}

// Handle is a running session's two ends: the receive end for typed
// updates, and the control send end used to request a close.
type Handle struct {
	exchange book.ExchangeCode
	updates  <-chan book.Update
	control  chan<- Command
	done     <-chan struct{}
}

// Updates is the session's outbound channel. It carries updates only
// for this session's own exchange code.
func (h Handle) Updates() <-chan book.Update { return h.updates }

// Exchange reports which exchange this handle belongs to.
func (h Handle) Exchange() book.ExchangeCode { return h.exchange }

// Close requests the session terminate. It does not block past the
// session's own termination.
func (h Handle) Close() {
	select {
	case h.control <- Close:
	case <-h.done:
	}
}

// Wait blocks until the session has fully terminated.
func (h Handle) Wait() {
	<-h.done
}

// Done returns a channel closed once the session has fully terminated.
func (h Handle) Done() <-chan struct{} { return h.done }

type session struct {
	ad        *adapter.Adapter
	log       zerolog.Logger
	reconnect ReconnectConfig
	limiter   *rate.Limiter
	delay     time.Duration
	onStatus  func(status, reason string)
}

func (s *session) notify(status, reason string) {
	if s.onStatus != nil {
		s.onStatus(status, reason)
	}
}

// Start spawns a supervised session for the given adapter and returns
// its handle. The session runs until ctx is canceled or Handle.Close is
// called.
func Start(ctx context.Context, ad *adapter.Adapter, opts Options) Handle {
	if opts.OutboundCapacity <= 0 {
		opts.OutboundCapacity = 16
	}
	if opts.Reconnect.InitialDelay <= 0 {
		opts.Reconnect = DefaultReconnect
	}

	updates := make(chan book.Update, opts.OutboundCapacity)
	control := make(chan Command, 1)
	done := make(chan struct{})

	s := &session{
		ad:        ad,
		log:       logging.Component(opts.Logger, string(ad.Exchange)),
		reconnect: opts.Reconnect,
		limiter:   opts.Limiter,
		delay:     opts.Reconnect.InitialDelay,
		onStatus:  opts.OnStatusChange,
	}

	go s.run(ctx, updates, control, done)

	return Handle{
		exchange: ad.Exchange,
		updates:  updates,
		control:  control,
		done:     done,
	}
}

func (s *session) run(ctx context.Context, updates chan<- book.Update, control <-chan Command, done chan<- struct{}) {
	defer close(done)
	defer close(updates)

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.connect(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("connect failed")
			metrics.SessionsReconnected.WithLabelValues(string(s.ad.Exchange), "transport").Inc()
			s.notify("reconnecting", "transport")
			if s.waitToRetry(ctx, control) {
				s.notify("disconnected", "transport")
				return
			}
			continue
		}

		metrics.SessionsConnected.WithLabelValues(string(s.ad.Exchange)).Inc()
		s.notify("connected", "")
		s.delay = s.reconnect.InitialDelay // reset backoff after a live session

		closed := s.live(ctx, conn, updates, control)
		conn.Close()
		if closed {
			s.notify("disconnected", "closed")
			return
		}

		s.notify("reconnecting", "live")
		if s.waitToRetry(ctx, control) {
			s.notify("disconnected", "live")
			return
		}
	}
}

func (s *session) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = dialTimeout

	conn, _, err := dialer.DialContext(ctx, s.ad.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.ad.Exchange, err)
	}
	conn.SetReadLimit(maxMessageSize)

	if err := conn.WriteJSON(s.ad.Subscription); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", s.ad.Exchange, err)
	}
	return conn, nil
}

// waitToRetry sleeps the current backoff delay, honoring ctx
// cancellation and an incoming CLOSE. It reports whether the session
// should terminate instead of reconnecting.
func (s *session) waitToRetry(ctx context.Context, control <-chan Command) (shouldStop bool) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return true
		}
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	s.delay = time.Duration(float64(s.delay) * s.reconnect.Multiplier)
	if s.delay > s.reconnect.MaxDelay {
		s.delay = s.reconnect.MaxDelay
	}

	select {
	case <-ctx.Done():
		return true
	case cmd := <-control:
		return cmd == Close
	case <-timer.C:
		return false
	}
}
