package session

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"bookagg/internal/adapter"
	"bookagg/internal/book"
	"bookagg/internal/metrics"
)

type wireFrame struct {
	msgType int
	data    []byte
	err     error
}

// live drains frames until the transport fails, the adapter signals a
// reconnect, ctx is canceled, or a CLOSE command arrives. It reports
// whether the session was closed deliberately (true) as opposed to
// needing a reconnect (false).
func (s *session) live(ctx context.Context, conn *websocket.Conn, updates chan<- book.Update, control <-chan Command) bool {
	frames := make(chan wireFrame, 1)
	readerDone := make(chan struct{})
	stop := make(chan struct{})

	lastPong := time.Now()
	conn.SetPongHandler(func(string) error {
		lastPong = time.Now()
		return nil
	})

	go func() {
		defer close(readerDone)
		for {
			mt, data, err := conn.ReadMessage()
			select {
			case frames <- wireFrame{msgType: mt, data: data, err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	defer func() {
		close(stop)
		conn.Close()
		<-readerDone
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return true

		case cmd := <-control:
			if cmd == Close {
				deadline := time.Now().Add(writeWait)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
				return true
			}

		case f := <-frames:
			if f.err != nil {
				s.log.Warn().Err(f.err).Msg("transport closed")
				metrics.SessionsReconnected.WithLabelValues(string(s.ad.Exchange), "transport").Inc()
				return false
			}
			if f.msgType != websocket.TextMessage {
				continue
			}

			update, sig := s.ad.Decode(f.data)
			switch sig {
			case adapter.SignalData:
				metrics.FramesDecoded.WithLabelValues(string(s.ad.Exchange)).Inc()
				// Blocking send: backpressure applies only to this
				// session, per the design. CLOSE is honored between
				// frames, not mid-send.
				updates <- update

			case adapter.SignalReconnect:
				s.log.Warn().Msg("exchange requested reconnect")
				metrics.SessionsReconnected.WithLabelValues(string(s.ad.Exchange), "protocol").Inc()
				return false

			default:
				s.log.Debug().Msg("dropped unrecognized frame")
				metrics.FramesDropped.WithLabelValues(string(s.ad.Exchange)).Inc()
			}

		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				s.log.Warn().Err(err).Msg("ping failed")
				return false
			}
			if time.Since(lastPong) > pongTimeout {
				s.log.Warn().Msg("pong timeout")
				return false
			}
		}
	}
}
