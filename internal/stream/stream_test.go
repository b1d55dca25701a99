package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bookagg/internal/adapter"
	"bookagg/internal/book"
	"bookagg/internal/session"
)

// decodeExchangeFrame treats the raw frame as the exchange code itself,
// which is all these tests need to tell sources apart.
func decodeExchangeFrame(raw []byte) (book.Update, adapter.Signal) {
	return book.Update{Exchange: book.ExchangeCode(raw)}, adapter.SignalData
}

// startEchoSession starts a real session against a local WebSocket
// server that relays whatever is sent on the returned feed function.
// It returns the handle, the feed function, and a stop function.
func startEchoSession(t *testing.T) (session.Handle, func(book.Update), func()) {
	t.Helper()

	push := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		_, _, _ = conn.ReadMessage() // drain subscription frame

		go func() {
			for msg := range push {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ad := adapter.New("relay", url, map[string]string{"sub": "1"}, decodeExchangeFrame)

	ctx, cancel := context.WithCancel(context.Background())
	h := session.Start(ctx, ad, session.Options{Logger: zerolog.Nop()})

	feed := func(u book.Update) {
		push <- string(u.Exchange)
	}
	stop := func() {
		cancel()
		srv.Close()
	}
	return h, feed, stop
}

func TestMergeOfSingleHandleIsPassthrough(t *testing.T) {
	// A single handle must not be wrapped in a fuse node; Merge returns
	// its updates unchanged.
	h, feed, stop := startEchoSession(t)
	defer stop()

	feed(book.Update{Exchange: "only"})

	s := Merge(h)
	select {
	case u := <-s.Updates():
		require.Equal(t, book.ExchangeCode("only"), u.Exchange)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for passthrough update")
	}
}

func TestMergeInterleavesBothSources(t *testing.T) {
	h1, feed1, stop1 := startEchoSession(t)
	defer stop1()
	h2, feed2, stop2 := startEchoSession(t)
	defer stop2()

	s := Merge(h1, h2)

	feed1(book.Update{Exchange: "one"})
	feed2(book.Update{Exchange: "two"})

	seen := map[book.ExchangeCode]bool{}
	for len(seen) < 2 {
		select {
		case u := <-s.Updates():
			seen[u.Exchange] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for both sources, saw %v", seen)
		}
	}
	require.True(t, seen["one"])
	require.True(t, seen["two"])
}

func TestMergeOfThreeFoldsLeftToRight(t *testing.T) {
	h1, feed1, stop1 := startEchoSession(t)
	defer stop1()
	h2, feed2, stop2 := startEchoSession(t)
	defer stop2()
	h3, feed3, stop3 := startEchoSession(t)
	defer stop3()

	s := Merge(h1, h2, h3)

	feed1(book.Update{Exchange: "one"})
	feed2(book.Update{Exchange: "two"})
	feed3(book.Update{Exchange: "three"})

	seen := map[book.ExchangeCode]bool{}
	for len(seen) < 3 {
		select {
		case u := <-s.Updates():
			seen[u.Exchange] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for all three sources, saw %v", seen)
		}
	}
}

func TestCloseTerminatesEveryLeafAndDrainsStream(t *testing.T) {
	h1, _, stop1 := startEchoSession(t)
	defer stop1()
	h2, _, stop2 := startEchoSession(t)
	defer stop2()

	s := Merge(h1, h2)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Close(ctx)

	select {
	case <-h1.Done():
	default:
		t.Fatal("first leaf did not terminate")
	}
	select {
	case <-h2.Done():
	default:
		t.Fatal("second leaf did not terminate")
	}

	select {
	case _, stillOpen := <-s.Updates():
		require.False(t, stillOpen, "fused stream should be closed after Close")
	case <-time.After(time.Second):
		t.Fatal("fused stream did not close after Close")
	}
}
