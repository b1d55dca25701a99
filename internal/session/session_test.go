package session

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
)

func echoDepthServer(t *testing.T, frame string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Drain the subscription frame.
		_, _, _ = conn.ReadMessage()

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))

		// Keep the connection open until the test closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func fakeDecoder(raw []byte) (book.Update, adapter.Signal) {
	if !strings.Contains(string(raw), "bid") {
		return book.Update{}, adapter.SignalNone
	}
	return book.Update{Exchange: "fake"}, adapter.SignalData
}

func TestSessionDeliversDecodedUpdate(t *testing.T) {
	srv := echoDepthServer(t, `{"bid":"99"}`)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ad := adapter.New("fake", url, map[string]string{"sub": "1"}, fakeDecoder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Start(ctx, ad, Options{Logger: zerolog.Nop()})

	select {
	case u := <-h.Updates():
		require.Equal(t, book.ExchangeCode("fake"), u.Exchange)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}

	h.Close()

	select {
	case <-doneSignal(h):
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate after Close")
	}
}

func doneSignal(h Handle) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		h.Wait()
		close(done)
	}()
	return done
}
