package client_test

import (
	"context"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/altcoin-autosell/src/client"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWebsocketClientDeliversMessagesUntilCancelled(t *testing.T) {
	assertion := assert.New(t)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer connection.Close()

		_ = connection.WriteMessage(websocket.TextMessage, []byte(`[{"s":"DOGEBTC","c":"0.0000015","h":"0.0000016"}]`))
		_ = connection.WriteMessage(websocket.TextMessage, []byte(`[{"s":"LTCBTC","c":"0.00125","h":"0.0013"}]`))

		// keep the connection open until the client goes away
		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lock sync.Mutex
	messages := make([]string, 0)
	received := make(chan struct{})

	wsClient := client.NewWebsocketClient()
	wsClient.ReconnectDelay = 10 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		wsClient.Listen(ctx, "ws"+strings.TrimPrefix(server.URL, "http"), func(message []byte) {
			lock.Lock()
			defer lock.Unlock()
			messages = append(messages, string(message))
			if len(messages) == 2 {
				close(received)
			}
		})
	}()

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("messages were not delivered")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}

	lock.Lock()
	defer lock.Unlock()
	assertion.Len(messages, 2)
	assertion.Contains(messages[0], "DOGEBTC")
	assertion.Contains(messages[1], "LTCBTC")
}

func TestWebsocketClientStopsWhileReconnecting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	wsClient := client.NewWebsocketClient()
	wsClient.ReconnectDelay = time.Hour

	done := make(chan struct{})
	go func() {
		defer close(done)
		wsClient.Listen(ctx, "ws://127.0.0.1:1/ws", func(message []byte) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}
