package client

import (
	"context"
	"github.com/gorilla/websocket"
	"gitlab.com/open-soft/altcoin-autosell/src/utils"
	"log"
	"time"
)

const DefaultReconnectDelay = 10 * time.Second

type StreamListenerInterface interface {
	Listen(ctx context.Context, address string, onMessage func(message []byte))
}

type WebsocketClient struct {
	Dialer         *websocket.Dialer
	ReconnectDelay time.Duration
	TimeService    utils.TimeServiceInterface
}

func NewWebsocketClient() *WebsocketClient {
	return &WebsocketClient{
		Dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
		ReconnectDelay: DefaultReconnectDelay,
		TimeService:    &utils.TimeHelper{},
	}
}

// Listen passes every message to onMessage and reconnects on dial or read
// errors. Returns once ctx is done.
func (w *WebsocketClient) Listen(ctx context.Context, address string, onMessage func(message []byte)) {
	for ctx.Err() == nil {
		connection, _, err := w.Dialer.DialContext(ctx, address, nil)
		if err != nil {
			log.Printf("WS [%s]: %s, wait and reconnect...", address, err.Error())
			w.TimeService.Wait(ctx, w.ReconnectDelay)
			continue
		}

		w.read(ctx, connection, address, onMessage)

		if ctx.Err() == nil {
			log.Printf("WS [%s]: disconnected, wait and reconnect...", address)
			w.TimeService.Wait(ctx, w.ReconnectDelay)
		}
	}
}

func (w *WebsocketClient) read(ctx context.Context, connection *websocket.Conn, address string, onMessage func(message []byte)) {
	done := make(chan struct{})
	defer close(done)

	// unblocks ReadMessage on shutdown
	go func() {
		select {
		case <-ctx.Done():
			_ = connection.Close()
		case <-done:
		}
	}()

	defer connection.Close()

	for {
		_, message, err := connection.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("WS [%s], read: %s", address, err.Error())
			}
			return
		}

		onMessage(message)
	}
}
