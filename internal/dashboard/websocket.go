package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Broadcaster pushes snapshot views to connected websocket clients.
type Broadcaster struct {
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewBroadcaster(log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      log,
	}
}

// Broadcast sends v as JSON to every client, dropping clients that fail.
func (b *Broadcaster) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		b.log.Error("marshal snapshot", zap.Error(err))
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			b.log.Debug("websocket write failed, dropping client", zap.Error(err))
			c.Close()
			delete(b.clients, c)
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// CloseAll disconnects every client.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		c.Close()
		delete(b.clients, c)
	}
}

// Handler accepts websocket connections and sends the current view on connect.
func (b *Broadcaster) Handler(current func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.log.Warn("websocket upgrade error", zap.Error(err))
			return
		}

		b.mu.Lock()
		if err := conn.WriteJSON(current()); err != nil {
			b.mu.Unlock()
			conn.Close()
			return
		}
		b.clients[conn] = struct{}{}
		b.mu.Unlock()

		// Drain reads so close frames are processed.
		go func() {
			defer func() {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
