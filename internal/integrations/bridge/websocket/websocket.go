// Package websocket relays an Actomaton's observation feed to connected
// websocket clients, one-way only — no inbound client message is ever
// turned into a Send. It is a monitoring relay, not a UI data-binding
// layer.
package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Relay fans a single coalescing state feed out to every connected client.
type Relay[S any] struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// Option configures a Relay.
type Option[S any] func(*Relay[S])

// WithLogger injects a structured logger for connection/write failures.
// Defaults to a discarding logger.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(r *Relay[S]) { r.logger = logger }
}

// New builds a Relay.
func New[S any](opts ...Option[S]) *Relay[S] {
	r := &Relay[S]{logger: slog.New(slog.DiscardHandler), clients: make(map[*websocket.Conn]struct{})}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ServeHTTP upgrades the request to a websocket and registers it as a
// broadcast target until the client disconnects. Inbound frames from the
// client are read and discarded, never acted on.
func (r *Relay[S]) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("actomaton/bridge/websocket: upgrade", "error", err)
		return
	}

	r.mu.Lock()
	r.clients[conn] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.clients, conn)
		r.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Drive reads from feed (typically Actomaton.Subscribe) and broadcasts
// every state to every connected client as JSON, until feed closes.
func (r *Relay[S]) Drive(feed <-chan S) {
	for state := range feed {
		body, err := json.Marshal(state)
		if err != nil {
			r.logger.Error("actomaton/bridge/websocket: marshal state", "error", err)
			continue
		}
		r.broadcast(body)
	}
}

func (r *Relay[S]) broadcast(body []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for conn := range r.clients {
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			r.logger.Error("actomaton/bridge/websocket: write", "error", err)
		}
	}
}
