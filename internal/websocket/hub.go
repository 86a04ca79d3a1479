// Package websocket streams pipeline progress events to connected clients.
package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"rapihcli/internal/pipeline"
)

// Hub fans pipeline progress events out to every connected client. It
// implements pipeline.Notifier.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewHub creates a Hub. A nil logger falls back to slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger.With(slog.String("component", "ws_hub")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the client
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	send := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writeLoop(conn, send)
	h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan []byte) {
	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readLoop drains client frames; the hub is broadcast-only, so anything the
// client sends is discarded. Returning unregisters the connection.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		if send, ok := h.clients[conn]; ok {
			close(send)
			delete(h.clients, conn)
		}
		h.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NotifyProgress implements pipeline.Notifier.
func (h *Hub) NotifyProgress(event pipeline.ProgressEvent) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": "pipeline:progress",
		"data": event,
	})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			// Slow client; drop the event rather than block the pipeline.
			h.logger.Debug("progress event dropped", slog.String("remote", conn.RemoteAddr().String()))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
