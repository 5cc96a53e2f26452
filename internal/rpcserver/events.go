package rpcserver

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nocturne-player/nocturne/internal/kernel"
)

// eventHub fans KernelToFrontend events out to every connected /events
// WebSocket client, grounded on tphakala-birdnet-go's
// internal/httpcontroller/handlers/websocket.go client-registry pattern
// (simplified: no per-source buffering, since events here are small JSON
// frames rather than raw audio bytes).
type eventHub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

func newEventHub() *eventHub {
	return &eventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *eventHub) handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("rpcserver: websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()

	slog.Info("rpcserver: /events client connected", "remote", conn.RemoteAddr().String())

	// The client never sends anything meaningful; block on reads purely to
	// detect disconnects, same as the teacher's handleClientMessages loop.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
	slog.Info("rpcserver: /events client disconnected", "remote", conn.RemoteAddr().String())
}

func (h *eventHub) broadcast(evt kernel.KernelToFrontend) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	mus := make([]*sync.Mutex, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, conn)
		mus = append(mus, mu)
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		mus[i].Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := conn.WriteJSON(evt)
		mus[i].Unlock()
		if err != nil {
			slog.Warn("rpcserver: failed to push event, dropping client", "error", err)
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}
	}
}

func (s *Server) handleEvents(c *gin.Context) {
	s.hub.handle(c)
}
