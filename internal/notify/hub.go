package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/os2357/fuels-wallet/pkg/types"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The hub serves local wallet processes only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub relays DB events to out-of-process consumers over websockets. Other
// wallet processes connect, receive every event as a JSON message, and react
// (for example by refreshing cached reads after a restart).
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: slog.Default().With("component", "notify-hub"),
	}
}

// ServeHTTP upgrades the request to a websocket and keeps the connection
// registered until the peer goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("subscriber connected", "remote", conn.RemoteAddr())

	// Drain reads so close frames are processed; the hub never expects
	// inbound payloads.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Run forwards events from the broadcaster to every connected peer until
// the subscription channel closes.
func (h *Hub) Run(events <-chan types.DBEvent) {
	for ev := range events {
		h.broadcast(ev)
	}
}

func (h *Hub) broadcast(ev types.DBEvent) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Warn("dropping subscriber", "remote", conn.RemoteAddr(), "error", err)
			h.drop(conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
