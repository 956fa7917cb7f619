package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from anywhere during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans scored verdicts out to connected websocket clients. gorilla
// permits a single concurrent writer per connection, so each connection
// carries its own write lock; concurrent broadcasts serialize on it.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]*sync.Mutex)}
}

// HandleWS upgrades the request and keeps the connection registered until
// the peer goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	h.mu.Unlock()

	// Reads are discarded; the socket exists to push verdicts out. The read
	// loop notices the peer closing.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// BroadcastJSON sends v to every connected client, dropping the ones that
// fail mid-write. Safe to call from concurrent handlers: writes to each
// connection are serialized on its write lock.
func (h *Hub) BroadcastJSON(v interface{}) {
	h.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for c, wmu := range h.conns {
		targets[c] = wmu
	}
	h.mu.Unlock()

	for c, wmu := range targets {
		wmu.Lock()
		err := c.WriteJSON(v)
		wmu.Unlock()
		if err != nil {
			h.drop(c)
		}
	}
}

// ClientCount is used by the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
