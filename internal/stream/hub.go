// Package stream pushes created alerts to websocket subscribers.
package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/alerts"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // single-operator demo deployment, no origin policy
	},
}

// Hub broadcasts created alerts to connected websocket clients. A slow
// client is dropped rather than allowed to stall the broadcast loop.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan *alerts.Alert
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish implements alerts.Publisher.
func (h *Hub) Publish(alert *alerts.Alert) error {
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- alert:
		default:
			// Slow consumer: disconnect instead of blocking.
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
	return nil
}

// ServeWS upgrades the request and streams alerts until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan *alerts.Alert, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("alert stream client connected", zap.String("remote", r.RemoteAddr))

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for alert := range c.send {
		if err := c.conn.WriteJSON(alert); err != nil {
			h.logger.Debug("alert stream write failed", zap.Error(err))
			c.conn.Close()
			return
		}
	}
	c.conn.Close()
}

// readLoop drains client frames so pings/closes are processed, and detaches
// the client once the connection dies.
func (h *Hub) readLoop(c *client) {
	defer h.detach(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
