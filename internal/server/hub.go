package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iksnae/workflow-recorder/internal"
)

const (
	clientBuffer = 64
	writeTimeout = 2 * time.Second
)

// Hub fans recorder updates out to WebSocket clients and in-process
// subscribers. Publish never blocks: a client whose buffer is full misses
// the update.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*hubClient]struct{}
	upgrader websocket.Upgrader

	lmu       sync.RWMutex
	listeners map[chan internal.Update]struct{}
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*hubClient]struct{}),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		listeners: make(map[chan internal.Update]struct{}),
	}
}

// HandleWS upgrades the request and streams updates until the client leaves
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		internal.LogDebug("websocket upgrade failed: %v", err)
		return
	}
	c := &hubClient{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	// server read deadline survives the hijack
	_ = conn.SetReadDeadline(time.Time{})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
}

func (c *hubClient) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// Publish implements internal.Broadcaster
func (h *Hub) Publish(update internal.Update) {
	data, err := json.Marshal(update)
	if err != nil {
		internal.LogWarn("failed to encode update: %v", err)
		return
	}

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	h.mu.RUnlock()

	h.lmu.RLock()
	for ch := range h.listeners {
		select {
		case ch <- update:
		default:
		}
	}
	h.lmu.RUnlock()
}

// ClientCount returns the number of connected WebSocket clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe returns a channel receiving updates. Caller must Unsubscribe.
func (h *Hub) Subscribe() chan internal.Update {
	ch := make(chan internal.Update, 256)
	h.lmu.Lock()
	h.listeners[ch] = struct{}{}
	h.lmu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel
func (h *Hub) Unsubscribe(ch chan internal.Update) {
	h.lmu.Lock()
	if _, ok := h.listeners[ch]; ok {
		delete(h.listeners, ch)
		close(ch)
	}
	h.lmu.Unlock()
}
