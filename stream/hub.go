// Package stream broadcasts simulation frames to remote renderers over WebSocket.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/gorilla/websocket"
	"github.com/wooyong8969/retrograde"
)

const (
	writeWait = 5 * time.Second
	// Frames buffered per client before it is considered too slow and dropped.
	clientBuffer = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a retrograde.FrameSink which sends every frame, as JSON, to all connected clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   kitlog.Logger
	mu       sync.Mutex
	clients  map[*client]bool
	closed   bool
	wg       sync.WaitGroup
}

// NewHub returns a new hub. Any origin is accepted.
func NewHub(logger kitlog.Logger) *Hub {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  kitlog.With(logger, "subsys", "stream"),
		clients: make(map[*client]bool),
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Log("level", "warning", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation over"))
		conn.Close()
		return
	}
	h.clients[c] = true
	h.wg.Add(2)
	h.mu.Unlock()
	h.logger.Log("level", "info", "remote", r.RemoteAddr, "status", "connected")
	go h.writePump(c)
	go h.readPump(c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Consume broadcasts the frame. Clients which cannot keep up are disconnected.
func (h *Hub) Consume(f retrograde.Frame) error {
	msg, err := json.Marshal(f)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Log("level", "warning", "remote", c.conn.RemoteAddr(), "status", "too slow", "tick", f.Tick)
			h.remove(c)
		}
	}
	return nil
}

// Close disconnects all the clients and waits for their goroutines to exit.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		h.remove(c)
	}
	h.mu.Unlock()
	h.wg.Wait()
	return nil
}

// remove unregisters c; the caller must hold the lock.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writePump(c *client) {
	defer h.wg.Done()
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
			// Drain until the channel is closed.
			for range c.send {
			}
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation over"))
}

// readPump discards incoming messages and unregisters the client when it goes away.
func (h *Hub) readPump(c *client) {
	defer h.wg.Done()
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
			return
		}
	}
}
