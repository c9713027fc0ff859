package telemetry

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lixenwraith/salvo/core"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans encoded frames out to websocket observers
// Observers are read-only; inbound messages are discarded
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	// clientCount mirrors len(clients) for lock-free reads
	clientCount *atomic.Int64
}

// NewHub creates a hub; count receives the live client count when non-nil
func NewHub(count *atomic.Int64) *Hub {
	if count == nil {
		count = new(atomic.Int64)
	}
	return &Hub{
		clients:     make(map[*client]struct{}),
		clientCount: count,
	}
}

// ServeHTTP upgrades the request and registers the observer
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("telemetry: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.clientCount.Store(int64(len(h.clients)))
	h.mu.Unlock()

	core.Go(func() { h.writePump(c) })
	core.Go(func() { h.readPump(c) })
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.drop(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readPump drains control frames and detects disconnects
func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.clientCount.Store(int64(len(h.clients)))
	c.close()
}

// Clients returns the number of connected observers
func (h *Hub) Clients() int { return int(h.clientCount.Load()) }

// Broadcast encodes f once and queues it for every observer
// Observers whose buffer is full skip the frame
func (h *Hub) Broadcast(f *Frame) error {
	if h.Clients() == 0 {
		return nil
	}
	data, err := Encode(f)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// Close disconnects every observer and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.clientCount.Store(0)
}
