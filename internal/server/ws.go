package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

const (
	// clientBuffer is how many snapshots may queue for a slow client before
	// newer ones are dropped for it.
	clientBuffer = 8
	// writeWait bounds a single write to a client.
	writeWait = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// hubClient is one connected browser. Its writer goroutine drains send.
type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// writeLoop sends queued snapshots until send is closed or a write fails.
func (c *hubClient) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			// Closing the connection ends the read loop, which unregisters the client.
			c.conn.Close()
			return
		}
	}
}

// GameHub broadcasts game snapshots to connected web socket clients.
// New clients receive the most recent snapshot immediately. Publish never
// blocks on a client; each client has its own writer goroutine.
type GameHub struct {
	clients map[*hubClient]bool
	last    []byte
	dropped uint64
	mu      sync.Mutex
}

// NewGameHub creates an empty hub.
func NewGameHub() *GameHub {
	return &GameHub{
		clients: make(map[*hubClient]bool),
	}
}

// ServeHTTP handles web socket upgrade requests.
func (h *GameHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &hubClient{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	h.mu.Lock()
	h.clients[c] = true
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	go c.writeLoop()
	defer h.remove(c)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish queues snap for every client. A client whose queue is full misses
// this snapshot.
func (h *GameHub) Publish(snap shapegame.Snapshot) {
	msg, err := json.Marshal(snap)
	if err != nil {
		log.Printf("encode snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
		}
	}
}

// Clients returns the number of connected clients.
func (h *GameHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many snapshots were skipped for slow clients.
func (h *GameHub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *GameHub) remove(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
