// Package hub provides a thread-safe websocket broadcast hub for pose
// streams, using the channel-based fan-out pattern: one goroutine owns the
// client set, everything else talks to it through channels.
package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/enhanced-telerobotics/go-mt4/internal/log"
)

// Hub maintains the set of connected clients and broadcasts pose frames to
// them.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns, so clients stop trying to unregister
	// against a loop that is no longer draining.
	done chan struct{}

	// Guards clients. Run mutates the set (register, unregister, and
	// slow-client drops during a broadcast); ClientCount reads it from
	// other goroutines.
	mu sync.RWMutex
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and blocks until ctx is cancelled.
// This should be called in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("stream client connected", "hub", h.name, "client", client.id, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("stream client disconnected", "hub", h.name, "client", client.id, "remaining", count)

		case frame := <-h.broadcast:
			// Full lock: dropping a slow client mutates the map, which
			// must not race with ClientCount readers.
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Client's buffer is full - they're too slow.
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow stream client", "hub", h.name, "client", client.id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastJSON encodes v and broadcasts it to all connected clients. A full
// broadcast channel drops the frame rather than blocking the producer.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn("broadcast channel full, dropping frame", "hub", h.name)
	}
	return nil
}

// drop unregisters a client. Once Run has returned nobody drains the
// unregister channel anymore, so a client disconnecting during shutdown
// returns immediately instead of leaking its goroutine.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
