// Package live pushes dashboard updates to browsers over websockets.
//
// A single Hub goroutine owns the client set. Publishers hand it messages
// through Publish; every message is fanned out to each client's buffered
// send queue. Clients whose queue is full are dropped rather than allowed to
// stall the feed.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message types.
const (
	TypeCPU = "cpu"
	TypeLab = "lab"
)

// DefaultSendBuffer is the per-client queue length used when none is set.
const DefaultSendBuffer = 16

// Message is the envelope of every frame sent to clients.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub tracks connected clients and broadcasts messages to them.
type Hub struct {
	upgrader   websocket.Upgrader
	sendBuffer int

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates a hub. sendBuffer is the per-client queue length.
func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sendBuffer: sendBuffer,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is
// cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			slog.Info("live hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			slog.Debug("live client connected", "client_id", c.id, "remote", c.remote, "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
			h.mu.Unlock()
			slog.Debug("live client disconnected", "client_id", c.id)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.Warn("live client too slow, dropping", "client_id", c.id)
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes c and closes its queue. Callers hold h.mu.
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

// Publish queues a message for every connected client. It does not block:
// when the broadcast queue is full the message is discarded.
func (h *Hub) Publish(msgType string, payload any) error {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msgType, err)
	}

	select {
	case h.broadcast <- data:
	default:
		slog.Warn("live broadcast queue full, message discarded", "type", msgType)
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and attaches the connection to the hub.
// initial messages are sent to the new client before any broadcast.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, initial ...Message) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade websocket: %w", err)
	}

	c := &Client{
		id:     uuid.NewString(),
		remote: r.RemoteAddr,
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.sendBuffer+len(initial)),
	}
	for _, m := range initial {
		data, err := json.Marshal(m)
		if err != nil {
			conn.Close()
			return fmt.Errorf("encode %s message: %w", m.Type, err)
		}
		c.send <- data
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return fmt.Errorf("live hub stopped")
	case <-r.Context().Done():
		conn.Close()
		return r.Context().Err()
	}

	go c.writePump()
	go c.readPump()
	return nil
}
