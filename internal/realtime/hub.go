// Package realtime streams seeding progress to websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/seeder"
)

type Client struct {
	ID     string
	UserID string
	Conn   *WebSocketConn
	Send   chan []byte
}

// Message is the envelope every broadcast uses.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	MessageProgress = "progress"
	MessageSummary  = "summary"
)

// Hub fans messages out to connected clients. It also serves as a seeder.Reporter.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

var _ seeder.Reporter = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// RegisterClient adds client to the hub. Once the hub has stopped the client's Send
// channel is closed right away.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastJSON queues v for every client. When the queue is full the message is dropped
// so a slow hub never stalls a seeding run.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[realtime] marshal broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- b:
	default:
		log.Printf("[realtime] broadcast queue full, dropping message")
	}
}

func (h *Hub) Progress(ev seeder.ProgressEvent) {
	h.BroadcastJSON(Message{Type: MessageProgress, Data: ev})
}

func (h *Hub) Summary(res *seeder.Result) {
	h.BroadcastJSON(Message{Type: MessageSummary, Data: res})
}

// Run dispatches registrations and broadcasts until ctx is done, then disconnects
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("[realtime] client registered: %s (user %s)", client.ID, client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
				log.Printf("[realtime] client unregistered: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			// slow clients are dropped instead of blocking the others
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}
