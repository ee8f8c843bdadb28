package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"service-connect-server/types"
)

// Message is the envelope pushed to clients
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Registry tracks the live notification connections of each actor. An actor
// may hold any number of connections, one per open tab or device. Delivery is
// fire-and-forget: a connection whose buffer is full is dropped rather than
// waited on.
type Registry struct {
	mu         sync.RWMutex
	clients    map[types.Actor]map[*Client]struct{}
	sendBuffer int
	closed     bool
}

// NewRegistry creates an empty registry whose connections buffer up to
// sendBuffer outbound messages.
func NewRegistry(sendBuffer int) *Registry {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Registry{
		clients:    make(map[types.Actor]map[*Client]struct{}),
		sendBuffer: sendBuffer,
	}
}

// Register adds a client. It returns false once the registry is closed.
func (r *Registry) Register(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	set, ok := r.clients[c.Actor]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[c.Actor] = set
	}
	set[c] = struct{}{}
	log.Printf("🔌 %s connected (%s), %d open", c.Actor, c.ID, len(set))
	return true
}

// Unregister removes a client and closes its send channel. Calling it more
// than once is harmless.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(c)
}

func (r *Registry) removeLocked(c *Client) {
	set, ok := r.clients[c.Actor]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.clients, c.Actor)
	}
	close(c.send)
	log.Printf("🔌 %s disconnected (%s)", c.Actor, c.ID)
}

// Notify sends an event to every connection of the recipient. It never
// blocks; connections that cannot keep up are disconnected.
func (r *Registry) Notify(recipient types.Actor, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		return
	}

	var stale []*Client
	r.mu.RLock()
	for c := range r.clients[recipient] {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range stale {
		log.Printf("⚠️ Dropping %s connection %s: send buffer full", c.Actor, c.ID)
		r.Unregister(c)
	}
}

// reply sends an event to a single registered client
func (r *Registry) reply(c *Client, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		return
	}
	full := false
	r.mu.RLock()
	if _, ok := r.clients[c.Actor][c]; ok {
		select {
		case c.send <- payload:
		default:
			full = true
		}
	}
	r.mu.RUnlock()
	if full {
		r.Unregister(c)
	}
}

func encode(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(Message{Type: event, Data: data, Timestamp: time.Now()})
	if err != nil {
		log.Printf("❌ Could not encode %s: %v", event, err)
	}
	return payload, err
}

// Connections returns how many live connections the actor has
func (r *Registry) Connections(actor types.Actor) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[actor])
}

// Close disconnects every client and refuses new ones
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, set := range r.clients {
		for c := range set {
			r.removeLocked(c)
		}
	}
	log.Println("🔌 Notification registry closed")
}
