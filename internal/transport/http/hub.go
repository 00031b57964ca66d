package http

import (
	"encoding/json"
	"log"
	"sync"

	"live-quiz-service/internal/app"
)

const sendBuffer = 32

type client struct {
	id   string
	send chan []byte
}

// Hub tracks connected sockets and fans gateway broadcasts out to them.
// Broadcast never blocks: a client whose queue is full loses its oldest frame,
// which may be a round frame such as questionStats or finish.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	order   []string
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[id] = c
	h.order = append(h.order, id)
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	for i, cid := range h.order {
		if cid == id {
			h.order = append(h.order[:i:i], h.order[i+1:]...)
			break
		}
	}
	close(c.send)
}

// Len reports how many sockets are connected.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast implements app.Broadcaster.
func (h *Hub) Broadcast(msg app.Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal %s: %v", msg.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range h.order {
		enqueue(h.clients[id], data)
	}
}

func enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
		return
	default:
	}
	select {
	case <-c.send:
		log.Printf("ws: client %s is slow, dropped a frame", c.id)
	default:
	}
	select {
	case c.send <- data:
	default:
	}
}
