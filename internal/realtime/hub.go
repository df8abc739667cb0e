package realtime

import (
	"encoding/json"
	"sync"

	"github.com/verifact-app/backend/internal/pkg/logger"
)

// Event is the payload pushed to a connected client.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

type message struct {
	userID  string
	payload []byte
}

// Hub routes notification events to the websocket connections of a user.
// A user may hold several connections (tabs, devices); each one joins the
// user's room by announcing its user id after connecting.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	join    chan *Client
	leave   chan *Client
	publish chan message
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		join:    make(chan *Client),
		leave:   make(chan *Client),
		publish: make(chan message, 256),
	}
}

// Run processes joins, leaves and published events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.join:
			h.mu.Lock()
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.leave:
			h.mu.Lock()
			if room, ok := h.rooms[client.userID]; ok {
				if room[client] {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.publish:
			h.mu.RLock()
			for client := range h.rooms[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer: drop the event, delivery is best-effort.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish pushes an event to every connection of the given user.
// Fire-and-forget: no acknowledgment, no retry.
func (h *Hub) Publish(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("realtime: marshal event: %v", err)
		return
	}

	select {
	case h.publish <- message{userID: userID, payload: payload}:
	default:
		logger.Warn("realtime: publish buffer full, dropping event for user %s", userID)
	}
}

// ConnectedUsers returns the number of users with at least one connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
