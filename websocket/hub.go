package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"clinic-server/models"
)

// Client represents a connected staff member
type Client struct {
	Hub  *Hub
	ID   uint
	Role models.UserRole
	Conn *websocket.Conn
	Send chan []byte
}

// Event is a schedule change pushed to connected staff.
type Event struct {
	Type           string    `json:"type"` // "created" or "cancelled"
	Resource       string    `json:"resource"`
	BookingID      uint      `json:"booking_id"`
	PractitionerID uint      `json:"practitioner_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Timestamp      time.Time `json:"timestamp"`
}

// Hub manages the schedule feed connections
type Hub struct {
	// Registered clients
	Clients map[uint]*Client

	// Broadcast channel for schedule events
	Broadcast chan *Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new schedule feed hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Broadcast:  make(chan *Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if old, ok := h.Clients[client.ID]; ok {
				close(old.Send)
			}
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Info().Uint("user_id", client.ID).Str("role", string(client.Role)).Msg("schedule feed client connected")

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.ID]; ok && current == client {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Info().Uint("user_id", client.ID).Msg("schedule feed client disconnected")

		case event := <-h.Broadcast:
			h.broadcastEvent(event)
		}
	}
}

// broadcastEvent delivers an event to every client allowed to see it.
// Admins and attendants see the whole schedule; practitioners only
// their own bookings.
func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal schedule event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.Clients {
		if client.Role == models.RolePractitioner && client.ID != event.PractitionerID {
			continue
		}
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, id)
		}
	}
}

// Publish queues an event without blocking the request path.
func (h *Hub) Publish(event *Event) {
	if h == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case h.Broadcast <- event:
	default:
		log.Warn().Uint("booking_id", event.BookingID).Msg("schedule feed buffer full, dropping event")
	}
}
