package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"railporter-server/models"
)

// Client represents a connected WebSocket subscriber.
// ActorKey is "porter:<id>" for porters and "phone:<number>" for
// passengers; BookingID optionally narrows the feed to one booking.
type Client struct {
	Hub       *Hub
	ActorKey  string
	BookingID uint
	Conn      wsConn
	Send      chan []byte
}

// Hub fans booking lifecycle events out to live subscribers. Clients
// that are not connected simply keep polling; the hub is an accelerator,
// not the source of truth.
type Hub struct {
	// Registered clients keyed by actor
	Clients map[string]map[*Client]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	events chan *envelope

	mu sync.RWMutex
}

// StatusEvent is the wire message pushed on every booking transition
type StatusEvent struct {
	Type      string               `json:"type"`
	BookingID uint                 `json:"booking_id"`
	Reference string               `json:"reference_code"`
	Status    models.BookingStatus `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
}

// envelope pairs an event with the actor keys it should reach
type envelope struct {
	event   *StatusEvent
	targets []string
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan *envelope, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Clients[client.ActorKey] == nil {
				h.Clients[client.ActorKey] = make(map[*Client]bool)
			}
			h.Clients[client.ActorKey][client] = true
			h.mu.Unlock()
			log.Printf("🔌 Subscriber registered: %s (booking %d)", client.ActorKey, client.BookingID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if set, ok := h.Clients[client.ActorKey]; ok {
				if set[client] {
					delete(set, client)
					close(client.Send)
				}
				if len(set) == 0 {
					delete(h.Clients, client.ActorKey)
				}
			}
			h.mu.Unlock()
			log.Printf("🔌 Subscriber unregistered: %s", client.ActorKey)

		case env := <-h.events:
			h.deliver(env)
		}
	}
}

// PublishBookingStatus pushes a transition to the booking's passenger and
// assigned porter. Never blocks the caller: if the hub is saturated the
// event is dropped and subscribers pick the change up on their next poll.
func (h *Hub) PublishBookingStatus(booking *models.Booking) {
	env := &envelope{
		event: &StatusEvent{
			Type:      "booking_status",
			BookingID: booking.ID,
			Reference: booking.ReferenceCode,
			Status:    booking.Status,
			Timestamp: time.Now(),
		},
		targets: actorKeys(booking),
	}
	select {
	case h.events <- env:
	default:
		log.Printf("⚠️ Hub event buffer full, dropping update for booking %d", booking.ID)
	}
}

func actorKeys(booking *models.Booking) []string {
	keys := []string{PassengerKey(booking.Phone)}
	if booking.PorterID != nil {
		keys = append(keys, PorterKey(*booking.PorterID))
	}
	return keys
}

// PorterKey builds the subscriber key for a porter
func PorterKey(porterID uint) string {
	return fmt.Sprintf("porter:%d", porterID)
}

// PassengerKey builds the subscriber key for a passenger phone
func PassengerKey(phone string) string {
	return "phone:" + phone
}

func (h *Hub) deliver(env *envelope) {
	data, err := json.Marshal(env.event)
	if err != nil {
		log.Printf("❌ Error marshaling status event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, key := range env.targets {
		set, ok := h.Clients[key]
		if !ok {
			continue
		}
		for client := range set {
			if client.BookingID != 0 && client.BookingID != env.event.BookingID {
				continue
			}
			select {
			case client.Send <- data:
			default:
				// Slow reader, drop it. The client reconnects or polls.
				delete(set, client)
				close(client.Send)
			}
		}
	}
}
