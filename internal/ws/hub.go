// Package ws pushes live activity events (new follower, new comment,
// upvote) to connected profiles.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the payload pushed to a profile's open connections.
type Event struct {
	Type      string    `json:"type"`
	ActorID   uuid.UUID `json:"actor"`
	PostID    uuid.UUID `json:"post,omitempty"`
	CommentID uuid.UUID `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	EventFollow  = "follow"
	EventComment = "comment"
	EventUpvote  = "upvote"
)

// eventToSend targets an event at a specific profile.
type eventToSend struct {
	TargetProfileID uuid.UUID
	Payload         []byte
}

// Hub maintains the set of active clients keyed by profile id.
type Hub struct {
	// Registered clients. Maps profile ID to a set of active client connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Channel for sending events to specific profiles.
	sendDirect chan *eventToSend

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sendDirect: make(chan *eventToSend),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	slog.Info("websocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.ProfileID]; !ok {
				h.Clients[client.ProfileID] = make(map[*Client]bool)
			}
			h.Clients[client.ProfileID][client] = true
			slog.Debug("websocket client registered", "profile", client.ProfileID,
				"connections", len(h.Clients[client.ProfileID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if profileClients, ok := h.Clients[client.ProfileID]; ok {
				if _, clientOk := profileClients[client]; clientOk {
					delete(profileClients, client)
					if len(profileClients) == 0 {
						delete(h.Clients, client.ProfileID)
					}
					slog.Debug("websocket client unregistered", "profile", client.ProfileID,
						"remaining", len(profileClients))
				}
			}
			h.mu.Unlock()

		case event := <-h.sendDirect:
			h.mu.RLock()
			if profileClients, ok := h.Clients[event.TargetProfileID]; ok {
				for client := range profileClients {
					select {
					case client.Send <- event.Payload:
					default:
						slog.Warn("send buffer full, event dropped", "profile", client.ProfileID)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues an event for every open connection of the target
// profile. Safe on a nil hub so services can run without live
// notifications wired.
func (h *Hub) Publish(targetProfileID uuid.UUID, event Event) {
	if h == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to encode event", "type", event.Type, "error", err)
		return
	}

	message := &eventToSend{
		TargetProfileID: targetProfileID,
		Payload:         payload,
	}
	select {
	case h.sendDirect <- message:
	case <-time.After(1 * time.Second):
		slog.Warn("timeout queuing event, hub busy", "profile", targetProfileID)
	}
}
