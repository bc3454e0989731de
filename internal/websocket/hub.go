package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/VanillaFroggy/atom-messenger-api/internal/ports"
)

// RoomMessage is a payload addressed to every subscriber of one chat room.
type RoomMessage struct {
	ChatID  uuid.UUID
	Payload []byte
}

// SystemNotice is the structured broadcast for room lifecycle events such as
// a subscriber disconnecting or a chat being deleted.
type SystemNotice struct {
	Type   string    `json:"type"`
	ChatID uuid.UUID `json:"chat_id"`
	UserID uuid.UUID `json:"user_id,omitempty"`
	Value  string    `json:"value"`
}

// Hub is the per-process connection registry: a mutex-guarded map from chat
// room id to the set of live subscriber clients. It is a liveness cache, not
// a source of truth; it starts empty on every process start.
type Hub struct {
	rooms map[uuid.UUID]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	broadcast  chan RoomMessage

	mu       sync.RWMutex
	messages ports.IMessageService
	logger   *slog.Logger

	// ActiveConnections is optional; when set it tracks the subscriber count.
	ActiveConnections prometheus.Gauge
}

func NewHub(messages ports.IMessageService, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan RoomMessage, 16),
		messages:   messages,
		logger:     logger,
	}
}

// Run is the hub's event loop. Call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.join(client)

		case client := <-h.Unregister:
			h.leave(client, true)

		case message := <-h.broadcast:
			h.deliver(message.ChatID, message.Payload)
		}
	}
}

// BroadcastToChat marshals payload and queues it for every current subscriber
// of the chat room. Delivery is best effort.
func (h *Hub) BroadcastToChat(chatID uuid.UUID, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload", "chatID", chatID, "error", err)
		return
	}
	h.broadcast <- RoomMessage{ChatID: chatID, Payload: data}
}

func (h *Hub) join(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ChatID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[client.ChatID] = room
	}
	// Set semantics: a duplicate join by the same client never causes
	// duplicate delivery.
	room[client] = true
	subscribers := len(room)
	h.mu.Unlock()

	if h.ActiveConnections != nil {
		h.ActiveConnections.Inc()
	}
	h.logger.Info("client joined room", "chatID", client.ChatID, "userID", client.UserID, "subscribers", subscribers)
}

// leave removes the client from its room and drops the room entry when it
// becomes empty, so churn never grows the registry. When notify is set the
// remaining subscribers get a structured disconnect notice.
func (h *Hub) leave(client *Client, notify bool) {
	h.mu.Lock()
	room, ok := h.rooms[client.ChatID]
	if !ok || !room[client] {
		h.mu.Unlock()
		return
	}
	delete(room, client)
	remaining := len(room)
	if remaining == 0 {
		delete(h.rooms, client.ChatID)
	}
	client.closed = true
	h.mu.Unlock()

	close(client.Send)
	if h.ActiveConnections != nil {
		h.ActiveConnections.Dec()
	}
	h.logger.Info("client left room", "chatID", client.ChatID, "userID", client.UserID, "subscribers", remaining)

	if notify && remaining > 0 {
		notice := SystemNotice{
			Type:   "system",
			ChatID: client.ChatID,
			UserID: client.UserID,
			Value:  "client disconnected from chat",
		}
		data, err := json.Marshal(notice)
		if err != nil {
			return
		}
		h.deliver(client.ChatID, data)
	}
}

// deliver sends payload to each subscriber independently: a dead or slow
// client is collected and pruned after the pass, never blocking siblings.
func (h *Hub) deliver(chatID uuid.UUID, payload []byte) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.rooms[chatID]))
	for client := range h.rooms[chatID] {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	var failed []*Client
	for _, client := range subscribers {
		if !h.trySend(client, payload) {
			failed = append(failed, client)
		}
	}

	for _, client := range failed {
		h.logger.Warn("dropping unresponsive subscriber", "chatID", chatID, "userID", client.UserID)
		h.leave(client, false)
	}
}

func (h *Hub) trySend(client *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client.closed {
		return false
	}
	select {
	case client.Send <- payload:
		return true
	default:
		return false
	}
}
