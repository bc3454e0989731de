package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

var Upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one subscriber connection joined to a single chat room.
type Client struct {
	Hub    *Hub
	Conn   *gorilla.Conn
	Send   chan []byte
	UserID uuid.UUID
	ChatID uuid.UUID

	closed bool
}

type inboundMessage struct {
	Type  models.MessageType `json:"message_type"`
	Value string             `json:"value"`
}

// ReadPump consumes inbound frames, persists them through the message service
// and re-broadcasts the canonical message to the room. It unregisters the
// client on any read failure, which covers client disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseAbnormalClosure) {
				c.Hub.logger.Error("websocket read failed", "userID", c.UserID, "error", err)
			}
			break
		}

		inbound := inboundMessage{Type: models.MessageTypeText}
		if err := json.Unmarshal(data, &inbound); err != nil {
			// Plain text frames are accepted as TEXT message bodies.
			inbound = inboundMessage{Type: models.MessageTypeText, Value: string(data)}
		}

		message, err := c.Hub.messages.Send(context.Background(), c.ChatID, &c.UserID, inbound.Type, inbound.Value)
		if err != nil {
			c.Hub.logger.Warn("inbound message rejected",
				"userID", c.UserID, "chatID", c.ChatID, "error", err)

			errorData, _ := json.Marshal(map[string]any{
				"type":    "error",
				"chat_id": c.ChatID,
				"error":   err.Error(),
			})
			c.trySendSelf(errorData)
			continue
		}

		c.Hub.BroadcastToChat(c.ChatID, message)
	}
}

// trySendSelf goes through the hub's guarded send path: the hub may have
// pruned this client concurrently and closed its Send channel.
func (c *Client) trySendSelf(data []byte) {
	c.Hub.trySend(c, data)
}

// WritePump drains the send channel into the connection. It exits when the
// hub closes the channel on leave.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		w, err := c.Conn.NextWriter(gorilla.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}

	c.Conn.WriteMessage(gorilla.CloseMessage, []byte{})
}
