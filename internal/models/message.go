package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText MessageType = "TEXT"
)

func (t MessageType) Valid() bool {
	return t == MessageTypeText
}

// Message is one chat entry. AuthorID is nil for system messages such as the
// chat-created notice.
type Message struct {
	ID        uuid.UUID   `json:"id"`
	ChatID    uuid.UUID   `json:"chat_id"`
	AuthorID  *uuid.UUID  `json:"user_id"`
	Type      MessageType `json:"message_type"`
	Value     string      `json:"value"`
	CreatedAt time.Time   `json:"datetime"`
	Read      bool        `json:"read"`
}
