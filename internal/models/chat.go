package models

import (
	"github.com/google/uuid"
)

type Chat struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"chat_name"`
}

// Membership authorizes a user to participate in a chat. The pair is unique.
type Membership struct {
	ChatID uuid.UUID `json:"chat_id"`
	UserID uuid.UUID `json:"user_id"`
}

// ChatSummary is the derived listing aggregate: a chat, its resolved members
// and its single most recent message. It is never persisted.
type ChatSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"chat_name"`
	Users       []User    `json:"users"`
	LastMessage Message   `json:"last_message"`
}
