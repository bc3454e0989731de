package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

// IMessageService is the hub-facing slice of the message lifecycle: persist an
// inbound socket message and hand back the canonical representation to broadcast.
type IMessageService interface {
	Send(ctx context.Context, chatID uuid.UUID, authorID *uuid.UUID, messageType models.MessageType, value string) (*models.Message, error)
}

type IHasher interface {
	GenerateFromPassword(password []byte, cost int) ([]byte, error)
	CompareHashAndPassword(storedPassword []byte, userPassword []byte) error
	DefaultCost() int
}
