package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

type IChatRepository interface {
	CreateChat(ctx context.Context, name string, memberIDs []uuid.UUID) (*models.Chat, error)
	GetChatByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error)
	GetChatsByIDs(ctx context.Context, chatIDs []uuid.UUID) ([]models.Chat, error)
	DeleteChat(ctx context.Context, chatID uuid.UUID) error

	GetChatIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetAllChatIDs(ctx context.Context) ([]uuid.UUID, error)
	GetMembershipsByChatIDs(ctx context.Context, chatIDs []uuid.UUID) ([]models.Membership, error)
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

type IMessageRepository interface {
	CreateMessage(ctx context.Context, chatID uuid.UUID, authorID *uuid.UUID, messageType models.MessageType, value string) (*models.Message, error)
	GetMessageByID(ctx context.Context, messageID uuid.UUID) (*models.Message, error)
	GetMessagesByChatID(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)
	UpdateMessage(ctx context.Context, messageID uuid.UUID, messageType models.MessageType, value string) (*models.Message, error)
	MarkMessageRead(ctx context.Context, messageID uuid.UUID) (*models.Message, error)
	DeleteMessage(ctx context.Context, messageID uuid.UUID) (*uuid.UUID, error)

	// GetLatestMessages resolves the single most recent message for every chat
	// in chatIDs in one query. Chats without messages are absent from the result.
	GetLatestMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.Message, error)
}
