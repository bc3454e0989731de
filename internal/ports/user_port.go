package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

type IUserRepository interface {
	IUserRepositoryReader
	IUserRepositoryWriter
}

type IUserRepositoryReader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

type IUserRepositoryWriter interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) (bool, error)
	BlockUser(ctx context.Context, id uuid.UUID) (bool, error)
}
