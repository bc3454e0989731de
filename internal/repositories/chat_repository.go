package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	_ "embed"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

//go:embed migrations/002_create_chats_table_up.sql
var createChatsTableQuery string

//go:embed migrations/003_create_chat_members_table_up.sql
var createChatMembersQuery string

type ChatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB, logger *slog.Logger) (*ChatRepository, error) {
	repo := ChatRepository{db: db}
	if _, err := repo.db.Exec(createChatsTableQuery); err != nil {
		logger.Error(err.Error())
		return nil, err
	}
	if _, err := repo.db.Exec(createChatMembersQuery); err != nil {
		logger.Error(err.Error())
		return nil, err
	}
	return &repo, nil
}

func (r *ChatRepository) CreateChat(ctx context.Context, name string, memberIDs []uuid.UUID) (*models.Chat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	chat := models.Chat{ID: uuid.New(), Name: name}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO chats (id, chat_name) VALUES ($1, $2)", chat.ID, chat.Name); err != nil {
		return nil, err
	}

	for _, memberID := range memberIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)",
			chat.ID, memberID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) GetChatByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.QueryRowContext(ctx,
		"SELECT id, chat_name FROM chats WHERE id = $1", chatID).
		Scan(&chat.ID, &chat.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) GetChatsByIDs(ctx context.Context, chatIDs []uuid.UUID) ([]models.Chat, error) {
	if len(chatIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, chat_name FROM chats WHERE id = ANY($1)", pq.Array(chatIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.Name); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE chat_id = $1", chatID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chat_members WHERE chat_id = $1", chatID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chats WHERE id = $1", chatID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ChatRepository) GetChatIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT chat_id FROM chat_members WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUUIDs(rows)
}

func (r *ChatRepository) GetAllChatIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM chats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUUIDs(rows)
}

func (r *ChatRepository) GetMembershipsByChatIDs(ctx context.Context, chatIDs []uuid.UUID) ([]models.Membership, error) {
	if len(chatIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT chat_id, user_id FROM chat_members WHERE chat_id = ANY($1)", pq.Array(chatIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var membership models.Membership
		if err := rows.Scan(&membership.ChatID, &membership.UserID); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, rows.Err()
}

func (r *ChatRepository) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM chat_members WHERE chat_id = $1 AND user_id = $2)",
		chatID, userID).Scan(&exists)
	return exists, err
}

func scanUUIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
