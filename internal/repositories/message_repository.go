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

//go:embed migrations/004_create_messages_table_up.sql
var createMessagesTableQuery string

const messageColumns = "id, chat_id, user_id, message_type, value, created_at, read"

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB, logger *slog.Logger) (*MessageRepository, error) {
	repo := MessageRepository{db: db}
	if _, err := repo.db.Exec(createMessagesTableQuery); err != nil {
		logger.Error(err.Error())
		return nil, err
	}
	return &repo, nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, chatID uuid.UUID, authorID *uuid.UUID, messageType models.MessageType, value string) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, chat_id, user_id, message_type, value)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+messageColumns,
		uuid.New(), chatID, authorID, messageType, value)
	return scanMessageRow(row)
}

func (r *MessageRepository) GetMessageByID(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = $1", messageID)
	return scanMessageRow(row)
}

func (r *MessageRepository) GetMessagesByChatID(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE chat_id = $1 ORDER BY created_at ASC, id ASC",
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) UpdateMessage(ctx context.Context, messageID uuid.UUID, messageType models.MessageType, value string) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE messages SET message_type = $1, value = $2 WHERE id = $3
		 RETURNING `+messageColumns,
		messageType, value, messageID)
	return scanMessageRow(row)
}

func (r *MessageRepository) MarkMessageRead(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE messages SET read = TRUE WHERE id = $1
		 RETURNING `+messageColumns,
		messageID)
	return scanMessageRow(row)
}

func (r *MessageRepository) DeleteMessage(ctx context.Context, messageID uuid.UUID) (*uuid.UUID, error) {
	var chatID uuid.UUID
	err := r.db.QueryRowContext(ctx,
		"DELETE FROM messages WHERE id = $1 RETURNING chat_id", messageID).
		Scan(&chatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &chatID, nil
}

// GetLatestMessages runs the windowed top-1-per-chat query: row_number over
// each chat partition ordered by created_at descending with id ascending as
// the deterministic tiebreak for equal timestamps.
func (r *MessageRepository) GetLatestMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.Message, error) {
	if len(chatIDs) == 0 {
		return map[uuid.UUID]models.Message{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, user_id, message_type, value, created_at, read FROM (
			SELECT `+messageColumns+`,
				ROW_NUMBER() OVER (PARTITION BY chat_id ORDER BY created_at DESC, id ASC) AS row_num
			FROM messages
			WHERE chat_id = ANY($1)
		 ) ranked WHERE row_num = 1`,
		pq.Array(chatIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[uuid.UUID]models.Message, len(chatIDs))
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		latest[message.ChatID] = *message
	}
	return latest, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var message models.Message
	var authorID uuid.NullUUID
	err := row.Scan(&message.ID, &message.ChatID, &authorID,
		&message.Type, &message.Value, &message.CreatedAt, &message.Read)
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		message.AuthorID = &authorID.UUID
	}
	return &message, nil
}

func scanMessageRow(row *sql.Row) (*models.Message, error) {
	message, err := scanMessage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return message, nil
}
