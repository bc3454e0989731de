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

//go:embed migrations/001_create_users_table_up.sql
var createUsersTableQuery string

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB, logger *slog.Logger) (*UserRepository, error) {
	repo := UserRepository{db: db}
	if _, err := repo.db.Exec(createUsersTableQuery); err != nil {
		logger.Error(err.Error())
		return nil, err
	}
	return &repo, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, role, blocked) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Username, user.Password, user.Role, user.Blocked)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, blocked FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, blocked FROM users WHERE username = $1", username)
	return scanUser(row)
}

func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, password_hash, role, blocked FROM users WHERE id = ANY($1)",
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Password, &user.Role, &user.Blocked); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET role = $1 WHERE id = $2", role, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *UserRepository) BlockUser(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET blocked = TRUE WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Role, &user.Blocked)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
