package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

var (
	_ repository.UserRepository = (*AppStore)(nil)
	_ repository.TaskRepository = (*AppStore)(nil)
)

// AppStore reads and writes the application store's users and tasks tables.
type AppStore struct {
	db DBTX
}

func NewAppStore(db DBTX) *AppStore {
	return &AppStore{db: db}
}

// schema mirrors the tables the hosted database is expected to have.
// users.user_id is the primary key so a duplicate first check-in fails with
// a unique violation instead of adding a second row.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id  BIGINT PRIMARY KEY,
		username TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		task_id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		user_id          BIGINT NOT NULL,
		task_title       TEXT NOT NULL,
		task_description TEXT,
		status           TEXT NOT NULL DEFAULT 'pending'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
}

// EnsureSchema creates the application tables if they are missing.
func (s *AppStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

// GetUser returns apperror.ErrNotFound when the user has never checked in.
func (s *AppStore) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User

	err := s.db.QueryRow(ctx,
		`SELECT user_id, username FROM users WHERE user_id = $1`, userID,
	).Scan(&u.UserID, &u.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, fmt.Errorf("postgres: getting user %d: %w", userID, err)
	}

	return &u, nil
}

// CreateUser inserts a user row. A unique violation on user_id means another
// request created it first; that is reported as created == false.
func (s *AppStore) CreateUser(ctx context.Context, user *model.User) (bool, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (user_id, username) VALUES ($1, $2)`,
		user.UserID,
		user.Username,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("postgres: inserting user %d: %w", user.UserID, err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
