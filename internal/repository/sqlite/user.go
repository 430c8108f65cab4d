package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

// compile-time checks that *DB implements the identity and user contracts
var (
	_ repository.IdentityRepository = (*DB)(nil)
	_ repository.UserRepository     = (*DB)(nil)
)

// LookupIdentity reads the canonical username for id from users_login.
// Returns apperror.ErrNotFound if no identity exists.
func (db *DB) LookupIdentity(ctx context.Context, id int64) (*model.Identity, error) {
	ident := model.Identity{ID: id}

	err := db.conn.QueryRowContext(ctx,
		`SELECT username FROM users_login WHERE id = ?`, id,
	).Scan(&ident.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("identity", id)
		}
		return nil, fmt.Errorf("sqlite: looking up identity %d: %w", id, err)
	}

	return &ident, nil
}

// GetUser retrieves an application user by user_id.
// Returns apperror.ErrNotFound if the user has never checked in.
func (db *DB) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, username FROM users WHERE user_id = ?`, userID,
	).Scan(&u.UserID, &u.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", userID, err)
	}

	return &u, nil
}

// CreateUser inserts a user row. ON CONFLICT DO NOTHING turns a duplicate
// into zero affected rows, reported as created == false.
func (db *DB) CreateUser(ctx context.Context, user *model.User) (bool, error) {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (user_id, username) VALUES (?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		user.UserID,
		user.Username,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: inserting user %d: %w", user.UserID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
