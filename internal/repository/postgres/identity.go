package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/taskboard/internal/apperror"
	"github.com/sakif/taskboard/internal/model"
	"github.com/sakif/taskboard/internal/repository"
)

var _ repository.IdentityRepository = (*IdentityStore)(nil)

// IdentityStore reads the primary-identity store. It never writes.
type IdentityStore struct {
	db DBTX
}

func NewIdentityStore(db DBTX) *IdentityStore {
	return &IdentityStore{db: db}
}

// LookupIdentity returns apperror.ErrNotFound when users_login has no row for id.
func (s *IdentityStore) LookupIdentity(ctx context.Context, id int64) (*model.Identity, error) {
	ident := model.Identity{ID: id}

	err := s.db.QueryRow(ctx,
		`SELECT username FROM users_login WHERE id = $1`, id,
	).Scan(&ident.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("identity", id)
		}
		return nil, fmt.Errorf("postgres: looking up identity %d: %w", id, err)
	}

	return &ident, nil
}
