package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/taskboard/internal/apperror"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var lookupIdentitySQL = regexp.QuoteMeta(`SELECT username FROM users_login WHERE id = $1`)

func TestLookupIdentity(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(lookupIdentitySQL).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"username"}).AddRow("ada"))

	ident, err := NewIdentityStore(mock).LookupIdentity(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), ident.ID)
	assert.Equal(t, "ada", ident.Username)
}

func TestLookupIdentity_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(lookupIdentitySQL).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewIdentityStore(mock).LookupIdentity(context.Background(), 404)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLookupIdentity_StoreError(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(lookupIdentitySQL).
		WithArgs(int64(7)).
		WillReturnError(boom)

	_, err := NewIdentityStore(mock).LookupIdentity(context.Background(), 7)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}
