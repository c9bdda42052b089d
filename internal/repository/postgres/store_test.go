package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetrov/reporthub/internal/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when the callback succeeds", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs(int64(7), int64(1)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		store := NewStore(mock)
		err := store.WithinTx(ctx, func(tx repository.Store) error {
			return tx.UserRoles().Link(ctx, 7, 1)
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the callback fails", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		store := NewStore(mock)
		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(tx repository.Store) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("surfaces begin failure", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		store := NewStore(mock)
		err := store.WithinTx(ctx, func(tx repository.Store) error {
			t.Fatal("callback must not run")
			return nil
		})

		assert.ErrorContains(t, err, "begin transaction")
	})
}
