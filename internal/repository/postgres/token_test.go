package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/domain"
)

func TestTokenRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(168 * time.Hour)

	mock := newMockPool(t)
	mock.ExpectExec("INSERT INTO user_tokens").
		WithArgs(int64(7), "refresh-1", expires).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewStore(mock).Tokens().Upsert(ctx, &domain.UserToken{
		UserID:       7,
		RefreshToken: "refresh-1",
		ExpiresAt:    expires,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_UpdateRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites only the token string", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("UPDATE user_tokens SET refresh_token").
			WithArgs("refresh-2", int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := NewStore(mock).Tokens().UpdateRefreshToken(ctx, 7, "refresh-2")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("UPDATE user_tokens SET refresh_token").
			WithArgs("refresh-2", int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := NewStore(mock).Tokens().UpdateRefreshToken(ctx, 7, "refresh-2")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestTokenRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record", func(t *testing.T) {
		mock := newMockPool(t)
		expires := time.Now().Add(time.Hour)
		mock.ExpectQuery("SELECT user_id, refresh_token, expires_at").
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "refresh_token", "expires_at"}).
				AddRow(int64(7), "refresh-1", expires))

		token, err := NewStore(mock).Tokens().Get(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, "refresh-1", token.RefreshToken)
		assert.Equal(t, expires, token.ExpiresAt)
	})

	t.Run("missing record", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("SELECT user_id, refresh_token, expires_at").
			WithArgs(int64(7)).
			WillReturnError(pgx.ErrNoRows)

		_, err := NewStore(mock).Tokens().Get(ctx, 7)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
