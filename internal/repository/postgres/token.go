package postgres

import (
	"context"
	"fmt"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/domain"
)

type TokenRepository struct {
	db DB
}

func (r *TokenRepository) Get(ctx context.Context, userID int64) (*domain.UserToken, error) {
	query := `
		SELECT user_id, refresh_token, expires_at
		FROM user_tokens
		WHERE user_id = $1`

	var token domain.UserToken
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&token.UserID, &token.RefreshToken, &token.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("select user token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepository) Upsert(ctx context.Context, token *domain.UserToken) error {
	query := `
		INSERT INTO user_tokens (user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET refresh_token = EXCLUDED.refresh_token, expires_at = EXCLUDED.expires_at`

	if _, err := r.db.Exec(ctx, query, token.UserID, token.RefreshToken, token.ExpiresAt); err != nil {
		return fmt.Errorf("upsert user token: %w", err)
	}
	return nil
}

func (r *TokenRepository) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_tokens SET refresh_token = $1 WHERE user_id = $2`,
		refreshToken, userID)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
