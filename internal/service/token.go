package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/domain"
	"github.com/avetrov/reporthub/internal/repository"
)

// TokenService rotates token sessions.
type TokenService struct {
	store  repository.Store
	issuer TokenIssuer
	logger *slog.Logger

	now func() time.Time
}

func NewTokenService(store repository.Store, issuer TokenIssuer, log *slog.Logger) *TokenService {
	return &TokenService{
		store:  store,
		issuer: issuer,
		logger: log,
		now:    time.Now,
	}
}

// Refresh exchanges an expired access token plus the matching stored refresh
// token for a new pair. The refresh token is rotated in place: its stored
// expiry is never extended, so the session still ends when the original
// refresh window does.
func (s *TokenService) Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.issuer.ParseExpired(accessToken)
	if err != nil {
		return nil, apperrors.InvalidToken(err)
	}

	user, err := s.store.Users().GetByLogin(ctx, claims.Login)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Tokens().Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.StaleRefreshToken()
		}
		return nil, apperrors.Internal(err)
	}

	if stored.RefreshToken != refreshToken || !s.now().Before(stored.ExpiresAt) {
		return nil, apperrors.StaleRefreshToken()
	}

	roles, err := s.store.UserRoles().ListRolesForUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	newAccess, err := s.issuer.IssueAccessToken(user.ID, user.Login, roleNames(roles))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	newRefresh, err := s.issuer.NewRefreshToken()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.store.Tokens().UpdateRefreshToken(ctx, user.ID, newRefresh); err != nil {
		return nil, apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).Info("token session rotated",
		slog.Int64("user_id", user.ID),
	)

	return &domain.TokenPair{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	}, nil
}
