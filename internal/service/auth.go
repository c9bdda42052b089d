package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/auth"
	"github.com/avetrov/reporthub/internal/domain"
	"github.com/avetrov/reporthub/internal/event"
	"github.com/avetrov/reporthub/internal/repository"
)

// TokenIssuer signs access tokens and mints refresh tokens.
type TokenIssuer interface {
	IssueAccessToken(userID int64, login string, roles []string) (string, error)
	NewRefreshToken() (string, error)
	ParseExpired(tokenString string) (*auth.AccessClaims, error)
}

// AuthService implements account registration and credential login.
type AuthService struct {
	store       repository.Store
	issuer      TokenIssuer
	publisher   *event.Publisher
	defaultRole string
	refreshTTL  time.Duration
	logger      *slog.Logger

	now func() time.Time
}

func NewAuthService(
	store repository.Store,
	issuer TokenIssuer,
	publisher *event.Publisher,
	defaultRole string,
	refreshTTL time.Duration,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		store:       store,
		issuer:      issuer,
		publisher:   publisher,
		defaultRole: defaultRole,
		refreshTTL:  refreshTTL,
		logger:      log,
		now:         time.Now,
	}
}

// Register creates a user account with the default role. The account row and
// its role link are written in one transaction.
func (s *AuthService) Register(ctx context.Context, login, password, passwordConfirm string) (*domain.User, error) {
	if password != passwordConfirm {
		return nil, apperrors.PasswordMismatch()
	}

	// Fast path; the unique constraint on login is the real guarantee and is
	// still mapped below when concurrent registrations race.
	if _, err := s.store.Users().GetByLogin(ctx, login); err == nil {
		return nil, apperrors.DuplicateUser(login)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	user := &domain.User{
		Login:        login,
		PasswordHash: auth.HashPassword(password),
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		role, err := tx.Roles().GetByName(ctx, s.defaultRole)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.Internal(fmt.Errorf("default role %q is not provisioned", s.defaultRole))
			}
			return err
		}

		return tx.UserRoles().Link(ctx, user.ID, role.ID)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("login", user.Login),
	)
	s.publisher.PublishUserRegistered(ctx, user, s.defaultRole)

	return user, nil
}

// Login verifies the credentials and establishes a token session: a fresh
// access/refresh pair, with the refresh token stored against the user.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.TokenPair, error) {
	user, err := s.store.Users().GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.InvalidCredentials()
	}

	roles, err := s.store.UserRoles().ListRolesForUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Login, roleNames(roles))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refreshToken, err := s.issuer.NewRefreshToken()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	token := &domain.UserToken{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    s.now().Add(s.refreshTTL),
	}
	if err := s.store.Tokens().Upsert(ctx, token); err != nil {
		return nil, apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("login", user.Login),
	)

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}
