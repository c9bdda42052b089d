package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/auth"
	"github.com/avetrov/reporthub/internal/domain"
)

func claimsFor(login string) *auth.AccessClaims {
	return &auth.AccessClaims{
		Login: login,
		Roles: []string{"User"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "7",
		},
	}
}

func TestTokenService_Refresh(t *testing.T) {
	ctx := context.Background()

	storedUser := &domain.User{ID: 7, Login: "alice"}

	t.Run("rotates refresh token without extending expiry", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(storedUser, nil)
		store.tokens.On("Get", ctx, int64(7)).Return(&domain.UserToken{
			UserID:       7,
			RefreshToken: "refresh-old",
			ExpiresAt:    time.Now().Add(time.Hour),
		}, nil)
		store.userRoles.On("ListRolesForUser", ctx, int64(7)).
			Return([]domain.Role{{ID: 1, Name: "User"}}, nil)
		// Only the token string is rewritten; expires_at is not part of the
		// update, so the session still ends when originally scheduled.
		store.tokens.On("UpdateRefreshToken", ctx, int64(7), "refresh-new").Return(nil)

		issuer := &stubIssuer{
			accessToken:  "new.jwt",
			refreshToken: "refresh-new",
			claims:       claimsFor("alice"),
		}
		svc := NewTokenService(store, issuer, testLogger())

		pair, err := svc.Refresh(ctx, "old.jwt", "refresh-old")

		require.NoError(t, err)
		assert.Equal(t, "new.jwt", pair.AccessToken)
		assert.Equal(t, "refresh-new", pair.RefreshToken)
		store.assertExpectations(t)
	})

	t.Run("bad access token", func(t *testing.T) {
		store := newMockStore()
		issuer := &stubIssuer{parseErr: errors.New("signature is invalid")}
		svc := NewTokenService(store, issuer, testLogger())

		_, err := svc.Refresh(ctx, "garbage", "refresh-old")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidToken, apperrors.WireCode(err))
		store.users.AssertNotCalled(t, "GetByLogin", mock.Anything, mock.Anything)
	})

	t.Run("user from claims no longer exists", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "ghost").Return(nil, apperrors.UserNotFound("ghost"))

		issuer := &stubIssuer{claims: claimsFor("ghost")}
		svc := NewTokenService(store, issuer, testLogger())

		_, err := svc.Refresh(ctx, "old.jwt", "refresh-old")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeUserNotFound, apperrors.WireCode(err))
	})

	t.Run("refresh token does not match stored one", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(storedUser, nil)
		store.tokens.On("Get", ctx, int64(7)).Return(&domain.UserToken{
			UserID:       7,
			RefreshToken: "refresh-current",
			ExpiresAt:    time.Now().Add(time.Hour),
		}, nil)

		issuer := &stubIssuer{claims: claimsFor("alice")}
		svc := NewTokenService(store, issuer, testLogger())

		_, err := svc.Refresh(ctx, "old.jwt", "refresh-stolen")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeStaleRefreshToken, apperrors.WireCode(err))
		store.tokens.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stored refresh token expired", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(storedUser, nil)
		store.tokens.On("Get", ctx, int64(7)).Return(&domain.UserToken{
			UserID:       7,
			RefreshToken: "refresh-old",
			ExpiresAt:    time.Now().Add(-time.Minute),
		}, nil)

		issuer := &stubIssuer{claims: claimsFor("alice")}
		svc := NewTokenService(store, issuer, testLogger())

		_, err := svc.Refresh(ctx, "old.jwt", "refresh-old")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeStaleRefreshToken, apperrors.WireCode(err))
	})

	t.Run("no token record for user", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(storedUser, nil)
		store.tokens.On("Get", ctx, int64(7)).Return(nil, apperrors.ErrNotFound)

		issuer := &stubIssuer{claims: claimsFor("alice")}
		svc := NewTokenService(store, issuer, testLogger())

		_, err := svc.Refresh(ctx, "old.jwt", "refresh-old")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeStaleRefreshToken, apperrors.WireCode(err))
	})
}
