package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(ttl time.Duration) *TokenIssuer {
	return NewTokenIssuer(TokenIssuerConfig{
		Key:       "test-signing-key-needs-enough-entropy",
		Issuer:    "reporthub",
		Audience:  "reporthub",
		AccessTTL: ttl,
	})
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := newTestIssuer(10 * time.Minute)

	token, err := issuer.IssueAccessToken(7, "alice", []string{"User", "Admin"})
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.UserID())
	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, []string{"User", "Admin"}, claims.Roles)
	assert.Equal(t, "reporthub", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_Validate_Expired(t *testing.T) {
	issuer := newTestIssuer(-time.Minute)

	token, err := issuer.IssueAccessToken(7, "alice", []string{"User"})
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestTokenIssuer_ParseExpired(t *testing.T) {
	t.Run("accepts an expired token", func(t *testing.T) {
		issuer := newTestIssuer(-time.Minute)

		token, err := issuer.IssueAccessToken(7, "alice", []string{"User"})
		require.NoError(t, err)

		claims, err := issuer.ParseExpired(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Login)
		assert.Equal(t, int64(7), claims.UserID())
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other := NewTokenIssuer(TokenIssuerConfig{
			Key:       "a-completely-different-signing-key",
			Issuer:    "reporthub",
			Audience:  "reporthub",
			AccessTTL: time.Minute,
		})
		token, err := other.IssueAccessToken(7, "alice", []string{"User"})
		require.NoError(t, err)

		_, err = newTestIssuer(time.Minute).ParseExpired(token)
		assert.Error(t, err)
	})

	t.Run("rejects a foreign issuer", func(t *testing.T) {
		foreign := NewTokenIssuer(TokenIssuerConfig{
			Key:       "test-signing-key-needs-enough-entropy",
			Issuer:    "someone-else",
			Audience:  "reporthub",
			AccessTTL: time.Minute,
		})
		token, err := foreign.IssueAccessToken(7, "alice", []string{"User"})
		require.NoError(t, err)

		_, err = newTestIssuer(time.Minute).ParseExpired(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := newTestIssuer(time.Minute).ParseExpired("not.a.jwt")
		assert.Error(t, err)
	})
}

func TestTokenIssuer_NewRefreshToken(t *testing.T) {
	issuer := newTestIssuer(time.Minute)

	first, err := issuer.NewRefreshToken()
	require.NoError(t, err)
	second, err := issuer.NewRefreshToken()
	require.NoError(t, err)

	// 32 bytes of entropy, base64-encoded.
	assert.Len(t, first, 44)
	assert.NotEqual(t, first, second)
}
