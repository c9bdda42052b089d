package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshTokenBytes is the entropy of a refresh token before encoding.
const refreshTokenBytes = 32

// AccessClaims are the claims carried by an access token: the login under
// the standard name claim plus every role the user held at issue time.
type AccessClaims struct {
	Login string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id stored in the subject claim, or 0 when
// the claim is absent or malformed.
func (c *AccessClaims) UserID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// TokenIssuerConfig holds the signing key and token parameters. Loaded once
// at startup and treated as immutable.
type TokenIssuerConfig struct {
	Key       string
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

// TokenIssuer signs access tokens and generates opaque refresh tokens using
// a symmetric HMAC-SHA256 key.
type TokenIssuer struct {
	key       []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

// NewTokenIssuer creates a token issuer from the given configuration.
func NewTokenIssuer(cfg TokenIssuerConfig) *TokenIssuer {
	return &TokenIssuer{
		key:       []byte(cfg.Key),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		accessTTL: cfg.AccessTTL,
	}
}

// IssueAccessToken signs an access token for the given user. The user id
// goes into the subject claim, the login into the name claim.
func (t *TokenIssuer) IssueAccessToken(userID int64, login string, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := &AccessClaims{
		Login: login,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// NewRefreshToken returns 32 bytes of CSPRNG output, base64-encoded. The
// token has no internal structure; it is matched byte-for-byte against the
// stored UserToken record.
func (t *TokenIssuer) NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ParseExpired validates the token's signature, signing algorithm, issuer,
// and audience while deliberately skipping the expiry check. This is how a
// refresh request proves it once held a valid access token that has since
// expired.
func (t *TokenIssuer) ParseExpired(tokenString string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &AccessClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	// WithoutClaimsValidation skips issuer/audience too, so check them here.
	if claims.Issuer != t.issuer {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if !containsAudience(claims.Audience, t.audience) {
		return nil, errors.New("audience mismatch")
	}

	return claims, nil
}

// Validate parses and fully validates a live access token, including its
// expiry.
func (t *TokenIssuer) Validate(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
