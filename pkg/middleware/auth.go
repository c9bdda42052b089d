package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avetrov/reporthub/pkg/logger"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	loginKey  contextKeyType = "login"
	rolesKey  contextKeyType = "roles"
)

// Claims are the identity facts the auth middleware extracts from a bearer
// token and injects into the request context.
type Claims struct {
	UserID int64
	Login  string
	Roles  []string
}

// TokenValidator validates an access token and returns its claims. The
// concrete JWT logic is injected so this package stays transport-only.
type TokenValidator func(token string) (*Claims, error)

// Auth validates the Authorization bearer token and stores the resulting
// claims in the request context.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := validate(parts[1])
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, loginKey, claims.Login)
			ctx = context.WithValue(ctx, rolesKey, claims.Roles)
			ctx = logger.WithLogin(ctx, claims.Login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated user holds none of the
// given roles. Must be mounted after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, held := range RolesFromContext(r.Context()) {
				if _, ok := allowed[held]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// UserIDFromContext extracts the authenticated user's id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// LoginFromContext extracts the authenticated login, or "".
func LoginFromContext(ctx context.Context) string {
	if login, ok := ctx.Value(loginKey).(string); ok {
		return login
	}
	return ""
}

// RolesFromContext extracts the authenticated user's roles, or nil.
func RolesFromContext(ctx context.Context) []string {
	if roles, ok := ctx.Value(rolesKey).([]string); ok {
		return roles
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":         nil,
		"errorMessage": message,
		"errorCode":    10,
	})
}
