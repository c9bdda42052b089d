package domain

import "time"

// User is a registered account. Every user holds at least one role; the
// registration workflow guarantees the default role link is created in the
// same transaction as the user row.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role is a named permission group. Users and roles are many-to-many via
// UserRole links.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRole is the link record expressing that a user holds a role. A given
// (user, role) pair exists at most once.
type UserRole struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}

// UserToken is the single per-user refresh token record. It is created on
// first login and overwritten in place on every later login or refresh.
type UserToken struct {
	UserID       int64     `json:"user_id"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenPair is the transient access/refresh pair returned to clients. Only
// the refresh token is persisted, via UserToken.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
