package repository

import (
	"context"

	"github.com/avetrov/reporthub/internal/domain"
)

// Store exposes typed repositories over a single database handle. WithinTx
// yields a Store whose repositories share one transaction: the callback's
// mutations either all commit or all roll back.
type Store interface {
	Users() UserRepository
	Roles() RoleRepository
	UserRoles() UserRoleRepository
	Tokens() TokenRepository
	Reports() ReportRepository

	// WithinTx runs fn against a transaction-scoped Store. Any error from fn
	// (or the commit) rolls the transaction back and is returned.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a user and fills in its generated ID and timestamp.
	Create(ctx context.Context, user *domain.User) error

	// GetByLogin retrieves a user by unique login.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Delete removes a user; dependent links and tokens go with it.
	Delete(ctx context.Context, id int64) error
}

// RoleRepository persists roles.
type RoleRepository interface {
	// Create inserts a role and fills in its generated ID.
	Create(ctx context.Context, role *domain.Role) error

	// GetByID retrieves a role by id.
	GetByID(ctx context.Context, id int64) (*domain.Role, error)

	// GetByName retrieves a role by unique name.
	GetByName(ctx context.Context, name string) (*domain.Role, error)

	// Update renames an existing role.
	Update(ctx context.Context, role *domain.Role) error

	// Delete removes a role.
	Delete(ctx context.Context, id int64) error
}

// UserRoleRepository persists the user/role link records.
type UserRoleRepository interface {
	// Link creates the (user, role) pair.
	Link(ctx context.Context, userID, roleID int64) error

	// Unlink removes the (user, role) pair.
	Unlink(ctx context.Context, userID, roleID int64) error

	// ListRolesForUser returns every role the user holds.
	ListRolesForUser(ctx context.Context, userID int64) ([]domain.Role, error)
}

// TokenRepository persists the one-per-user refresh token record.
type TokenRepository interface {
	// Get retrieves the user's token record.
	Get(ctx context.Context, userID int64) (*domain.UserToken, error)

	// Upsert creates the record or overwrites both the refresh token and its
	// expiry in place. Idempotent under retry with the same values.
	Upsert(ctx context.Context, token *domain.UserToken) error

	// UpdateRefreshToken overwrites only the refresh token string, leaving
	// the stored expiry untouched.
	UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error
}

// ReportRepository persists reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	GetByUserAndName(ctx context.Context, userID int64, name string) (*domain.Report, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id int64) error
}
