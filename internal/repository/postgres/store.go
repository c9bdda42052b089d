package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avetrov/reporthub/internal/repository"
)

// DB is the subset of pgxpool.Pool used by the repositories. pgx.Tx and the
// pgxmock pool satisfy it too, so the same repository code runs against the
// pool, inside a transaction, and under test.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store implements repository.Store over a pgx connection pool.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository         { return &UserRepository{db: s.db} }
func (s *Store) Roles() repository.RoleRepository         { return &RoleRepository{db: s.db} }
func (s *Store) UserRoles() repository.UserRoleRepository { return &UserRoleRepository{db: s.db} }
func (s *Store) Tokens() repository.TokenRepository       { return &TokenRepository{db: s.db} }
func (s *Store) Reports() repository.ReportRepository     { return &ReportRepository{db: s.db} }

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
