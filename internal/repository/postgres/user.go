package postgres

import (
	"context"
	"fmt"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/domain"
)

type UserRepository struct {
	db DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (login, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, user.Login, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateUser(user.Login)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT id, login, password_hash, created_at
		FROM users
		WHERE login = $1`

	var user domain.User
	err := r.db.QueryRow(ctx, query, login).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.UserNotFound(login)
		}
		return nil, fmt.Errorf("select user by login: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, login, password_hash, created_at
		FROM users
		WHERE id = $1`

	var user domain.User
	err := r.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.UserNotFound(fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.UserNotFound(fmt.Sprintf("id=%d", id))
	}
	return nil
}
