package postgres

import (
	"context"
	"fmt"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/domain"
)

type RoleRepository struct {
	db DB
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (name)
		VALUES ($1)
		RETURNING id`

	if err := r.db.QueryRow(ctx, query, role.Name).Scan(&role.ID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateRole(role.Name)
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.RoleNotFound(fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("select role by id: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx, `SELECT id, name FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.RoleNotFound(name)
		}
		return nil, fmt.Errorf("select role by name: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	tag, err := r.db.Exec(ctx, `UPDATE roles SET name = $1 WHERE id = $2`, role.Name, role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateRole(role.Name)
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.RoleNotFound(fmt.Sprintf("id=%d", role.ID))
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.RoleNotFound(fmt.Sprintf("id=%d", id))
	}
	return nil
}

type UserRoleRepository struct {
	db DB
}

func (r *UserRoleRepository) Link(ctx context.Context, userID, roleID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
		userID, roleID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert user role: %w", err)
	}
	return nil
}

func (r *UserRoleRepository) Unlink(ctx context.Context, userID, roleID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
		userID, roleID)
	if err != nil {
		return fmt.Errorf("delete user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRoleRepository) ListRolesForUser(ctx context.Context, userID int64) ([]domain.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select roles for user: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}
