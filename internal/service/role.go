package service

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/domain"
	"github.com/avetrov/reporthub/internal/repository"
)

// RoleService manages roles and their assignment to users.
type RoleService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewRoleService(store repository.Store, log *slog.Logger) *RoleService {
	return &RoleService{store: store, logger: log}
}

// CreateRole adds a new role with a unique name.
func (s *RoleService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{Name: name}
	if err := s.store.Roles().Create(ctx, role); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).Info("role created",
		slog.Int64("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return role, nil
}

// UpdateRole renames an existing role.
func (s *RoleService) UpdateRole(ctx context.Context, id int64, name string) (*domain.Role, error) {
	role := &domain.Role{ID: id, Name: name}
	if err := s.store.Roles().Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole removes a role; its user links go with it.
func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	return s.store.Roles().Delete(ctx, id)
}

// AssignRole grants the named role to the user identified by login.
func (s *RoleService) AssignRole(ctx context.Context, login, roleName string) error {
	user, err := s.store.Users().GetByLogin(ctx, login)
	if err != nil {
		return err
	}

	role, err := s.store.Roles().GetByName(ctx, roleName)
	if err != nil {
		return err
	}

	if err := s.store.UserRoles().Link(ctx, user.ID, role.ID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return apperrors.RoleAlreadyAssigned(login, roleName)
		}
		return apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).Info("role assigned",
		slog.Int64("user_id", user.ID),
		slog.String("role", roleName),
	)
	return nil
}

// RemoveRole revokes the named role from the user identified by login.
func (s *RoleService) RemoveRole(ctx context.Context, login, roleName string) error {
	user, err := s.store.Users().GetByLogin(ctx, login)
	if err != nil {
		return err
	}

	role, err := s.store.Roles().GetByName(ctx, roleName)
	if err != nil {
		return err
	}

	if err := s.store.UserRoles().Unlink(ctx, user.ID, role.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.RoleNotFound(roleName)
		}
		return apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).Info("role removed",
		slog.Int64("user_id", user.ID),
		slog.String("role", roleName),
	)
	return nil
}

// ReassignRole swaps one of the user's roles for another. The removal of the
// old link and the creation of the new one happen in a single transaction,
// so the user never ends up with both or neither.
func (s *RoleService) ReassignRole(ctx context.Context, login, fromRole, toRole string) error {
	user, err := s.store.Users().GetByLogin(ctx, login)
	if err != nil {
		return err
	}

	from, err := s.store.Roles().GetByName(ctx, fromRole)
	if err != nil {
		return err
	}

	to, err := s.store.Roles().GetByName(ctx, toRole)
	if err != nil {
		return err
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.UserRoles().Unlink(ctx, user.ID, from.ID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.RoleNotFound(fromRole)
			}
			return err
		}
		if err := tx.UserRoles().Link(ctx, user.ID, to.ID); err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				return apperrors.RoleAlreadyAssigned(login, toRole)
			}
			return err
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}

	logger.WithContext(ctx, s.logger).Info("role reassigned",
		slog.Int64("user_id", user.ID),
		slog.String("from", fromRole),
		slog.String("to", toRole),
	)
	return nil
}

// ListUserRoles returns the roles held by the user identified by login.
func (s *RoleService) ListUserRoles(ctx context.Context, login string) ([]domain.Role, error) {
	user, err := s.store.Users().GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	roles, err := s.store.UserRoles().ListRolesForUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return roles, nil
}
