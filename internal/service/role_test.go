package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/domain"
)

func TestRoleService_AssignRole(t *testing.T) {
	ctx := context.Background()

	user := &domain.User{ID: 7, Login: "alice"}
	admin := &domain.Role{ID: 2, Name: "Admin"}

	t.Run("links role to user", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(user, nil)
		store.roles.On("GetByName", ctx, "Admin").Return(admin, nil)
		store.userRoles.On("Link", ctx, int64(7), int64(2)).Return(nil)

		svc := NewRoleService(store, testLogger())
		require.NoError(t, svc.AssignRole(ctx, "alice", "Admin"))
		store.assertExpectations(t)
	})

	t.Run("role already held", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(user, nil)
		store.roles.On("GetByName", ctx, "Admin").Return(admin, nil)
		store.userRoles.On("Link", ctx, int64(7), int64(2)).Return(apperrors.ErrAlreadyExists)

		svc := NewRoleService(store, testLogger())
		err := svc.AssignRole(ctx, "alice", "Admin")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeRoleAlreadyAssigned, apperrors.WireCode(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(user, nil)
		store.roles.On("GetByName", ctx, "Ghost").Return(nil, apperrors.RoleNotFound("Ghost"))

		svc := NewRoleService(store, testLogger())
		err := svc.AssignRole(ctx, "alice", "Ghost")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeRoleNotFound, apperrors.WireCode(err))
	})
}

func TestRoleService_ReassignRole(t *testing.T) {
	ctx := context.Background()

	user := &domain.User{ID: 7, Login: "alice"}
	userRole := &domain.Role{ID: 1, Name: "User"}
	moderator := &domain.Role{ID: 3, Name: "Moderator"}

	t.Run("swaps link inside a transaction", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(user, nil)
		store.roles.On("GetByName", ctx, "User").Return(userRole, nil)
		store.roles.On("GetByName", ctx, "Moderator").Return(moderator, nil)
		store.userRoles.On("Unlink", ctx, int64(7), int64(1)).Return(nil)
		store.userRoles.On("Link", ctx, int64(7), int64(3)).Return(nil)

		svc := NewRoleService(store, testLogger())
		require.NoError(t, svc.ReassignRole(ctx, "alice", "User", "Moderator"))
		store.assertExpectations(t)
	})

	t.Run("user does not hold the source role", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(user, nil)
		store.roles.On("GetByName", ctx, "User").Return(userRole, nil)
		store.roles.On("GetByName", ctx, "Moderator").Return(moderator, nil)
		store.userRoles.On("Unlink", ctx, int64(7), int64(1)).Return(apperrors.ErrNotFound)

		svc := NewRoleService(store, testLogger())
		err := svc.ReassignRole(ctx, "alice", "User", "Moderator")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeRoleNotFound, apperrors.WireCode(err))
		store.userRoles.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("target role already held", func(t *testing.T) {
		store := newMockStore()
		store.users.On("GetByLogin", ctx, "alice").Return(user, nil)
		store.roles.On("GetByName", ctx, "User").Return(userRole, nil)
		store.roles.On("GetByName", ctx, "Moderator").Return(moderator, nil)
		store.userRoles.On("Unlink", ctx, int64(7), int64(1)).Return(nil)
		store.userRoles.On("Link", ctx, int64(7), int64(3)).Return(apperrors.ErrAlreadyExists)

		svc := NewRoleService(store, testLogger())
		err := svc.ReassignRole(ctx, "alice", "User", "Moderator")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeRoleAlreadyAssigned, apperrors.WireCode(err))
	})
}

func TestRoleService_CreateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("creates role", func(t *testing.T) {
		store := newMockStore()
		store.roles.On("Create", ctx, mock.AnythingOfType("*domain.Role")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Role).ID = 4
			}).
			Return(nil)

		svc := NewRoleService(store, testLogger())
		role, err := svc.CreateRole(ctx, "Auditor")

		require.NoError(t, err)
		assert.Equal(t, int64(4), role.ID)
		assert.Equal(t, "Auditor", role.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		store := newMockStore()
		store.roles.On("Create", ctx, mock.AnythingOfType("*domain.Role")).
			Return(apperrors.DuplicateRole("Admin"))

		svc := NewRoleService(store, testLogger())
		_, err := svc.CreateRole(ctx, "Admin")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeDuplicateRole, apperrors.WireCode(err))
	})
}
