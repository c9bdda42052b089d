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

func TestReportService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates report for user", func(t *testing.T) {
		store := newMockStore()
		store.reports.On("GetByUserAndName", ctx, int64(7), "Q3").Return(nil, apperrors.ErrNotFound)
		store.reports.On("Create", ctx, mock.AnythingOfType("*domain.Report")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Report).ID = 42
			}).
			Return(nil)

		svc := NewReportService(store, nil, testLogger())
		report, err := svc.Create(ctx, 7, "Q3", "quarterly numbers")

		require.NoError(t, err)
		assert.Equal(t, int64(42), report.ID)
		assert.Equal(t, int64(7), report.UserID)
	})

	t.Run("duplicate name for same user", func(t *testing.T) {
		store := newMockStore()
		store.reports.On("GetByUserAndName", ctx, int64(7), "Q3").
			Return(&domain.Report{ID: 41, UserID: 7, Name: "Q3"}, nil)

		svc := NewReportService(store, nil, testLogger())
		_, err := svc.Create(ctx, 7, "Q3", "again")

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeDuplicateReport, apperrors.WireCode(err))
		store.reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReportService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns own report", func(t *testing.T) {
		store := newMockStore()
		store.reports.On("GetByID", ctx, int64(42)).
			Return(&domain.Report{ID: 42, UserID: 7, Name: "Q3"}, nil)

		svc := NewReportService(store, nil, testLogger())
		report, err := svc.Get(ctx, 7, 42)

		require.NoError(t, err)
		assert.Equal(t, int64(42), report.ID)
	})

	t.Run("someone else's report reads as not found", func(t *testing.T) {
		store := newMockStore()
		store.reports.On("GetByID", ctx, int64(42)).
			Return(&domain.Report{ID: 42, UserID: 99, Name: "Q3"}, nil)

		svc := NewReportService(store, nil, testLogger())
		_, err := svc.Get(ctx, 7, 42)

		require.Error(t, err)
		assert.Equal(t, apperrors.CodeReportNotFound, apperrors.WireCode(err))
	})
}

func TestReportService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses to delete another user's report", func(t *testing.T) {
		store := newMockStore()
		store.reports.On("GetByID", ctx, int64(42)).
			Return(&domain.Report{ID: 42, UserID: 99}, nil)

		svc := NewReportService(store, nil, testLogger())
		err := svc.Delete(ctx, 7, 42)

		require.Error(t, err)
		store.reports.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes own report", func(t *testing.T) {
		store := newMockStore()
		store.reports.On("GetByID", ctx, int64(42)).
			Return(&domain.Report{ID: 42, UserID: 7}, nil)
		store.reports.On("Delete", ctx, int64(42)).Return(nil)

		svc := NewReportService(store, nil, testLogger())
		require.NoError(t, svc.Delete(ctx, 7, 42))
		store.assertExpectations(t)
	})
}
