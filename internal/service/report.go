package service

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/avetrov/reporthub/pkg/errors"
	"github.com/avetrov/reporthub/pkg/logger"

	"github.com/avetrov/reporthub/internal/domain"
	"github.com/avetrov/reporthub/internal/event"
	"github.com/avetrov/reporthub/internal/repository"
)

// ReportService manages per-user reports. Every operation is scoped to the
// calling user: reports belonging to someone else read as not found.
type ReportService struct {
	store     repository.Store
	publisher *event.Publisher
	logger    *slog.Logger
}

func NewReportService(store repository.Store, publisher *event.Publisher, log *slog.Logger) *ReportService {
	return &ReportService{store: store, publisher: publisher, logger: log}
}

// List returns the user's reports, newest first.
func (s *ReportService) List(ctx context.Context, userID int64) ([]domain.Report, error) {
	reports, err := s.store.Reports().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return reports, nil
}

// Get returns a single report owned by the user.
func (s *ReportService) Get(ctx context.Context, userID, reportID int64) (*domain.Report, error) {
	report, err := s.store.Reports().GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, apperrors.ReportNotFound(reportID)
	}
	return report, nil
}

// Create adds a report. Names are unique within a user's reports.
func (s *ReportService) Create(ctx context.Context, userID int64, name, description string) (*domain.Report, error) {
	if _, err := s.store.Reports().GetByUserAndName(ctx, userID, name); err == nil {
		return nil, apperrors.DuplicateReport(name)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	report := &domain.Report{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.store.Reports().Create(ctx, report); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).Info("report created",
		slog.Int64("report_id", report.ID),
		slog.Int64("user_id", userID),
	)
	s.publisher.PublishReportCreated(ctx, report)

	return report, nil
}

// Update replaces the name and description of a report owned by the user.
func (s *ReportService) Update(ctx context.Context, userID, reportID int64, name, description string) (*domain.Report, error) {
	report, err := s.Get(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}

	report.Name = name
	report.Description = description
	if err := s.store.Reports().Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Delete removes a report owned by the user.
func (s *ReportService) Delete(ctx context.Context, userID, reportID int64) error {
	if _, err := s.Get(ctx, userID, reportID); err != nil {
		return err
	}
	return s.store.Reports().Delete(ctx, reportID)
}
