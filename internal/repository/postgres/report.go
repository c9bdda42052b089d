package postgres

import (
	"context"
	"fmt"

	apperrors "github.com/avetrov/reporthub/pkg/errors"

	"github.com/avetrov/reporthub/internal/domain"
)

type ReportRepository struct {
	db DB
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, report.UserID, report.Name, report.Description).
		Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateReport(report.Name)
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM reports
		WHERE id = $1`

	var report domain.Report
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID, &report.UserID, &report.Name,
		&report.Description, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ReportNotFound(id)
		}
		return nil, fmt.Errorf("select report by id: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) GetByUserAndName(ctx context.Context, userID int64, name string) (*domain.Report, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM reports
		WHERE user_id = $1 AND name = $2`

	var report domain.Report
	err := r.db.QueryRow(ctx, query, userID, name).Scan(
		&report.ID, &report.UserID, &report.Name,
		&report.Description, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("select report by name: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Report, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select reports for user: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var report domain.Report
		err := rows.Scan(
			&report.ID, &report.UserID, &report.Name,
			&report.Description, &report.CreatedAt, &report.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) Update(ctx context.Context, report *domain.Report) error {
	query := `
		UPDATE reports
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, report.Name, report.Description, report.ID).
		Scan(&report.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperrors.ReportNotFound(report.ID)
		}
		if isUniqueViolation(err) {
			return apperrors.DuplicateReport(report.Name)
		}
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ReportNotFound(id)
	}
	return nil
}
