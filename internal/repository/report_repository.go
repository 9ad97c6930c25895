package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barangayhub/portal-api/internal/models"
)

const reportColumns = `id, resident_id, issue_type, location, description, status, admin_comment, created_at, updated_at`

// ReportRepository provides database access for infrastructure reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new infrastructure report.
func (r *ReportRepository) Create(ctx context.Context, report *models.InfrastructureReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO infrastructure_reports (id, resident_id, issue_type, location, description, status, created_at)
		VALUES (:id, :resident_id, :issue_type, :location, :description, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create infrastructure report: %w", err)
	}
	return nil
}

// GetByID returns one infrastructure report.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.InfrastructureReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM infrastructure_reports WHERE id = $1 LIMIT 1`, reportColumns)
	var report models.InfrastructureReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find infrastructure report: %w", err)
	}
	return &report, nil
}

// List returns reports matching the filter with a total count.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.InfrastructureReport, int, error) {
	baseQuery := `FROM infrastructure_reports WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ResidentID != "" {
		conditions = append(conditions, fmt.Sprintf("resident_id = $%d", len(args)+1))
		args = append(args, filter.ResidentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.IssueType != "" {
		conditions = append(conditions, fmt.Sprintf("issue_type = $%d", len(args)+1))
		args = append(args, filter.IssueType)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := normalisePaging(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", reportColumns, baseQuery, pageSize, offset)

	var reports []models.InfrastructureReport
	if err := r.db.SelectContext(ctx, &reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list infrastructure reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count infrastructure reports: %w", err)
	}

	return reports, total, nil
}

// ListAll returns every infrastructure report for dashboard aggregation.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.InfrastructureReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM infrastructure_reports ORDER BY created_at DESC`, reportColumns)
	var reports []models.InfrastructureReport
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("list all infrastructure reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus persists a status transition and returns the stored row.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status, comment string) (*models.InfrastructureReport, error) {
	query := fmt.Sprintf(`UPDATE infrastructure_reports SET status = $2, admin_comment = $3, updated_at = $4 WHERE id = $1 RETURNING %s`, reportColumns)
	var report models.InfrastructureReport
	if err := r.db.GetContext(ctx, &report, query, id, status, comment, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update infrastructure report status: %w", err)
	}
	return &report, nil
}
