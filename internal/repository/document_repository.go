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

const documentColumns = `id, service_id, resident_id, document_type, form_data, purpose, status, admin_comment, created_at, updated_at`

// DocumentRepository provides database access for document requests.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document request.
func (r *DocumentRepository) Create(ctx context.Context, req *models.DocumentRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO document_requests (id, service_id, resident_id, document_type, form_data, purpose, status, created_at)
		VALUES (:id, :service_id, :resident_id, :document_type, :form_data, :purpose, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create document request: %w", err)
	}
	return nil
}

// GetByID returns one document request.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.DocumentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM document_requests WHERE id = $1 LIMIT 1`, documentColumns)
	var req models.DocumentRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document request: %w", err)
	}
	return &req, nil
}

// List returns document requests matching the filter with a total count.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentRequest, int, error) {
	baseQuery := `FROM document_requests WHERE 1=1`
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
	if filter.DocumentType != "" {
		conditions = append(conditions, fmt.Sprintf("document_type = $%d", len(args)+1))
		args = append(args, filter.DocumentType)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(service_id) LIKE $%d OR LOWER(purpose) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", documentColumns, baseQuery, pageSize, offset)

	var requests []models.DocumentRequest
	if err := r.db.SelectContext(ctx, &requests, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list document requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count document requests: %w", err)
	}

	return requests, total, nil
}

// ListAll returns every document request. The dashboard filters the date
// window in memory for this collection.
func (r *DocumentRepository) ListAll(ctx context.Context) ([]models.DocumentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM document_requests ORDER BY created_at DESC`, documentColumns)
	var requests []models.DocumentRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list all document requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus persists a status transition and returns the stored row so
// callers always render what the database holds.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id, status, comment string) (*models.DocumentRequest, error) {
	query := fmt.Sprintf(`UPDATE document_requests SET status = $2, admin_comment = $3, updated_at = $4 WHERE id = $1 RETURNING %s`, documentColumns)
	var req models.DocumentRequest
	if err := r.db.GetContext(ctx, &req, query, id, status, comment, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update document request status: %w", err)
	}
	return &req, nil
}

// CountForYear counts requests created in the given year, feeding the
// sequential part of generated tracking codes.
func (r *DocumentRepository) CountForYear(ctx context.Context, year int) (int, error) {
	const query = `SELECT COUNT(*) FROM document_requests WHERE EXTRACT(YEAR FROM created_at) = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, year); err != nil {
		return 0, fmt.Errorf("count document requests for year: %w", err)
	}
	return total, nil
}
