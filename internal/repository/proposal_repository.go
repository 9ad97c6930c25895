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

const proposalColumns = `id, resident_id, title, category, description, status, admin_comment, created_at, updated_at`

// ProposalRepository provides database access for project proposals.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository creates a new instance of ProposalRepository.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create inserts a new project proposal.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.ProjectProposal) error {
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	if proposal.CreatedAt.IsZero() {
		proposal.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO project_proposals (id, resident_id, title, category, description, status, created_at)
		VALUES (:id, :resident_id, :title, :category, :description, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, proposal); err != nil {
		return fmt.Errorf("create project proposal: %w", err)
	}
	return nil
}

// GetByID returns one project proposal.
func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*models.ProjectProposal, error) {
	query := fmt.Sprintf(`SELECT %s FROM project_proposals WHERE id = $1 LIMIT 1`, proposalColumns)
	var proposal models.ProjectProposal
	if err := r.db.GetContext(ctx, &proposal, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find project proposal: %w", err)
	}
	return &proposal, nil
}

// List returns proposals matching the filter with a total count.
func (r *ProposalRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.ProjectProposal, int, error) {
	baseQuery := `FROM project_proposals WHERE 1=1`
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

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := normalisePaging(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", proposalColumns, baseQuery, pageSize, offset)

	var proposals []models.ProjectProposal
	if err := r.db.SelectContext(ctx, &proposals, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list project proposals: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count project proposals: %w", err)
	}

	return proposals, total, nil
}

// ListAll returns every project proposal for dashboard aggregation.
func (r *ProposalRepository) ListAll(ctx context.Context) ([]models.ProjectProposal, error) {
	query := fmt.Sprintf(`SELECT %s FROM project_proposals ORDER BY created_at DESC`, proposalColumns)
	var proposals []models.ProjectProposal
	if err := r.db.SelectContext(ctx, &proposals, query); err != nil {
		return nil, fmt.Errorf("list all project proposals: %w", err)
	}
	return proposals, nil
}

// UpdateStatus persists a status transition and returns the stored row.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id, status, comment string) (*models.ProjectProposal, error) {
	query := fmt.Sprintf(`UPDATE project_proposals SET status = $2, admin_comment = $3, updated_at = $4 WHERE id = $1 RETURNING %s`, proposalColumns)
	var proposal models.ProjectProposal
	if err := r.db.GetContext(ctx, &proposal, query, id, status, comment, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update project proposal status: %w", err)
	}
	return &proposal, nil
}
