package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/barangayhub/portal-api/internal/models"
)

const residentColumns = `id, user_id, first_name, last_name, address, is_verified, is_voter, types, created_at, updated_at`

// ResidentRepository provides database access for resident profiles.
type ResidentRepository struct {
	db *sqlx.DB
}

// NewResidentRepository creates a new instance of ResidentRepository.
func NewResidentRepository(db *sqlx.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

// Create inserts a new resident profile.
func (r *ResidentRepository) Create(ctx context.Context, resident *models.Resident) error {
	if resident.ID == "" {
		resident.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if resident.CreatedAt.IsZero() {
		resident.CreatedAt = now
	}
	resident.UpdatedAt = now
	const query = `INSERT INTO residents (id, user_id, first_name, last_name, address, is_verified, is_voter, types, created_at, updated_at)
		VALUES (:id, :user_id, :first_name, :last_name, :address, :is_verified, :is_voter, :types, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resident); err != nil {
		return fmt.Errorf("create resident: %w", err)
	}
	return nil
}

// GetByID returns one resident profile.
func (r *ResidentRepository) GetByID(ctx context.Context, id string) (*models.Resident, error) {
	query := fmt.Sprintf(`SELECT %s FROM residents WHERE id = $1 LIMIT 1`, residentColumns)
	var resident models.Resident
	if err := r.db.GetContext(ctx, &resident, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find resident: %w", err)
	}
	return &resident, nil
}

// GetByUserID returns the resident profile linked to a portal account.
func (r *ResidentRepository) GetByUserID(ctx context.Context, userID string) (*models.Resident, error) {
	query := fmt.Sprintf(`SELECT %s FROM residents WHERE user_id = $1 LIMIT 1`, residentColumns)
	var resident models.Resident
	if err := r.db.GetContext(ctx, &resident, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find resident by user: %w", err)
	}
	return &resident, nil
}

// List returns residents matching the filter with a total count.
func (r *ResidentRepository) List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error) {
	baseQuery := `FROM residents WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("is_verified = $%d", len(args)+1))
		args = append(args, *filter.Verified)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := normalisePaging(filter.Page, filter.PageSize)
	if filter.Limit > 0 {
		pageSize = filter.Limit
		offset = 0
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", residentColumns, baseQuery, pageSize, offset)

	var residents []models.Resident
	if err := r.db.SelectContext(ctx, &residents, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list residents: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count residents: %w", err)
	}

	return residents, total, nil
}

// ListAll returns every resident for dashboard aggregation.
func (r *ResidentRepository) ListAll(ctx context.Context) ([]models.Resident, error) {
	query := fmt.Sprintf(`SELECT %s FROM residents ORDER BY created_at DESC`, residentColumns)
	var residents []models.Resident
	if err := r.db.SelectContext(ctx, &residents, query); err != nil {
		return nil, fmt.Errorf("list all residents: %w", err)
	}
	return residents, nil
}

// SetVerification updates verification and voter flags plus category tags.
func (r *ResidentRepository) SetVerification(ctx context.Context, id string, verified, voter bool, types []string) (*models.Resident, error) {
	query := fmt.Sprintf(`UPDATE residents SET is_verified = $2, is_voter = $3, types = $4, updated_at = $5 WHERE id = $1 RETURNING %s`, residentColumns)
	var resident models.Resident
	if err := r.db.GetContext(ctx, &resident, query, id, verified, voter, pq.StringArray(types), time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update resident verification: %w", err)
	}
	return &resident, nil
}
