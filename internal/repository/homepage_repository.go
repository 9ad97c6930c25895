package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/barangayhub/portal-api/internal/models"
)

// homepageRowID pins the CMS content to a single row.
const homepageRowID = "homepage"

// HomepageRepository provides database access for the landing page content.
type HomepageRepository struct {
	db *sqlx.DB
}

// NewHomepageRepository creates a new instance of HomepageRepository.
func NewHomepageRepository(db *sqlx.DB) *HomepageRepository {
	return &HomepageRepository{db: db}
}

// Get returns the CMS content singleton.
func (r *HomepageRepository) Get(ctx context.Context) (*models.HomepageContent, error) {
	const query = `SELECT id, welcome_message, about, officials, contact_email, contact_phone, updated_by, updated_at FROM homepage_content WHERE id = $1 LIMIT 1`
	var content models.HomepageContent
	if err := r.db.GetContext(ctx, &content, query, homepageRowID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("load homepage content: %w", err)
	}
	return &content, nil
}

// Upsert writes the CMS content singleton.
func (r *HomepageRepository) Upsert(ctx context.Context, content *models.HomepageContent) error {
	content.ID = homepageRowID
	content.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO homepage_content (id, welcome_message, about, officials, contact_email, contact_phone, updated_by, updated_at)
		VALUES (:id, :welcome_message, :about, :officials, :contact_email, :contact_phone, :updated_by, :updated_at)
		ON CONFLICT (id) DO UPDATE SET welcome_message = EXCLUDED.welcome_message, about = EXCLUDED.about, officials = EXCLUDED.officials,
			contact_email = EXCLUDED.contact_email, contact_phone = EXCLUDED.contact_phone, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, content); err != nil {
		return fmt.Errorf("upsert homepage content: %w", err)
	}
	return nil
}
