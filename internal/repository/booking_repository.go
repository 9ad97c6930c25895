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

const ambulanceColumns = `id, resident_id, patient_name, pickup_address, destination, scheduled_at, purpose, status, admin_comment, created_at, updated_at`

// AmbulanceRepository provides database access for ambulance bookings.
type AmbulanceRepository struct {
	db *sqlx.DB
}

// NewAmbulanceRepository creates a new instance of AmbulanceRepository.
func NewAmbulanceRepository(db *sqlx.DB) *AmbulanceRepository {
	return &AmbulanceRepository{db: db}
}

// Create inserts a new ambulance booking.
func (r *AmbulanceRepository) Create(ctx context.Context, booking *models.AmbulanceBooking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ambulance_bookings (id, resident_id, patient_name, pickup_address, destination, scheduled_at, purpose, status, created_at)
		VALUES (:id, :resident_id, :patient_name, :pickup_address, :destination, :scheduled_at, :purpose, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create ambulance booking: %w", err)
	}
	return nil
}

// GetByID returns one ambulance booking.
func (r *AmbulanceRepository) GetByID(ctx context.Context, id string) (*models.AmbulanceBooking, error) {
	query := fmt.Sprintf(`SELECT %s FROM ambulance_bookings WHERE id = $1 LIMIT 1`, ambulanceColumns)
	var booking models.AmbulanceBooking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find ambulance booking: %w", err)
	}
	return &booking, nil
}

// List returns bookings matching the filter. Start and End apply the date
// window in SQL, so dashboard consumers receive pre-filtered rows.
func (r *AmbulanceRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.AmbulanceBooking, int, error) {
	baseQuery, args := bookingConditions("ambulance_bookings", filter)

	_, pageSize, offset := normalisePaging(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", ambulanceColumns, baseQuery, pageSize, offset)

	var bookings []models.AmbulanceBooking
	if err := r.db.SelectContext(ctx, &bookings, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list ambulance bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count ambulance bookings: %w", err)
	}

	return bookings, total, nil
}

// ListInWindow returns every booking created inside [start, end) with no
// row limit. The dashboard aggregator consumes whole windows; a paged read
// would silently undercount its tallies.
func (r *AmbulanceRepository) ListInWindow(ctx context.Context, start, end time.Time) ([]models.AmbulanceBooking, error) {
	query := fmt.Sprintf("SELECT %s FROM ambulance_bookings WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at DESC", ambulanceColumns)
	var bookings []models.AmbulanceBooking
	if err := r.db.SelectContext(ctx, &bookings, query, start, end); err != nil {
		return nil, fmt.Errorf("list ambulance bookings in window: %w", err)
	}
	return bookings, nil
}

// UpdateStatus persists a status transition and returns the stored row.
func (r *AmbulanceRepository) UpdateStatus(ctx context.Context, id, status, comment string) (*models.AmbulanceBooking, error) {
	query := fmt.Sprintf(`UPDATE ambulance_bookings SET status = $2, admin_comment = $3, updated_at = $4 WHERE id = $1 RETURNING %s`, ambulanceColumns)
	var booking models.AmbulanceBooking
	if err := r.db.GetContext(ctx, &booking, query, id, status, comment, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update ambulance booking status: %w", err)
	}
	return &booking, nil
}

const courtColumns = `id, resident_id, event_name, reserved_date, start_time, end_time, purpose, status, admin_comment, created_at, updated_at`

// CourtRepository provides database access for court reservations.
type CourtRepository struct {
	db *sqlx.DB
}

// NewCourtRepository creates a new instance of CourtRepository.
func NewCourtRepository(db *sqlx.DB) *CourtRepository {
	return &CourtRepository{db: db}
}

// Create inserts a new court reservation.
func (r *CourtRepository) Create(ctx context.Context, reservation *models.CourtReservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO court_reservations (id, resident_id, event_name, reserved_date, start_time, end_time, purpose, status, created_at)
		VALUES (:id, :resident_id, :event_name, :reserved_date, :start_time, :end_time, :purpose, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reservation); err != nil {
		return fmt.Errorf("create court reservation: %w", err)
	}
	return nil
}

// GetByID returns one court reservation.
func (r *CourtRepository) GetByID(ctx context.Context, id string) (*models.CourtReservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM court_reservations WHERE id = $1 LIMIT 1`, courtColumns)
	var reservation models.CourtReservation
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find court reservation: %w", err)
	}
	return &reservation, nil
}

// List returns reservations matching the filter, date-windowed in SQL.
func (r *CourtRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.CourtReservation, int, error) {
	baseQuery, args := bookingConditions("court_reservations", filter)

	_, pageSize, offset := normalisePaging(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", courtColumns, baseQuery, pageSize, offset)

	var reservations []models.CourtReservation
	if err := r.db.SelectContext(ctx, &reservations, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list court reservations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count court reservations: %w", err)
	}

	return reservations, total, nil
}

// ListInWindow returns every reservation created inside [start, end) with
// no row limit, for the dashboard aggregator.
func (r *CourtRepository) ListInWindow(ctx context.Context, start, end time.Time) ([]models.CourtReservation, error) {
	query := fmt.Sprintf("SELECT %s FROM court_reservations WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at DESC", courtColumns)
	var reservations []models.CourtReservation
	if err := r.db.SelectContext(ctx, &reservations, query, start, end); err != nil {
		return nil, fmt.Errorf("list court reservations in window: %w", err)
	}
	return reservations, nil
}

// UpdateStatus persists a status transition and returns the stored row.
func (r *CourtRepository) UpdateStatus(ctx context.Context, id, status, comment string) (*models.CourtReservation, error) {
	query := fmt.Sprintf(`UPDATE court_reservations SET status = $2, admin_comment = $3, updated_at = $4 WHERE id = $1 RETURNING %s`, courtColumns)
	var reservation models.CourtReservation
	if err := r.db.GetContext(ctx, &reservation, query, id, status, comment, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update court reservation status: %w", err)
	}
	return &reservation, nil
}

func bookingConditions(table string, filter models.BookingFilter) (string, []interface{}) {
	baseQuery := fmt.Sprintf(`FROM %s WHERE 1=1`, table)
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
	if filter.Start != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)+1))
		args = append(args, *filter.End)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	return baseQuery, args
}

func normalisePaging(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize, (page - 1) * pageSize
}
