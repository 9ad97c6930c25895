package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type ambulanceRepository interface {
	Create(ctx context.Context, booking *models.AmbulanceBooking) error
	GetByID(ctx context.Context, id string) (*models.AmbulanceBooking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.AmbulanceBooking, int, error)
	UpdateStatus(ctx context.Context, id, status, comment string) (*models.AmbulanceBooking, error)
}

type courtRepository interface {
	Create(ctx context.Context, reservation *models.CourtReservation) error
	GetByID(ctx context.Context, id string) (*models.CourtReservation, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.CourtReservation, int, error)
	UpdateStatus(ctx context.Context, id, status, comment string) (*models.CourtReservation, error)
}

type residentReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Resident, error)
}

// bookingDeps carries the collaborators both booking services share.
type bookingDeps struct {
	residents residentReader
	dashboard dashboardInvalidator
	activity  ActivityRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// BookingServiceParams bundles shared booking service dependencies.
type BookingServiceParams struct {
	Residents residentReader
	Dashboard dashboardInvalidator
	Activity  ActivityRecorder
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

func newBookingDeps(p BookingServiceParams) bookingDeps {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	return bookingDeps{
		residents: p.Residents,
		dashboard: p.Dashboard,
		activity:  p.Activity,
		metrics:   p.Metrics,
		validator: p.Validator,
		logger:    p.Logger,
	}
}

func (d bookingDeps) residentFor(ctx context.Context, claims *models.JWTClaims) (*models.Resident, error) {
	resident, err := d.residents.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resident profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resident profile")
	}
	return resident, nil
}

func (d bookingDeps) afterWrite(ctx context.Context, entry models.ActivityLog) {
	if d.activity != nil {
		d.activity.Record(entry)
	}
	if d.dashboard != nil {
		d.dashboard.Invalidate(ctx)
	}
}

func (d bookingDeps) checkTransition(kind models.ServiceKind, from string, update models.StatusUpdate) error {
	if err := d.validator.Struct(update); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !models.KnownStatus(kind, update.Status) {
		return appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("status %q not recognised for %s", update.Status, kind))
	}
	if !models.CanTransition(kind, from, update.Status) {
		return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move %s from %q to %q", kind, from, update.Status))
	}
	return nil
}

func bookingPagination(filter models.BookingFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}

// AmbulanceService handles ambulance booking submission and review.
type AmbulanceService struct {
	repo ambulanceRepository
	deps bookingDeps
}

// NewAmbulanceService constructs an AmbulanceService.
func NewAmbulanceService(repo ambulanceRepository, p BookingServiceParams) *AmbulanceService {
	return &AmbulanceService{repo: repo, deps: newBookingDeps(p)}
}

// Submit books an ambulance transport for the acting resident.
func (s *AmbulanceService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitAmbulanceRequest) (*models.AmbulanceBooking, error) {
	if err := s.deps.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ambulance payload")
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduled_at must be RFC 3339")
	}

	resident, err := s.deps.residentFor(ctx, claims)
	if err != nil {
		return nil, err
	}

	booking := &models.AmbulanceBooking{
		ResidentID:    resident.ID,
		PatientName:   req.PatientName,
		PickupAddress: req.PickupAddress,
		Destination:   req.Destination,
		ScheduledAt:   scheduledAt,
		Purpose:       req.Purpose,
		Status:        models.StatusPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create ambulance booking")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceAmbulance),
		EntityID:   &booking.ID,
		Action:     models.ActivityActionSubmit,
		Details:    fmt.Sprintf("ambulance booked for %s", booking.PatientName),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordSubmission(string(models.ServiceAmbulance))
	}

	return booking, nil
}

// List returns bookings; residents see only their own.
func (s *AmbulanceService) List(ctx context.Context, claims *models.JWTClaims, filter models.BookingFilter) ([]models.AmbulanceBooking, *models.Pagination, error) {
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, nil, err
		}
		filter.ResidentID = resident.ID
	}
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ambulance bookings")
	}
	return bookings, bookingPagination(filter, total), nil
}

// Get returns one booking, enforcing resident ownership.
func (s *AmbulanceService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.AmbulanceBooking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ambulance booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ambulance booking")
	}
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, err
		}
		if resident.ID != booking.ResidentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "booking belongs to another resident")
		}
	}
	return booking, nil
}

// UpdateStatus applies an admin status transition and returns the stored row.
func (s *AmbulanceService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.AmbulanceBooking, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ambulance booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ambulance booking")
	}
	if err := s.deps.checkTransition(models.ServiceAmbulance, current.Status, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update.Status, update.AdminComment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update ambulance booking")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceAmbulance),
		EntityID:   &updated.ID,
		Action:     models.ActivityActionStatusChange,
		Details:    fmt.Sprintf("ambulance booking moved from %s to %s", current.Status, updated.Status),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordTransition(string(models.ServiceAmbulance), updated.Status)
	}

	return updated, nil
}

// CourtService handles covered-court reservation submission and review.
type CourtService struct {
	repo courtRepository
	deps bookingDeps
}

// NewCourtService constructs a CourtService.
func NewCourtService(repo courtRepository, p BookingServiceParams) *CourtService {
	return &CourtService{repo: repo, deps: newBookingDeps(p)}
}

// Submit reserves the covered court for the acting resident.
func (s *CourtService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitCourtRequest) (*models.CourtReservation, error) {
	if err := s.deps.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid court payload")
	}
	reservedDate, err := time.Parse("2006-01-02", req.ReservedDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reserved_date must be YYYY-MM-DD")
	}

	resident, err := s.deps.residentFor(ctx, claims)
	if err != nil {
		return nil, err
	}

	reservation := &models.CourtReservation{
		ResidentID:   resident.ID,
		EventName:    req.EventName,
		ReservedDate: reservedDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Purpose:      req.Purpose,
		Status:       models.StatusPending,
	}
	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create court reservation")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceCourt),
		EntityID:   &reservation.ID,
		Action:     models.ActivityActionSubmit,
		Details:    fmt.Sprintf("court reserved for %s on %s", reservation.EventName, req.ReservedDate),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordSubmission(string(models.ServiceCourt))
	}

	return reservation, nil
}

// List returns reservations; residents see only their own.
func (s *CourtService) List(ctx context.Context, claims *models.JWTClaims, filter models.BookingFilter) ([]models.CourtReservation, *models.Pagination, error) {
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, nil, err
		}
		filter.ResidentID = resident.ID
	}
	reservations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list court reservations")
	}
	return reservations, bookingPagination(filter, total), nil
}

// Get returns one reservation, enforcing resident ownership.
func (s *CourtService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.CourtReservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "court reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load court reservation")
	}
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, err
		}
		if resident.ID != reservation.ResidentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "reservation belongs to another resident")
		}
	}
	return reservation, nil
}

// UpdateStatus applies an admin status transition and returns the stored row.
func (s *CourtService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.CourtReservation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "court reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load court reservation")
	}
	if err := s.deps.checkTransition(models.ServiceCourt, current.Status, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update.Status, update.AdminComment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update court reservation")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceCourt),
		EntityID:   &updated.ID,
		Action:     models.ActivityActionStatusChange,
		Details:    fmt.Sprintf("court reservation moved from %s to %s", current.Status, updated.Status),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordTransition(string(models.ServiceCourt), updated.Status)
	}

	return updated, nil
}
