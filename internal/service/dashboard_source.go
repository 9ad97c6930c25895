package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/barangayhub/portal-api/internal/aggregate"
	"github.com/barangayhub/portal-api/internal/models"
)

// DashboardSource produces one snapshot of every collection the aggregator
// consumes. Implementations report which collections they could not load so
// the dashboard can degrade per collection instead of failing whole.
type DashboardSource interface {
	Collect(ctx context.Context, days int, now time.Time) (aggregate.Inputs, []string)
}

type dashboardAmbulanceRepository interface {
	ListInWindow(ctx context.Context, start, end time.Time) ([]models.AmbulanceBooking, error)
}

type dashboardCourtRepository interface {
	ListInWindow(ctx context.Context, start, end time.Time) ([]models.CourtReservation, error)
}

type dashboardDocumentRepository interface {
	ListAll(ctx context.Context) ([]models.DocumentRequest, error)
}

type dashboardReportRepository interface {
	ListAll(ctx context.Context) ([]models.InfrastructureReport, error)
}

type dashboardProposalRepository interface {
	ListAll(ctx context.Context) ([]models.ProjectProposal, error)
}

type dashboardResidentRepository interface {
	ListAll(ctx context.Context) ([]models.Resident, error)
}

// RepositorySource loads dashboard inputs straight from Postgres. Ambulance
// and court rows are windowed in SQL; the other collections are fetched whole
// and windowed by the aggregator.
type RepositorySource struct {
	ambulance dashboardAmbulanceRepository
	court     dashboardCourtRepository
	documents dashboardDocumentRepository
	reports   dashboardReportRepository
	proposals dashboardProposalRepository
	residents dashboardResidentRepository
	logger    *zap.Logger
}

// RepositorySourceParams bundles RepositorySource dependencies.
type RepositorySourceParams struct {
	Ambulance dashboardAmbulanceRepository
	Court     dashboardCourtRepository
	Documents dashboardDocumentRepository
	Reports   dashboardReportRepository
	Proposals dashboardProposalRepository
	Residents dashboardResidentRepository
	Logger    *zap.Logger
}

// NewRepositorySource constructs a repository-backed dashboard source.
func NewRepositorySource(p RepositorySourceParams) *RepositorySource {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &RepositorySource{
		ambulance: p.Ambulance,
		court:     p.Court,
		documents: p.Documents,
		reports:   p.Reports,
		proposals: p.Proposals,
		residents: p.Residents,
		logger:    p.Logger,
	}
}

// Collect fans out over all six collections concurrently. A collection that
// fails to load contributes an empty slice and its name in the degraded list.
func (s *RepositorySource) Collect(ctx context.Context, days int, now time.Time) (aggregate.Inputs, []string) {
	window := aggregate.NewWindow(days, now)
	var in aggregate.Inputs
	var degraded []string

	record := make(chan string, 6)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bookings, err := s.ambulance.ListInWindow(gctx, window.Start, window.End)
		if err != nil {
			s.logger.Warn("dashboard ambulance load failed", zap.Error(err))
			record <- string(models.ServiceAmbulance)
			return nil
		}
		in.Ambulance = make([]aggregate.Record, 0, len(bookings))
		for _, b := range bookings {
			in.Ambulance = append(in.Ambulance, aggregate.Record{Status: b.Status, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt})
		}
		return nil
	})

	g.Go(func() error {
		reservations, err := s.court.ListInWindow(gctx, window.Start, window.End)
		if err != nil {
			s.logger.Warn("dashboard court load failed", zap.Error(err))
			record <- string(models.ServiceCourt)
			return nil
		}
		in.Court = make([]aggregate.Record, 0, len(reservations))
		for _, r := range reservations {
			in.Court = append(in.Court, aggregate.Record{Status: r.Status, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
		}
		return nil
	})

	g.Go(func() error {
		requests, err := s.documents.ListAll(gctx)
		if err != nil {
			s.logger.Warn("dashboard documents load failed", zap.Error(err))
			record <- string(models.ServiceDocument)
			return nil
		}
		in.Documents = make([]aggregate.Record, 0, len(requests))
		for _, r := range requests {
			in.Documents = append(in.Documents, aggregate.Record{Status: r.Status, Category: string(r.DocumentType), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
		}
		return nil
	})

	g.Go(func() error {
		reports, err := s.reports.ListAll(gctx)
		if err != nil {
			s.logger.Warn("dashboard reports load failed", zap.Error(err))
			record <- string(models.ServiceReport)
			return nil
		}
		in.Reports = make([]aggregate.Record, 0, len(reports))
		for _, r := range reports {
			in.Reports = append(in.Reports, aggregate.Record{Status: r.Status, Category: r.IssueType, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
		}
		return nil
	})

	g.Go(func() error {
		proposals, err := s.proposals.ListAll(gctx)
		if err != nil {
			s.logger.Warn("dashboard proposals load failed", zap.Error(err))
			record <- string(models.ServiceProposal)
			return nil
		}
		in.Proposals = make([]aggregate.Record, 0, len(proposals))
		for _, p := range proposals {
			in.Proposals = append(in.Proposals, aggregate.Record{Status: p.Status, Category: p.Category, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt})
		}
		return nil
	})

	g.Go(func() error {
		residents, err := s.residents.ListAll(gctx)
		if err != nil {
			s.logger.Warn("dashboard residents load failed", zap.Error(err))
			record <- "residents"
			return nil
		}
		in.Residents = make([]aggregate.ResidentRecord, 0, len(residents))
		for _, r := range residents {
			in.Residents = append(in.Residents, aggregate.ResidentRecord{
				IsVerified: r.IsVerified,
				IsVoter:    r.IsVoter,
				Types:      r.Types,
				CreatedAt:  r.CreatedAt,
			})
		}
		return nil
	})

	_ = g.Wait()
	close(record)
	for name := range record {
		degraded = append(degraded, name)
	}

	return in, degraded
}

// LegacyFeedSource pulls collections from the legacy REST service during
// cutover. Its payloads are untrusted and flow through the normalizer.
type LegacyFeedSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewLegacyFeedSource constructs a feed-backed dashboard source.
func NewLegacyFeedSource(baseURL string, timeout time.Duration, logger *zap.Logger) *LegacyFeedSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LegacyFeedSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// legacyPaths maps each collection to its legacy endpoint.
var legacyPaths = map[models.ServiceKind]string{
	models.ServiceAmbulance: "/ambulance-bookings",
	models.ServiceCourt:     "/court-reservations",
	models.ServiceDocument:  "/document-requests",
	models.ServiceReport:    "/infrastructure-reports",
	models.ServiceProposal:  "/project-proposals",
}

// Collect fetches every legacy collection concurrently. Ambulance and court
// are requested with the date window; the legacy service filters those
// server-side and its result is trusted as pre-filtered.
func (s *LegacyFeedSource) Collect(ctx context.Context, days int, now time.Time) (aggregate.Inputs, []string) {
	window := aggregate.NewWindow(days, now)
	var in aggregate.Inputs
	var degraded []string

	record := make(chan string, 6)
	g, gctx := errgroup.WithContext(ctx)

	for kind, path := range legacyPaths {
		kind, path := kind, path
		windowed := kind == models.ServiceAmbulance || kind == models.ServiceCourt
		g.Go(func() error {
			raw, err := s.fetch(gctx, path, window, windowed)
			if err != nil {
				s.logger.Warn("legacy feed fetch failed", zap.String("collection", string(kind)), zap.Error(err))
				record <- string(kind)
				return nil
			}
			result := aggregate.NormalizeList(raw)
			if result.Malformed {
				s.logger.Warn("legacy feed payload malformed", zap.String("collection", string(kind)))
				record <- string(kind)
				return nil
			}
			switch kind {
			case models.ServiceAmbulance:
				in.Ambulance = result.Records
			case models.ServiceCourt:
				in.Court = result.Records
			case models.ServiceDocument:
				in.Documents = result.Records
			case models.ServiceReport:
				in.Reports = result.Records
			case models.ServiceProposal:
				in.Proposals = result.Records
			}
			return nil
		})
	}

	g.Go(func() error {
		raw, err := s.fetch(gctx, "/residents", window, false)
		if err != nil {
			s.logger.Warn("legacy feed fetch failed", zap.String("collection", "residents"), zap.Error(err))
			record <- "residents"
			return nil
		}
		residents, ok := aggregate.NormalizeResidents(raw)
		if !ok {
			s.logger.Warn("legacy feed payload malformed", zap.String("collection", "residents"))
			record <- "residents"
			return nil
		}
		in.Residents = residents
		return nil
	})

	_ = g.Wait()
	close(record)
	for name := range record {
		degraded = append(degraded, name)
	}

	return in, degraded
}

func (s *LegacyFeedSource) fetch(ctx context.Context, path string, window aggregate.Window, windowed bool) (json.RawMessage, error) {
	endpoint := s.baseURL + path
	if windowed {
		query := url.Values{}
		query.Set("start", window.Start.Format(time.RFC3339))
		query.Set("end", window.End.Format(time.RFC3339))
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build legacy request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call legacy feed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("legacy feed returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read legacy response: %w", err)
	}
	return body, nil
}
