package service

import (
	"context"
	"fmt"
	"time"

	"github.com/barangayhub/portal-api/internal/models"
	"github.com/barangayhub/portal-api/pkg/export"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

// exportPageSize caps one export pull. Collections larger than this export
// the newest rows only.
const exportPageSize = 5000

// ExportServiceParams bundles the repositories the export service reads.
type ExportServiceParams struct {
	Documents documentRepository
	Ambulance ambulanceRepository
	Court     courtRepository
	Reports   reportRepository
	Proposals proposalRepository
}

// ExportService renders admin CSV extracts of the service collections.
type ExportService struct {
	repos    ExportServiceParams
	exporter *export.CSVExporter
}

// NewExportService constructs an ExportService.
func NewExportService(p ExportServiceParams) *ExportService {
	return &ExportService{repos: p, exporter: export.NewCSVExporter()}
}

// Render produces the CSV bytes for one service collection.
func (s *ExportService) Render(ctx context.Context, kind models.ServiceKind) ([]byte, string, error) {
	var dataset export.Dataset
	var err error

	switch kind {
	case models.ServiceDocument:
		dataset, err = s.documentDataset(ctx)
	case models.ServiceAmbulance:
		dataset, err = s.ambulanceDataset(ctx)
	case models.ServiceCourt:
		dataset, err = s.courtDataset(ctx)
	case models.ServiceReport:
		dataset, err = s.reportDataset(ctx)
	case models.ServiceProposal:
		dataset, err = s.proposalDataset(ctx)
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown export collection %q", kind))
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect export rows")
	}

	content, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}

	filename := fmt.Sprintf("%s-%s.csv", kind, time.Now().UTC().Format("2006-01-02"))
	return content, filename, nil
}

func (s *ExportService) documentDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.repos.Documents.List(ctx, models.DocumentFilter{Page: 1, PageSize: exportPageSize})
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{Headers: []string{"tracking_code", "resident_id", "document_type", "purpose", "status", "created_at"}}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.ServiceID, row.ResidentID, string(row.DocumentType), row.Purpose, row.Status, row.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}

func (s *ExportService) ambulanceDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.repos.Ambulance.List(ctx, models.BookingFilter{Page: 1, PageSize: exportPageSize})
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{Headers: []string{"id", "resident_id", "patient_name", "pickup_address", "destination", "scheduled_at", "status", "created_at"}}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.ID, row.ResidentID, row.PatientName, row.PickupAddress, row.Destination,
			row.ScheduledAt.Format(time.RFC3339), row.Status, row.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}

func (s *ExportService) courtDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.repos.Court.List(ctx, models.BookingFilter{Page: 1, PageSize: exportPageSize})
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{Headers: []string{"id", "resident_id", "event_name", "reserved_date", "start_time", "end_time", "status", "created_at"}}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.ID, row.ResidentID, row.EventName, row.ReservedDate.Format("2006-01-02"),
			row.StartTime, row.EndTime, row.Status, row.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}

func (s *ExportService) reportDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.repos.Reports.List(ctx, models.ReportFilter{Page: 1, PageSize: exportPageSize})
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{Headers: []string{"id", "resident_id", "issue_type", "location", "status", "created_at"}}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.ID, row.ResidentID, row.IssueType, row.Location, row.Status, row.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}

func (s *ExportService) proposalDataset(ctx context.Context) (export.Dataset, error) {
	rows, _, err := s.repos.Proposals.List(ctx, models.ReportFilter{Page: 1, PageSize: exportPageSize})
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{Headers: []string{"id", "resident_id", "title", "category", "status", "created_at"}}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.ID, row.ResidentID, row.Title, row.Category, row.Status, row.CreatedAt.Format(time.RFC3339),
		})
	}
	return dataset, nil
}
