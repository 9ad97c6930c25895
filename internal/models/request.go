package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ServiceKind identifies one of the five resident-facing service collections.
type ServiceKind string

const (
	ServiceAmbulance ServiceKind = "ambulance"
	ServiceCourt     ServiceKind = "court"
	ServiceDocument  ServiceKind = "documents"
	ServiceReport    ServiceKind = "reports"
	ServiceProposal  ServiceKind = "proposals"
)

// Per-service status vocabularies. The casing differs between services
// ("Resolved" vs "completed"); the portal preserves the vocabularies exactly
// as the legacy system defined them rather than unifying them.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusApproved   = "approved"
	StatusInReview   = "in_review"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"

	ReportStatusPending    = "Pending"
	ReportStatusInProgress = "In Progress"
	ReportStatusResolved   = "Resolved"
	ReportStatusRejected   = "Rejected"
)

var statusVocabularies = map[ServiceKind][]string{
	ServiceAmbulance: {StatusPending, StatusApproved, StatusCompleted, StatusCancelled},
	ServiceCourt:     {StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled},
	ServiceDocument:  {StatusPending, StatusInProgress, StatusCompleted, StatusRejected, StatusCancelled},
	ServiceReport:    {ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusRejected},
	ServiceProposal:  {StatusPending, StatusInReview, StatusApproved, StatusRejected},
}

// Lifecycle edges per service. Requests are never hard-deleted: cancellation
// and rejection are statuses, and terminal statuses have no outgoing edges.
var statusTransitions = map[ServiceKind]map[string][]string{
	ServiceAmbulance: {
		StatusPending:  {StatusApproved, StatusCancelled},
		StatusApproved: {StatusCompleted, StatusCancelled},
	},
	ServiceCourt: {
		StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
		StatusApproved: {StatusCompleted, StatusCancelled},
	},
	ServiceDocument: {
		StatusPending:    {StatusInProgress, StatusRejected, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusRejected, StatusCancelled},
	},
	ServiceReport: {
		ReportStatusPending:    {ReportStatusInProgress, ReportStatusRejected},
		ReportStatusInProgress: {ReportStatusResolved, ReportStatusRejected},
	},
	ServiceProposal: {
		StatusPending:  {StatusInReview, StatusRejected},
		StatusInReview: {StatusApproved, StatusRejected},
	},
}

// StatusVocabulary returns the exact status strings recognised for a service.
func StatusVocabulary(kind ServiceKind) []string {
	vocab := statusVocabularies[kind]
	out := make([]string, len(vocab))
	copy(out, vocab)
	return out
}

// KnownStatus reports whether the status string matches the service vocabulary
// exactly, casing included.
func KnownStatus(kind ServiceKind, status string) bool {
	for _, s := range statusVocabularies[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(kind ServiceKind, from, to string) bool {
	for _, next := range statusTransitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusUpdate is the payload of a PATCH /:resource/:id/status call.
type StatusUpdate struct {
	Status       string `json:"status" validate:"required"`
	AdminComment string `json:"admin_comment"`
}

// JSONMap stores loosely-typed form data as a JSONB column.
type JSONMap map[string]string

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported JSONMap source type %T", src)
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(raw, m)
}
