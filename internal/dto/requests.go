package dto

import "github.com/barangayhub/portal-api/internal/models"

// SubmitDocumentRequest is the POST /documents payload.
type SubmitDocumentRequest struct {
	DocumentType models.DocumentType `json:"document_type" validate:"required"`
	FormData     models.JSONMap      `json:"form_data"`
	Purpose      string              `json:"purpose" validate:"required"`
}

// SubmitAmbulanceRequest is the POST /ambulance payload.
type SubmitAmbulanceRequest struct {
	PatientName   string `json:"patient_name" validate:"required"`
	PickupAddress string `json:"pickup_address" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	ScheduledAt   string `json:"scheduled_at" validate:"required"`
	Purpose       string `json:"purpose"`
}

// SubmitCourtRequest is the POST /court payload.
type SubmitCourtRequest struct {
	EventName    string `json:"event_name" validate:"required"`
	ReservedDate string `json:"reserved_date" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	Purpose      string `json:"purpose"`
}

// SubmitReportRequest is the POST /reports payload.
type SubmitReportRequest struct {
	IssueType   string `json:"issue_type" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// SubmitProposalRequest is the POST /proposals payload.
type SubmitProposalRequest struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// GenerateDocumentRequest is the POST /documents/generate payload. The extra
// numbers are required per document type and validated before rendering.
type GenerateDocumentRequest struct {
	RequestID       string `json:"request_id" validate:"required"`
	ClearanceNumber string `json:"clearance_number"`
	IDNumber        string `json:"id_number"`
}

// GeneratedDocument carries the rendered file and its archival metadata.
type GeneratedDocument struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	Content       []byte `json:"-"`
	DownloadToken string `json:"download_token"`
}

// VerifyResidentRequest is the PATCH /residents/:id/verification payload.
type VerifyResidentRequest struct {
	IsVerified bool     `json:"is_verified"`
	IsVoter    bool     `json:"is_voter"`
	Types      []string `json:"types"`
}

// CreateAnnouncementRequest is the POST /announcements payload.
type CreateAnnouncementRequest struct {
	Title   string                  `json:"title" validate:"required"`
	Content string                  `json:"content" validate:"required"`
	Type    models.AnnouncementType `json:"type" validate:"required"`
	Images  []models.Attachment     `json:"images"`
	Videos  []models.Attachment     `json:"videos"`
	Files   []models.Attachment     `json:"files"`
}

// UpdateHomepageRequest is the PUT /homepage payload.
type UpdateHomepageRequest struct {
	WelcomeMessage string            `json:"welcome_message" validate:"required"`
	About          string            `json:"about"`
	Officials      []models.Official `json:"officials"`
	ContactEmail   string            `json:"contact_email" validate:"omitempty,email"`
	ContactPhone   string            `json:"contact_phone"`
}
