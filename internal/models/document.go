package models

import "time"

// DocumentType enumerates the permits and certificates the barangay issues.
type DocumentType string

const (
	DocBarangayClearance    DocumentType = "barangay_clearance"
	DocBarangayID           DocumentType = "barangay_id"
	DocBusinessPermit       DocumentType = "business_permit"
	DocCertIndigency        DocumentType = "certificate_of_indigency"
	DocCertResidency        DocumentType = "certificate_of_residency"
	DocCertGoodMoral        DocumentType = "certificate_of_good_moral"
	DocCertSoloParent       DocumentType = "solo_parent_certificate"
	DocCertFirstTimeJobPack DocumentType = "first_time_jobseeker"
	DocConstructionPermit   DocumentType = "construction_permit"
	DocEventPermit          DocumentType = "event_permit"
)

// DocumentTypes lists every issuable document type.
var DocumentTypes = []DocumentType{
	DocBarangayClearance,
	DocBarangayID,
	DocBusinessPermit,
	DocCertIndigency,
	DocCertResidency,
	DocCertGoodMoral,
	DocCertSoloParent,
	DocCertFirstTimeJobPack,
	DocConstructionPermit,
	DocEventPermit,
}

// KnownDocumentType reports whether the type is issuable.
func KnownDocumentType(t DocumentType) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// DocumentRequest is a resident's permit or certificate request.
type DocumentRequest struct {
	ID           string       `db:"id" json:"id"`
	ServiceID    string       `db:"service_id" json:"service_id"`
	ResidentID   string       `db:"resident_id" json:"resident_id"`
	DocumentType DocumentType `db:"document_type" json:"document_type"`
	FormData     JSONMap      `db:"form_data" json:"form_data"`
	Purpose      string       `db:"purpose" json:"purpose"`
	Status       string       `db:"status" json:"status"`
	AdminComment *string      `db:"admin_comment" json:"admin_comment,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time   `db:"updated_at" json:"updated_at,omitempty"`
}

// DocumentFilter lists document requests.
type DocumentFilter struct {
	ResidentID   string
	Status       string
	DocumentType string
	Search       string
	Page         int
	PageSize     int
}
