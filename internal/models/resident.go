package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Resident category tags assigned during verification.
const (
	ResidentTypeMinor      = "Minor"
	ResidentTypeYoungAdult = "18-30"
	ResidentTypeIlliterate = "Illiterate"
	ResidentTypePWD        = "PWD"
	ResidentTypeSenior     = "Senior Citizen"
	ResidentTypeIndigent   = "Indigent"
)

// Resident is the barangay resident profile linked to a portal account.
type Resident struct {
	ID         string         `db:"id" json:"id"`
	UserID     *string        `db:"user_id" json:"user_id,omitempty"`
	FirstName  string         `db:"first_name" json:"first_name"`
	LastName   string         `db:"last_name" json:"last_name"`
	Address    string         `db:"address" json:"address"`
	IsVerified bool           `db:"is_verified" json:"is_verified"`
	IsVoter    bool           `db:"is_voter" json:"is_voter"`
	Types      pq.StringArray `db:"types" json:"types"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// ResidentFilter narrows resident listings.
type ResidentFilter struct {
	Verified *bool
	Search   string
	Limit    int
	Page     int
	PageSize int
}

// Attachment describes one announcement media item.
type Attachment struct {
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Name      string `json:"name,omitempty"`
}

// AttachmentList stores attachments as a JSONB column.
type AttachmentList []Attachment

// Value implements driver.Valuer.
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *AttachmentList) Scan(src interface{}) error {
	if src == nil {
		*a = AttachmentList{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported AttachmentList source type %T", src)
	}
	if len(raw) == 0 {
		*a = AttachmentList{}
		return nil
	}
	return json.Unmarshal(raw, a)
}
