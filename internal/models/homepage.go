package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Official is one barangay official shown on the landing page.
type Official struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Photo    string `json:"photo,omitempty"`
}

// OfficialList stores officials as a JSONB column.
type OfficialList []Official

// Value implements driver.Valuer.
func (o OfficialList) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *OfficialList) Scan(src interface{}) error {
	if src == nil {
		*o = OfficialList{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported OfficialList source type %T", src)
	}
	if len(raw) == 0 {
		*o = OfficialList{}
		return nil
	}
	return json.Unmarshal(raw, o)
}

// HomepageContent is the CMS singleton backing the landing page.
type HomepageContent struct {
	ID             string       `db:"id" json:"id"`
	WelcomeMessage string       `db:"welcome_message" json:"welcome_message"`
	About          string       `db:"about" json:"about"`
	Officials      OfficialList `db:"officials" json:"officials"`
	ContactEmail   string       `db:"contact_email" json:"contact_email"`
	ContactPhone   string       `db:"contact_phone" json:"contact_phone"`
	UpdatedBy      string       `db:"updated_by" json:"updated_by"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}
