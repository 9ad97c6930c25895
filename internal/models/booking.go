package models

import "time"

// AmbulanceBooking is a resident's ambulance transport request.
type AmbulanceBooking struct {
	ID            string     `db:"id" json:"id"`
	ResidentID    string     `db:"resident_id" json:"resident_id"`
	PatientName   string     `db:"patient_name" json:"patient_name"`
	PickupAddress string     `db:"pickup_address" json:"pickup_address"`
	Destination   string     `db:"destination" json:"destination"`
	ScheduledAt   time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Purpose       string     `db:"purpose" json:"purpose"`
	Status        string     `db:"status" json:"status"`
	AdminComment  *string    `db:"admin_comment" json:"admin_comment,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CourtReservation is a resident's covered-court booking.
type CourtReservation struct {
	ID           string     `db:"id" json:"id"`
	ResidentID   string     `db:"resident_id" json:"resident_id"`
	EventName    string     `db:"event_name" json:"event_name"`
	ReservedDate time.Time  `db:"reserved_date" json:"reserved_date"`
	StartTime    string     `db:"start_time" json:"start_time"`
	EndTime      string     `db:"end_time" json:"end_time"`
	Purpose      string     `db:"purpose" json:"purpose"`
	Status       string     `db:"status" json:"status"`
	AdminComment *string    `db:"admin_comment" json:"admin_comment,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// BookingFilter narrows ambulance and court listings. Start and End drive the
// server-side date window used by the dashboard.
type BookingFilter struct {
	ResidentID string
	Status     string
	Start      *time.Time
	End        *time.Time
	Page       int
	PageSize   int
}
