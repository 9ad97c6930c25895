package models

import "time"

// Infrastructure report issue types observed across barangay zones.
const (
	IssueRoadDamage    = "Road Damage"
	IssueBrokenLight   = "Broken Streetlight"
	IssueDrainage      = "Clogged Drainage"
	IssueWaterSupply   = "Water Supply"
	IssueElectricity   = "Electrical Hazard"
	IssueWasteOverflow = "Uncollected Waste"
)

// InfrastructureReport is a resident-filed issue report.
type InfrastructureReport struct {
	ID           string     `db:"id" json:"id"`
	ResidentID   string     `db:"resident_id" json:"resident_id"`
	IssueType    string     `db:"issue_type" json:"issue_type"`
	Location     string     `db:"location" json:"location"`
	Description  string     `db:"description" json:"description"`
	Status       string     `db:"status" json:"status"`
	AdminComment *string    `db:"admin_comment" json:"admin_comment,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ProjectProposal is a resident-submitted community project idea.
type ProjectProposal struct {
	ID           string     `db:"id" json:"id"`
	ResidentID   string     `db:"resident_id" json:"resident_id"`
	Title        string     `db:"title" json:"title"`
	Category     string     `db:"category" json:"category"`
	Description  string     `db:"description" json:"description"`
	Status       string     `db:"status" json:"status"`
	AdminComment *string    `db:"admin_comment" json:"admin_comment,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ReportFilter narrows infrastructure report and proposal listings.
type ReportFilter struct {
	ResidentID string
	Status     string
	IssueType  string
	Page       int
	PageSize   int
}
