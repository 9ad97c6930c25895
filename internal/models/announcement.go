package models

import "time"

// AnnouncementType labels announcements for the public feed.
type AnnouncementType string

const (
	AnnouncementNews     AnnouncementType = "news"
	AnnouncementEvent    AnnouncementType = "event"
	AnnouncementAdvisory AnnouncementType = "advisory"
)

// Announcement is a barangay-published post shown on the portal feed.
type Announcement struct {
	ID        string           `db:"id" json:"id"`
	Title     string           `db:"title" json:"title"`
	Content   string           `db:"content" json:"content"`
	Type      AnnouncementType `db:"type" json:"type"`
	Images    AttachmentList   `db:"images" json:"images"`
	Videos    AttachmentList   `db:"videos" json:"videos"`
	Files     AttachmentList   `db:"files" json:"files"`
	PostedBy  string           `db:"posted_by" json:"posted_by"`
	PostedAt  time.Time        `db:"posted_at" json:"posted_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter narrows the public feed.
type AnnouncementFilter struct {
	Type     string
	Page     int
	PageSize int
}
