package models

import "time"

// Activity log actions recorded by the portal.
const (
	ActivityActionLogin          = "LOGIN"
	ActivityActionLogout         = "LOGOUT"
	ActivityActionPasswordChange = "PASSWORD_CHANGE"
	ActivityActionSubmit         = "SUBMIT"
	ActivityActionStatusChange   = "STATUS_CHANGE"
	ActivityActionGenerate       = "GENERATE_DOCUMENT"
	ActivityActionPublish        = "PUBLISH"
	ActivityActionUpdate         = "UPDATE"
)

// ActivityLog is one admin activity trail entry.
type ActivityLog struct {
	ID         string    `db:"id" json:"id"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   *string   `db:"entity_id" json:"entity_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Details    string    `db:"details" json:"details"`
	AdminName  string    `db:"admin_name" json:"admin_name"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}
