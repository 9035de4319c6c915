package models

import (
	"database/sql"
	"time"
)

// ScanLog is one immutable audit row per spam check. Rows are only ever
// removed in bulk (retention cleanup, manual deletion, member cascade).
type ScanLog struct {
	ID               int64          `db:"id" json:"id"`
	MemberID         *int64         `db:"member_id" json:"member_id,omitempty"`
	ContentType      string         `db:"content_type" json:"content_type"`
	ContentID        *int64         `db:"content_id" json:"content_id,omitempty"`
	IPAddress        sql.NullString `db:"ip_address" json:"ip_address,omitempty"`
	Status           string         `db:"status" json:"status"`
	SpamScore        float64        `db:"spam_score" json:"spam_score"`
	Symbols          sql.NullString `db:"symbols" json:"symbols,omitempty"`
	ThreatCategories sql.NullString `db:"threat_categories" json:"threat_categories,omitempty"`
	ActionTaken      string         `db:"action_taken" json:"action_taken"`
	ContentPreview   sql.NullString `db:"content_preview" json:"content_preview,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// DailyStat is one day's bucket in the dashboard statistics.
type DailyStat struct {
	Date    string `db:"date" json:"date"`
	Total   int    `db:"total" json:"total"`
	Blocked int    `db:"blocked" json:"blocked"`
}

// Statistics is the dashboard summary over a trailing window.
type Statistics struct {
	Total      int         `json:"total"`
	Blocked    int         `json:"blocked"`
	Suspicious int         `json:"suspicious"`
	Safe       int         `json:"safe"`
	Daily      []DailyStat `json:"daily"`
}
