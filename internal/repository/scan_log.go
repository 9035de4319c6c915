package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"spamguard/internal/models"
)

// previewMaxChars bounds the stored content preview, measured in characters
// rather than bytes so multi-byte sequences are never split.
const previewMaxChars = 500

type ScanLogRepository interface {
	Insert(entry *models.ScanLog) error
	Recent(limit int) ([]*models.ScanLog, error)
	Statistics(days int) (*models.Statistics, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
	DeleteByID(id int64) error
	DeleteAll() error
	DeleteByMember(memberID int64) error
	ReassignMember(fromIDs []int64, toID int64) error
}

type scanLogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewScanLogRepository(db *sqlx.DB, logger *zap.Logger) ScanLogRepository {
	return &scanLogRepository{db: db, logger: logger}
}

// NewScanLog assembles an audit row, truncating the preview and encoding
// symbol and threat lists as JSON text (NULL when absent).
func NewScanLog(
	memberID *int64,
	contentType string,
	contentID *int64,
	ipAddress string,
	status string,
	spamScore float64,
	symbols []string,
	threats []string,
	actionTaken string,
	contentPreview string,
) *models.ScanLog {
	entry := &models.ScanLog{
		MemberID:    memberID,
		ContentType: contentType,
		ContentID:   contentID,
		Status:      status,
		SpamScore:   spamScore,
		ActionTaken: actionTaken,
	}

	if ipAddress != "" {
		entry.IPAddress = sql.NullString{String: ipAddress, Valid: true}
	}
	entry.Symbols = encodeList(symbols)
	entry.ThreatCategories = encodeList(threats)

	if contentPreview != "" {
		entry.ContentPreview = sql.NullString{String: truncateChars(contentPreview, previewMaxChars), Valid: true}
	}

	return entry
}

func encodeList(values []string) sql.NullString {
	if len(values) == 0 {
		return sql.NullString{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(encoded), Valid: true}
}

func truncateChars(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// DecodeList reverses the symbols/threats encoding of NewScanLog.
func DecodeList(stored sql.NullString) []string {
	if !stored.Valid || stored.String == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(stored.String), &values); err != nil {
		return []string{}
	}
	return values
}

func (r *scanLogRepository) Insert(entry *models.ScanLog) error {
	query := `INSERT INTO scan_logs (member_id, content_type, content_id, ip_address, status, spam_score, symbols, threat_categories, action_taken, content_preview)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at`
	return r.db.QueryRowx(query, entry.MemberID, entry.ContentType, entry.ContentID, entry.IPAddress,
		entry.Status, entry.SpamScore, entry.Symbols, entry.ThreatCategories, entry.ActionTaken, entry.ContentPreview).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *scanLogRepository) Recent(limit int) ([]*models.ScanLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []*models.ScanLog
	query := `SELECT id, member_id, content_type, content_id, ip_address, status, spam_score, symbols, threat_categories, action_taken, content_preview, created_at
	          FROM scan_logs ORDER BY created_at DESC LIMIT $1`
	err := r.db.Select(&logs, query, limit)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *scanLogRepository) Statistics(days int) (*models.Statistics, error) {
	if days < 1 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	stats := &models.Statistics{Daily: []models.DailyStat{}}

	query := `SELECT
	            COUNT(*) AS total,
	            COUNT(*) FILTER (WHERE status = 'blocked') AS blocked,
	            COUNT(*) FILTER (WHERE status = 'suspicious') AS suspicious,
	            COUNT(*) FILTER (WHERE status = 'safe') AS safe
	          FROM scan_logs WHERE created_at > $1`
	row := r.db.QueryRowx(query, since)
	if err := row.Scan(&stats.Total, &stats.Blocked, &stats.Suspicious, &stats.Safe); err != nil {
		return nil, err
	}

	dailyQuery := `SELECT
	                 to_char(created_at::date, 'YYYY-MM-DD') AS date,
	                 COUNT(*) AS total,
	                 COUNT(*) FILTER (WHERE status = 'blocked') AS blocked
	               FROM scan_logs WHERE created_at > $1
	               GROUP BY created_at::date ORDER BY created_at::date`
	if err := r.db.Select(&stats.Daily, dailyQuery, since); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *scanLogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM scan_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *scanLogRepository) DeleteByID(id int64) error {
	_, err := r.db.Exec(`DELETE FROM scan_logs WHERE id = $1`, id)
	return err
}

func (r *scanLogRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM scan_logs`)
	return err
}

// DeleteByMember removes all rows for a deleted member.
func (r *scanLogRepository) DeleteByMember(memberID int64) error {
	_, err := r.db.Exec(`DELETE FROM scan_logs WHERE member_id = $1`, memberID)
	return err
}

// ReassignMember repoints rows from merged members to the surviving one.
func (r *scanLogRepository) ReassignMember(fromIDs []int64, toID int64) error {
	if len(fromIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(`UPDATE scan_logs SET member_id = $1 WHERE member_id = ANY($2)`, toID, pq.Array(fromIDs))
	return err
}
