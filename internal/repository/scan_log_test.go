package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spamguard/internal/models"
	"spamguard/internal/repository"
)

func newMockRepo(t *testing.T) (repository.ScanLogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewScanLogRepository(sqlxDB, zap.NewNop()), mock
}

func TestNewScanLog(t *testing.T) {
	memberID := int64(7)
	contentID := int64(42)

	t.Run("Full Row", func(t *testing.T) {
		entry := repository.NewScanLog(&memberID, "post", &contentID, "203.0.113.9",
			"blocked", 0.8, []string{"BAYES_SPAM", "URIBL_BLACK"}, []string{"phishing"}, "block", "buy pills")

		assert.Equal(t, "post", entry.ContentType)
		assert.Equal(t, "blocked", entry.Status)
		assert.Equal(t, "block", entry.ActionTaken)
		assert.Equal(t, 0.8, entry.SpamScore)
		assert.True(t, entry.IPAddress.Valid)
		assert.Equal(t, `["BAYES_SPAM","URIBL_BLACK"]`, entry.Symbols.String)
		assert.Equal(t, `["phishing"]`, entry.ThreatCategories.String)
		assert.Equal(t, "buy pills", entry.ContentPreview.String)
	})

	t.Run("Absent Lists Stored As NULL", func(t *testing.T) {
		entry := repository.NewScanLog(nil, "registration", nil, "", "safe", 0.0, nil, nil, "allow", "")

		assert.Nil(t, entry.MemberID)
		assert.False(t, entry.IPAddress.Valid)
		assert.False(t, entry.Symbols.Valid)
		assert.False(t, entry.ThreatCategories.Valid)
		assert.False(t, entry.ContentPreview.Valid)
	})

	t.Run("Preview Truncated To 500 Characters", func(t *testing.T) {
		long := strings.Repeat("я", 600)
		entry := repository.NewScanLog(nil, "post", nil, "", "safe", 0.0, nil, nil, "allow", long)

		require.True(t, entry.ContentPreview.Valid)
		runes := []rune(entry.ContentPreview.String)
		assert.Len(t, runes, 500)
		// Truncation is character-based, so the multi-byte text stays intact.
		assert.Equal(t, strings.Repeat("я", 500), entry.ContentPreview.String)
	})

	t.Run("Short Preview Unchanged", func(t *testing.T) {
		entry := repository.NewScanLog(nil, "post", nil, "", "safe", 0.0, nil, nil, "allow", "short")
		assert.Equal(t, "short", entry.ContentPreview.String)
	})
}

func TestDecodeListRoundTrip(t *testing.T) {
	symbols := []string{"BAYES_SPAM", "URIBL_BLACK", "BAYES_SPAM"}
	entry := repository.NewScanLog(nil, "post", nil, "", "blocked", 0.8, symbols, nil, "block", "")

	assert.Equal(t, symbols, repository.DecodeList(entry.Symbols))
	assert.Equal(t, []string{}, repository.DecodeList(entry.ThreatCategories))
	assert.Equal(t, []string{}, repository.DecodeList(sql.NullString{String: "garbage", Valid: true}))
}

func TestInsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	memberID := int64(7)
	contentID := int64(42)
	entry := repository.NewScanLog(&memberID, "post", &contentID, "203.0.113.9",
		"blocked", 0.8, []string{"BAYES_SPAM"}, []string{"phishing"}, "block", "preview")

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scan_logs`)).
		WithArgs(entry.MemberID, "post", entry.ContentID, entry.IPAddress, "blocked", 0.8,
			entry.Symbols, entry.ThreatCategories, "block", entry.ContentPreview).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	require.NoError(t, repo.Insert(entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, now, entry.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	entry := repository.NewScanLog(nil, "post", nil, "", "safe", 0.0, nil, nil, "allow", "")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scan_logs`)).
		WillReturnError(errors.New("connection reset"))

	assert.Error(t, repo.Insert(entry))
}

func TestRecent(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "member_id", "content_type", "content_id", "ip_address",
		"status", "spam_score", "symbols", "threat_categories", "action_taken", "content_preview", "created_at"}).
		AddRow(int64(2), nil, "message", nil, nil, "safe", 0.1, nil, nil, "allow", nil, time.Now()).
		AddRow(int64(1), int64(7), "post", int64(42), "203.0.113.9", "blocked", 0.8, `["X"]`, nil, "block", "p", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM scan_logs ORDER BY created_at DESC LIMIT $1`)).
		WithArgs(20).
		WillReturnRows(rows)

	logs, err := repo.Recent(0) // Zero falls back to the default limit.
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "message", logs[0].ContentType)
	assert.Equal(t, "blocked", logs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatistics(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM scan_logs WHERE created_at > $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"total", "blocked", "suspicious", "safe"}).
			AddRow(10, 3, 2, 5))

	mock.ExpectQuery(regexp.QuoteMeta(`GROUP BY created_at::date`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"date", "total", "blocked"}).
			AddRow("2026-08-30", 4, 1).
			AddRow("2026-08-31", 6, 2))

	stats, err := repo.Statistics(7)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 3, stats.Blocked)
	assert.Equal(t, 2, stats.Suspicious)
	assert.Equal(t, 5, stats.Safe)
	require.Len(t, stats.Daily, 2)
	assert.Equal(t, models.DailyStat{Date: "2026-08-30", Total: 4, Blocked: 1}, stats.Daily[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOlderThan(t *testing.T) {
	repo, mock := newMockRepo(t)

	cutoff := time.Now().AddDate(0, 0, -30)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM scan_logs WHERE created_at < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 17))

	deleted, err := repo.DeleteOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(17), deleted)
}

func TestDeleteByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM scan_logs WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteByID(5))
}

func TestDeleteByMember(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM scan_logs WHERE member_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.DeleteByMember(7))
}

func TestReassignMember(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE scan_logs SET member_id = $1 WHERE member_id = ANY($2)`)).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.ReassignMember([]int64{8, 9}, 1))
}

func TestReassignMemberEmptySet(t *testing.T) {
	repo, _ := newMockRepo(t)
	// No query expected for an empty merge set.
	assert.NoError(t, repo.ReassignMember(nil, 1))
}
