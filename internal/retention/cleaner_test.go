package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spamguard/internal/models"
)

type recordingRepo struct {
	cutoffs []time.Time
	deleted int64
	err     error
}

func (r *recordingRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, cutoff)
	return r.deleted, r.err
}

func (r *recordingRepo) Insert(*models.ScanLog) error               { return nil }
func (r *recordingRepo) Recent(int) ([]*models.ScanLog, error)      { return nil, nil }
func (r *recordingRepo) Statistics(int) (*models.Statistics, error) { return nil, nil }
func (r *recordingRepo) DeleteByID(int64) error                     { return nil }
func (r *recordingRepo) DeleteAll() error                           { return nil }
func (r *recordingRepo) DeleteByMember(int64) error                 { return nil }
func (r *recordingRepo) ReassignMember([]int64, int64) error        { return nil }

func TestSweepCutoff(t *testing.T) {
	repo := &recordingRepo{deleted: 5}
	cleaner := NewCleaner(repo, 30, time.Hour, zap.NewNop())

	before := time.Now().AddDate(0, 0, -30)
	cleaner.Sweep()
	after := time.Now().AddDate(0, 0, -30)

	require.Len(t, repo.cutoffs, 1)
	cutoff := repo.cutoffs[0]
	assert.False(t, cutoff.Before(before))
	assert.False(t, cutoff.After(after))
}

func TestSweepSwallowsError(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db down")}
	cleaner := NewCleaner(repo, 30, time.Hour, zap.NewNop())

	assert.NotPanics(t, cleaner.Sweep)
	assert.Len(t, repo.cutoffs, 1)
}

func TestNewCleanerDefaults(t *testing.T) {
	cleaner := NewCleaner(&recordingRepo{}, 0, 0, zap.NewNop())
	assert.Equal(t, 30, cleaner.retentionDays)
	assert.Equal(t, time.Hour, cleaner.interval)
}

func TestRunSweepsImmediatelyAndStops(t *testing.T) {
	repo := &recordingRepo{}
	cleaner := NewCleaner(repo, 7, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleaner.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop after context cancellation")
	}

	assert.GreaterOrEqual(t, len(repo.cutoffs), 1)
}
