package retention

import (
	"context"
	"time"

	"go.uber.org/zap"

	"spamguard/internal/repository"
)

// Cleaner prunes scan log rows older than the retention window. Deletes only
// target rows past the cutoff, so it can run concurrently with log inserts.
type Cleaner struct {
	repo          repository.ScanLogRepository
	retentionDays int
	interval      time.Duration
	logger        *zap.Logger
}

func NewCleaner(repo repository.ScanLogRepository, retentionDays int, interval time.Duration, logger *zap.Logger) *Cleaner {
	if retentionDays < 1 {
		retentionDays = 30
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Cleaner{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
	}
}

// Run executes cleanup on a ticker until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	c.logger.Info("Log retention cleaner started.", zap.Int("retention_days", c.retentionDays))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Sweep()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Log retention cleaner stopped.")
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep deletes rows older than the retention window once.
func (c *Cleaner) Sweep() {
	cutoff := time.Now().AddDate(0, 0, -c.retentionDays)

	deleted, err := c.repo.DeleteOlderThan(cutoff)
	if err != nil {
		c.logger.Error("Log retention cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		c.logger.Info("Deleted old scan log entries",
			zap.Int64("deleted", deleted), zap.Int("retention_days", c.retentionDays))
	}
}
