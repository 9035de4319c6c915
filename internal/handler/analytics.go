package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spamguard/internal/repository"
)

type AnalyticsHandler interface {
	GetDashboard(c *gin.Context)
}

type analyticsHandler struct {
	scanLogRepo repository.ScanLogRepository
	logger      *zap.Logger
}

func NewAnalyticsHandler(scanLogRepo repository.ScanLogRepository, logger *zap.Logger) AnalyticsHandler {
	return &analyticsHandler{
		scanLogRepo: scanLogRepo,
		logger:      logger,
	}
}

// GetDashboard handles GET /api/dashboard?days=7
func (h *analyticsHandler) GetDashboard(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 90"})
			return
		}
		days = parsed
	}

	stats, err := h.scanLogRepo.Statistics(days)
	if err != nil {
		h.logger.Error("Failed to get scan statistics for dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
