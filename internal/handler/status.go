package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spamguard/internal/apiclient"
	"spamguard/internal/config"
)

type StatusHandler interface {
	GetStatus(c *gin.Context)
}

type statusHandler struct {
	cfg    *config.Config
	client *apiclient.Client
	logger *zap.Logger
}

func NewStatusHandler(cfg *config.Config, client *apiclient.Client, logger *zap.Logger) StatusHandler {
	return &statusHandler{cfg: cfg, client: client, logger: logger}
}

// GetStatus handles GET /api/status — probes the scoring service and, when
// reachable, includes account usage counters for the dashboard indicator.
func (h *statusHandler) GetStatus(c *gin.Context) {
	response := gin.H{
		"enabled":    h.cfg.IsEnabled(),
		"configured": h.client.IsConfigured(),
		"online":     false,
	}

	if !h.client.IsConfigured() {
		c.JSON(http.StatusOK, response)
		return
	}

	probe, err := h.client.TestConnection(c.Request.Context())
	if err != nil {
		h.logger.Error("Scoring service connection test failed", zap.Error(err))
		response["error"] = err.Error()
		c.JSON(http.StatusOK, response)
		return
	}

	response["online"] = probe.IsConnectionValid()
	response["http_code"] = probe.HTTPCode
	if !probe.Success {
		response["error"] = probe.Err
		c.JSON(http.StatusOK, response)
		return
	}

	usage, err := h.client.AccountUsage(c.Request.Context())
	if err == nil && usage.Success {
		response["usage"] = usage.UsageData()
	}

	c.JSON(http.StatusOK, response)
}
