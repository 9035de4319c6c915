package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spamguard/internal/repository"
)

type LogsHandler interface {
	GetRecent(c *gin.Context)
	Delete(c *gin.Context)
	Clear(c *gin.Context)
	MemberDeleted(c *gin.Context)
	MembersMerged(c *gin.Context)
}

type logsHandler struct {
	scanLogRepo repository.ScanLogRepository
	logger      *zap.Logger
}

func NewLogsHandler(scanLogRepo repository.ScanLogRepository, logger *zap.Logger) LogsHandler {
	return &logsHandler{scanLogRepo: scanLogRepo, logger: logger}
}

// logEntry is the browser-facing shape of a scan log row with the JSON-text
// columns decoded back into lists.
type logEntry struct {
	ID               int64    `json:"id"`
	MemberID         *int64   `json:"member_id,omitempty"`
	ContentType      string   `json:"content_type"`
	ContentID        *int64   `json:"content_id,omitempty"`
	IPAddress        string   `json:"ip_address,omitempty"`
	Status           string   `json:"status"`
	SpamScore        float64  `json:"spam_score"`
	Symbols          []string `json:"symbols"`
	ThreatCategories []string `json:"threat_categories"`
	ActionTaken      string   `json:"action_taken"`
	ContentPreview   string   `json:"content_preview,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

// GetRecent handles GET /api/logs?limit=20
func (h *logsHandler) GetRecent(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = parsed
	}

	logs, err := h.scanLogRepo.Recent(limit)
	if err != nil {
		h.logger.Error("Failed to get recent scan logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve logs"})
		return
	}

	entries := make([]logEntry, 0, len(logs))
	for _, row := range logs {
		entry := logEntry{
			ID:               row.ID,
			MemberID:         row.MemberID,
			ContentType:      row.ContentType,
			ContentID:        row.ContentID,
			IPAddress:        row.IPAddress.String,
			Status:           row.Status,
			SpamScore:        row.SpamScore,
			Symbols:          repository.DecodeList(row.Symbols),
			ThreatCategories: repository.DecodeList(row.ThreatCategories),
			ActionTaken:      row.ActionTaken,
			ContentPreview:   row.ContentPreview.String,
			CreatedAt:        row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

// Delete handles DELETE /api/logs/:id
func (h *logsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	if err := h.scanLogRepo.DeleteByID(id); err != nil {
		h.logger.Error("Failed to delete scan log", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Log deleted"})
}

// Clear handles DELETE /api/logs
func (h *logsHandler) Clear(c *gin.Context) {
	if err := h.scanLogRepo.DeleteAll(); err != nil {
		h.logger.Error("Failed to clear scan logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logs cleared"})
}

// MemberDeleted handles POST /api/members/deleted — cascade from the host
// platform when a member is removed.
func (h *logsHandler) MemberDeleted(c *gin.Context) {
	var req struct {
		MemberID int64 `json:"member_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scanLogRepo.DeleteByMember(req.MemberID); err != nil {
		h.logger.Error("Failed to delete scan logs for member", zap.Int64("member_id", req.MemberID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member logs deleted"})
}

// MembersMerged handles POST /api/members/merged — repoints log rows from
// merged member accounts to the surviving one.
func (h *logsHandler) MembersMerged(c *gin.Context) {
	var req struct {
		KeptMemberID    int64   `json:"kept_member_id" binding:"required"`
		MergedMemberIDs []int64 `json:"merged_member_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scanLogRepo.ReassignMember(req.MergedMemberIDs, req.KeptMemberID); err != nil {
		h.logger.Error("Failed to reassign scan logs after member merge",
			zap.Int64("kept_member_id", req.KeptMemberID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign member logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member logs reassigned"})
}
