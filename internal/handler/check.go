package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spamguard/internal/bypass"
	"spamguard/internal/pipeline"
)

// CheckHandler exposes the decision pipeline over HTTP for platforms that
// integrate remotely instead of embedding the pipeline. Enforcement on
// remote content stays with the caller: the returned decision says what to
// do, and hide/delete capabilities are absent on this path.
type CheckHandler interface {
	CheckPost(c *gin.Context)
	CheckMessage(c *gin.Context)
	CheckRegistration(c *gin.Context)
}

type checkHandler struct {
	pipe   *pipeline.Pipeline
	logger *zap.Logger
}

func NewCheckHandler(pipe *pipeline.Pipeline, logger *zap.Logger) CheckHandler {
	return &checkHandler{pipe: pipe, logger: logger}
}

type checkMember struct {
	ID       int64   `json:"id"`
	Username string  `json:"name"`
	Admin    bool    `json:"admin"`
	GroupIDs []int64 `json:"groups"`
}

func (m *checkMember) MemberID() int64 { return m.ID }
func (m *checkMember) Name() string    { return m.Username }
func (m *checkMember) IsAdmin() bool   { return m.Admin }
func (m *checkMember) Groups() []int64 { return m.GroupIDs }

type contentRequest struct {
	ContentID int64        `json:"content_id"`
	Content   string       `json:"content" binding:"required"`
	IPAddress string       `json:"ip_address"`
	Member    *checkMember `json:"member"`
}

// remoteContent adapts a request payload to the pipeline's content interface.
// It deliberately implements neither Hideable nor Deletable.
type remoteContent struct {
	req *contentRequest
}

func (r *remoteContent) ContentID() int64 { return r.req.ContentID }
func (r *remoteContent) Body() string     { return r.req.Content }

func (r *remoteContent) Author() bypass.Member {
	if r.req.Member == nil {
		return nil
	}
	return r.req.Member
}

// CheckPost handles POST /api/check/post
func (h *checkHandler) CheckPost(c *gin.Context) {
	h.checkContent(c, true)
}

// CheckMessage handles POST /api/check/message
func (h *checkHandler) CheckMessage(c *gin.Context) {
	h.checkContent(c, false)
}

func (h *checkHandler) checkContent(c *gin.Context, isPost bool) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &remoteContent{req: &req}

	if isPost {
		d := h.pipe.EvaluatePost(c.Request.Context(), item, req.IPAddress)
		c.JSON(http.StatusOK, gin.H{"status": d.Status.String(), "action": d.Action.String()})
		return
	}
	d := h.pipe.EvaluateMessage(c.Request.Context(), item, req.IPAddress)
	c.JSON(http.StatusOK, gin.H{"status": d.Status.String(), "action": d.Action.String()})
}

type registrationRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email"`
	IPAddress    string `json:"ip_address"`
	ParentResult int    `json:"parent_result"`
}

// CheckRegistration handles POST /api/check/registration
func (h *checkHandler) CheckRegistration(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parent := req.ParentResult
	if parent < 1 || parent > 4 {
		parent = 1
	}

	merged := h.pipe.EvaluateRegistration(c.Request.Context(), req.Username, req.Email, req.IPAddress, parent)
	c.JSON(http.StatusOK, gin.H{"result": merged})
}
