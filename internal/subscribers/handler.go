package subscribers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/sessions"
	"github.com/anchor-ministry/backend/pkg/response"
)

// SubscribeRequest is the body for POST /subscribers.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Handler handles subscriber HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a subscribers handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Subscribe handles POST /subscribers.
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a valid email is required")
		return
	}
	s, err := h.repo.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sessions.ErrDuplicateRegistration) {
			response.Conflict(c, "this email is already subscribed")
			return
		}
		h.logger.Error("subscribe failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to subscribe, try again")
		return
	}
	response.Created(c, s)
}

// Unsubscribe handles DELETE /subscribers/:email.
func (h *Handler) Unsubscribe(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		response.BadRequest(c, "email is required")
		return
	}
	if err := h.repo.Unsubscribe(c.Request.Context(), email); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "subscriber not found")
			return
		}
		response.ServiceUnavailable(c, "failed to unsubscribe, try again")
		return
	}
	response.NoContent(c)
}

// List handles GET /subscribers (pastor only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		response.ServiceUnavailable(c, "failed to list subscribers, try again")
		return
	}
	response.OK(c, gin.H{"subscribers": list, "count": len(list)})
}
