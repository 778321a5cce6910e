package testimonies

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/middleware"
	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
	"github.com/anchor-ministry/backend/pkg/response"
)

// SubmitRequest is the body for POST /testimonies.
type SubmitRequest struct {
	AuthorName  string `json:"author_name"`
	Age         *int   `json:"age,omitempty"`
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Handler handles testimony HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a testimonies handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /testimonies. Visitors see approved testimonies only.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), !middleware.IsPastor(c))
	if err != nil {
		response.ServiceUnavailable(c, "failed to list testimonies, try again")
		return
	}
	response.OK(c, gin.H{"testimonies": list})
}

// Submit handles POST /testimonies. Anonymous submissions drop the author
// name.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	author := req.AuthorName
	if req.IsAnonymous || author == "" {
		author = "Anonymous"
	}
	t := &models.Testimony{
		AuthorName:  author,
		Age:         req.Age,
		Title:       req.Title,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	}
	if err := h.repo.Create(c.Request.Context(), t); err != nil {
		h.logger.Error("create testimony failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to submit testimony, try again")
		return
	}
	response.Created(c, t)
}

// Approve handles POST /testimonies/:id/approve (pastor only).
func (h *Handler) Approve(c *gin.Context) {
	h.setApproved(c, true)
}

// Reject handles POST /testimonies/:id/reject (pastor only).
func (h *Handler) Reject(c *gin.Context) {
	h.setApproved(c, false)
}

func (h *Handler) setApproved(c *gin.Context, approved bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid testimony id")
		return
	}
	t, err := h.repo.SetApproved(c.Request.Context(), id, approved)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "testimony not found")
			return
		}
		response.ServiceUnavailable(c, "failed to update testimony, try again")
		return
	}
	response.OK(c, t)
}

// Feature handles POST /testimonies/:id/feature (pastor only). Only approved
// testimonies can be featured; others come back 404.
func (h *Handler) Feature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid testimony id")
		return
	}
	var req struct {
		IsFeatured bool `json:"is_featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	t, err := h.repo.SetFeatured(c.Request.Context(), id, req.IsFeatured)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "approved testimony not found")
			return
		}
		response.ServiceUnavailable(c, "failed to update testimony, try again")
		return
	}
	response.OK(c, t)
}

// Delete handles DELETE /testimonies/:id (pastor only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid testimony id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "testimony not found")
			return
		}
		response.ServiceUnavailable(c, "failed to delete testimony, try again")
		return
	}
	response.NoContent(c)
}
