package questions

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
	"github.com/anchor-ministry/backend/pkg/response"
)

// SubmitRequest is the body for POST /questions.
type SubmitRequest struct {
	Text        string  `json:"text" binding:"required"`
	AuthorName  string  `json:"author_name"`
	IsAnonymous bool    `json:"is_anonymous"`
	Category    string  `json:"category" binding:"required"`
	Subcategory *string `json:"subcategory,omitempty"`
}

// AnswerRequest is the body for PATCH /questions/:id/answer.
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// ReactRequest is the body for POST /questions/:id/react.
type ReactRequest struct {
	UserIdentifier string `json:"user_identifier" binding:"required"`
	Kind           string `json:"kind" binding:"required"`
}

// Handler handles question HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a questions handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /questions.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.ServiceUnavailable(c, "failed to list questions, try again")
		return
	}
	response.OK(c, gin.H{"questions": list, "categories": Categories})
}

// Submit handles POST /questions. Anonymous submissions drop the author name.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !ValidCategory(req.Category, req.Subcategory) {
		response.BadRequest(c, "unknown category or subcategory")
		return
	}

	author := req.AuthorName
	if req.IsAnonymous || author == "" {
		author = "Anonymous"
	}
	q := &models.Question{
		Text:        req.Text,
		AuthorName:  author,
		IsAnonymous: req.IsAnonymous,
		Category:    req.Category,
		Subcategory: req.Subcategory,
	}
	if err := h.repo.Create(c.Request.Context(), q); err != nil {
		h.logger.Error("create question failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to submit question, try again")
		return
	}
	response.Created(c, q)
}

// Answer handles PATCH /questions/:id/answer (pastor only).
func (h *Handler) Answer(c *gin.Context) {
	h.applyAnswer(c, h.repo.Answer)
}

// UpdateAnswer handles PUT /questions/:id/answer (pastor only).
func (h *Handler) UpdateAnswer(c *gin.Context) {
	h.applyAnswer(c, h.repo.UpdateAnswer)
}

func (h *Handler) applyAnswer(c *gin.Context, op func(ctx context.Context, id uuid.UUID, answer string) (*models.Question, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	q, err := op(c.Request.Context(), id, req.Answer)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "question not found")
			return
		}
		response.ServiceUnavailable(c, "failed to save answer, try again")
		return
	}
	response.OK(c, q)
}

// DeleteAnswer handles DELETE /questions/:id/answer (pastor only).
func (h *Handler) DeleteAnswer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	q, err := h.repo.DeleteAnswer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "question not found")
			return
		}
		response.ServiceUnavailable(c, "failed to delete answer, try again")
		return
	}
	response.OK(c, q)
}

// React handles POST /questions/:id/react. Toggles a like/relate for the
// anonymous user identifier.
func (h *Handler) React(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Kind != ReactionLike && req.Kind != ReactionRelate {
		response.BadRequest(c, "kind must be like or relate")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "question not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load question, try again")
		return
	}

	count, added, err := h.repo.ToggleReaction(c.Request.Context(), id, req.UserIdentifier, req.Kind)
	if err != nil {
		response.ServiceUnavailable(c, "failed to record reaction, try again")
		return
	}
	response.OK(c, gin.H{"id": id, "kind": req.Kind, "count": count, "added": added})
}
