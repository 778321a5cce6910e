package chat

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/middleware"
	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/realtime"
	"github.com/anchor-ministry/backend/internal/sessions"
	"github.com/anchor-ministry/backend/pkg/response"
)

// JoinRequest is the body for POST /sessions/:id/join.
type JoinRequest struct {
	RegistrationID string `json:"registration_id" binding:"required"`
	UserName       string `json:"user_name" binding:"required"`
}

// SendMessageRequest is the body for POST /sessions/:id/messages.
type SendMessageRequest struct {
	Text       string `json:"text" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
}

// Handler handles live chat HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a chat handler.
func NewHandler(repo *Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, hub: hub, logger: logger}
}

// Join handles POST /sessions/:id/join. A registration id authorizes the
// join; whether the session is currently live is the UI's decision, the
// coordinator only records it.
func (h *Handler) Join(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	registrationID, err := uuid.Parse(req.RegistrationID)
	if err != nil {
		response.BadRequest(c, "invalid registration_id")
		return
	}

	p := &models.ChatParticipant{
		SessionID:      sessionID,
		RegistrationID: registrationID,
		UserName:       req.UserName,
	}
	if err := h.repo.Join(c.Request.Context(), p); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "session or registration not found")
			return
		}
		h.logger.Error("join session failed", zap.Error(err), zap.String("session_id", sessionID.String()))
		response.ServiceUnavailable(c, "failed to join session, try again")
		return
	}
	h.hub.PublishToSessionOnly(sessionID, realtime.EventParticipantJoined, p)
	response.Created(c, p)
}

// Participants handles GET /sessions/:id/participants. Removed participants
// are excluded.
func (h *Handler) Participants(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	list, err := h.repo.ListParticipants(c.Request.Context(), sessionID)
	if err != nil {
		response.ServiceUnavailable(c, "failed to list participants, try again")
		return
	}
	response.OK(c, gin.H{"participants": list})
}

// Messages handles GET /sessions/:id/messages. Deleted messages are excluded;
// ordering is by creation time.
func (h *Handler) Messages(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	list, err := h.repo.ListMessages(c.Request.Context(), sessionID)
	if err != nil {
		response.ServiceUnavailable(c, "failed to list messages, try again")
		return
	}
	response.OK(c, gin.H{"messages": list})
}

// SendMessage handles POST /sessions/:id/messages. The pastor flag comes from
// a validated token, never from the request body.
func (h *Handler) SendMessage(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	m := &models.ChatMessage{
		SessionID:  sessionID,
		Text:       req.Text,
		AuthorName: req.AuthorName,
		IsPastor:   middleware.IsPastor(c),
	}
	if err := h.repo.CreateMessage(c.Request.Context(), m); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.logger.Error("send message failed", zap.Error(err), zap.String("session_id", sessionID.String()))
		response.ServiceUnavailable(c, "failed to send message, try again")
		return
	}
	h.hub.PublishToSessionOnly(sessionID, realtime.EventChatMessage, m)
	response.Created(c, m)
}

// DeleteMessage handles DELETE /messages/:id (pastor only). Soft delete; the
// record remains retrievable by id.
func (h *Handler) DeleteMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}
	m, err := h.repo.DeleteMessage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		response.ServiceUnavailable(c, "failed to delete message, try again")
		return
	}
	h.hub.PublishToSessionOnly(m.SessionID, realtime.EventMessageDeleted, m)
	response.OK(c, m)
}

// RemoveParticipant handles DELETE /participants/:id (pastor only). Soft
// removal; prior messages stay visible unless deleted separately.
func (h *Handler) RemoveParticipant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid participant id")
		return
	}
	p, err := h.repo.RemoveParticipant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "participant not found")
			return
		}
		response.ServiceUnavailable(c, "failed to remove participant, try again")
		return
	}
	h.hub.PublishToSessionOnly(p.SessionID, realtime.EventParticipantRemoved, p)
	response.OK(c, p)
}
