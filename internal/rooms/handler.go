package rooms

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

// CreateRequest is the body for POST /rooms (pastor only).
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// SendMessageRequest is the body for POST /rooms/:id/messages.
type SendMessageRequest struct {
	Text       string `json:"text" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
}

// Handler handles ad-hoc chat room HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a rooms handler.
func NewHandler(repo *Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, hub: hub, logger: logger}
}

// List handles GET /rooms.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.ServiceUnavailable(c, "failed to list rooms, try again")
		return
	}
	response.OK(c, gin.H{"rooms": list})
}

// Create handles POST /rooms (pastor only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	createdBy, _ := c.Get(middleware.ContextName)
	name, _ := createdBy.(string)

	room := &models.ChatRoom{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   name,
	}
	if err := h.repo.Create(c.Request.Context(), room); err != nil {
		h.logger.Error("create room failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to create room, try again")
		return
	}
	response.Created(c, room)
}

// SetActive handles PATCH /rooms/:id/active (pastor only).
func (h *Handler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	room, err := h.repo.SetActive(c.Request.Context(), id, req.IsActive)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		response.ServiceUnavailable(c, "failed to update room, try again")
		return
	}
	response.OK(c, room)
}

// Join handles POST /rooms/:id/join. Rooms are open to anyone; joining only
// bumps the participant counter shown on the room list.
func (h *Handler) Join(c *gin.Context) {
	h.bump(c, 1)
}

// Leave handles POST /rooms/:id/leave.
func (h *Handler) Leave(c *gin.Context) {
	h.bump(c, -1)
}

func (h *Handler) bump(c *gin.Context, delta int) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}
	room, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load room, try again")
		return
	}
	if delta > 0 && !room.IsActive {
		response.BadRequest(c, "this room is closed")
		return
	}
	if err := h.repo.BumpParticipants(c.Request.Context(), id, delta); err != nil {
		response.ServiceUnavailable(c, "failed to update room, try again")
		return
	}
	response.NoContent(c)
}

// Messages handles GET /rooms/:id/messages.
func (h *Handler) Messages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}
	list, err := h.repo.ListMessages(c.Request.Context(), id)
	if err != nil {
		response.ServiceUnavailable(c, "failed to list messages, try again")
		return
	}
	response.OK(c, gin.H{"messages": list})
}

// SendMessage handles POST /rooms/:id/messages. Closed rooms reject new
// messages.
func (h *Handler) SendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	room, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load room, try again")
		return
	}
	if !room.IsActive {
		response.BadRequest(c, "this room is closed")
		return
	}

	m := &models.RoomMessage{
		RoomID:     id,
		Text:       req.Text,
		AuthorName: req.AuthorName,
		IsPastor:   middleware.IsPastor(c),
	}
	if err := h.repo.CreateMessage(c.Request.Context(), m); err != nil {
		h.logger.Error("send room message failed", zap.Error(err), zap.String("room_id", id.String()))
		response.ServiceUnavailable(c, "failed to send message, try again")
		return
	}
	h.hub.PublishToSessionOnly(id, realtime.EventChatMessage, m)
	response.Created(c, m)
}
