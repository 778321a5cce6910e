package sessions

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/realtime"
	"github.com/anchor-ministry/backend/pkg/queue"
	"github.com/anchor-ministry/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// CreateRequest is the body for POST /sessions (pastor schedules an occurrence).
type CreateRequest struct {
	SessionDate     string    `json:"session_date" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time" binding:"required"`
	MaxParticipants int       `json:"max_participants"`
}

// RegisterRequest is the body for POST /sessions/register.
type RegisterRequest struct {
	SessionDate string  `json:"session_date" binding:"required"`
	UserName    string  `json:"user_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       *string `json:"phone,omitempty"`
}

// Handler handles session lifecycle HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	jobs   *queue.Queue
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a sessions handler.
func NewHandler(repo *Repository, hub *realtime.Hub, jobs *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, hub: hub, jobs: jobs, logger: logger, now: time.Now}
}

// List handles GET /sessions. Returns upcoming sessions with the computed
// next session, its countdown, and the live flag for each.
func (h *Handler) List(c *gin.Context) {
	now := h.now()
	list, err := h.repo.ListUpcoming(c.Request.Context(), now)
	if err != nil {
		response.ServiceUnavailable(c, "failed to load sessions, try again")
		return
	}

	type sessionView struct {
		models.ChatSession
		IsLive bool `json:"is_live"`
	}
	views := make([]sessionView, 0, len(list))
	for _, s := range list {
		views = append(views, sessionView{ChatSession: s, IsLive: IsLive(&s, now)})
	}

	out := gin.H{"sessions": views}
	if next := NextSession(list, now); next != nil {
		out["next_session"] = next
		if cd := TimeUntil(next, now); cd != nil {
			out["countdown"] = cd.String()
		}
	}
	if current := CurrentSession(list); current != nil && IsLive(current, now) {
		out["live_session"] = current
	}
	response.OK(c, out)
}

// Create handles POST /sessions (pastor only). Schedules a future occurrence.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.SessionDate)
	if err != nil {
		response.BadRequest(c, "invalid session_date, expected YYYY-MM-DD")
		return
	}
	if !req.StartTime.Before(req.EndTime) {
		response.BadRequest(c, "start_time must be before end_time")
		return
	}
	s := &models.ChatSession{
		SessionDate:     date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		if errors.Is(err, ErrDuplicateRegistration) {
			response.Conflict(c, "a session is already scheduled for this date")
			return
		}
		h.logger.Error("create session failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to create session, try again")
		return
	}
	response.Created(c, s)
}

// Register handles POST /sessions/register. A visitor signs up for a session
// date; duplicate (date, email) pairs are rejected.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.SessionDate)
	if err != nil {
		response.BadRequest(c, "invalid session_date, expected YYYY-MM-DD")
		return
	}

	s, err := h.repo.GetByDate(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "no session scheduled for this date")
			return
		}
		response.ServiceUnavailable(c, "failed to load session, try again")
		return
	}
	if s.IsCompleted {
		response.BadRequest(c, "this session has already ended")
		return
	}

	reg := &models.ChatRegistration{
		SessionDate: date,
		UserName:    req.UserName,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if err := h.repo.CreateRegistration(c.Request.Context(), reg); err != nil {
		if errors.Is(err, ErrDuplicateRegistration) {
			response.Conflict(c, "you are already registered for this session")
			return
		}
		h.logger.Error("create registration failed", zap.Error(err), zap.String("session_date", req.SessionDate))
		response.ServiceUnavailable(c, "failed to register, try again")
		return
	}
	response.Created(c, reg)
}

// Registrations handles GET /sessions/registrations?date=YYYY-MM-DD (pastor only).
func (h *Handler) Registrations(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		response.BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}
	list, err := h.repo.ListRegistrationsByDate(c.Request.Context(), date)
	if err != nil {
		response.ServiceUnavailable(c, "failed to list registrations, try again")
		return
	}
	response.OK(c, gin.H{"registrations": list, "count": len(list)})
}

// Start handles POST /sessions/:id/start (pastor only). Opening the room is
// allowed before or after the scheduled window; reopening a completed session
// is not.
func (h *Handler) Start(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	s, err := h.repo.Start(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "session not found")
		case errors.Is(err, ErrSessionCompleted):
			response.Conflict(c, "session already completed")
		default:
			h.logger.Error("start session failed", zap.Error(err), zap.String("session_id", id.String()))
			response.ServiceUnavailable(c, "failed to start session, try again")
		}
		return
	}

	if n, cntErr := h.repo.CountActive(c.Request.Context(), id); cntErr == nil && n > 0 {
		h.logger.Warn("another session is already active", zap.Int("other_active", n), zap.String("session_id", id.String()))
	}

	h.hub.PublishToSessionOnly(s.ID, realtime.EventSessionStarted, s)
	if h.jobs != nil {
		if err := h.jobs.EnqueueSessionStarted(c.Request.Context(), queue.SessionPayload{
			SessionID:   s.ID,
			SessionDate: s.SessionDate.Format(dateLayout),
			StartTime:   s.StartTime,
		}); err != nil {
			h.logger.Warn("enqueue session notification failed", zap.Error(err))
		}
	}
	response.OK(c, s)
}

// Remind handles POST /sessions/:id/remind (pastor only). Queues an
// upcoming-session email to the subscriber list.
func (h *Handler) Remind(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load session, try again")
		return
	}
	if s.IsCompleted {
		response.Conflict(c, "session already completed")
		return
	}
	if h.jobs == nil {
		response.ServiceUnavailable(c, "notifications are not configured")
		return
	}
	if err := h.jobs.EnqueueSessionReminder(c.Request.Context(), queue.SessionPayload{
		SessionID:   s.ID,
		SessionDate: s.SessionDate.Format(dateLayout),
		StartTime:   s.StartTime,
	}); err != nil {
		h.logger.Error("enqueue reminder failed", zap.Error(err), zap.String("session_id", id.String()))
		response.ServiceUnavailable(c, "failed to queue reminder, try again")
		return
	}
	response.OK(c, gin.H{"queued": true, "session_id": s.ID})
}

// End handles POST /sessions/:id/end (pastor only). Irreversible; calling it
// again on a completed session leaves the state unchanged.
func (h *Handler) End(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	s, err := h.repo.End(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.logger.Error("end session failed", zap.Error(err), zap.String("session_id", id.String()))
		response.ServiceUnavailable(c, "failed to end session, try again")
		return
	}
	h.hub.PublishToSessionOnly(s.ID, realtime.EventSessionEnded, s)
	response.OK(c, s)
}
