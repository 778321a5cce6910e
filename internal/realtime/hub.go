package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// Event names pushed to connected viewers.
const (
	EventChatMessage        = "chat_message"
	EventMessageDeleted     = "message_deleted"
	EventParticipantJoined  = "participant_joined"
	EventParticipantRemoved = "participant_removed"
	EventSessionStarted     = "session_started"
	EventSessionEnded       = "session_ended"
	EventViewerCount        = "viewer_count"
)

// Publisher publishes session events to Redis for cross-instance broadcast.
type Publisher interface {
	PublishSessionEvent(sessionID uuid.UUID, event string, payload []byte) error
}

// Subscriber subscribes to a session's channel and invokes handler for
// incoming events. The returned cancel releases the subscription.
type Subscriber interface {
	SubscribeSession(sessionID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains session_id -> set of connections and fans out messages.
// The Redis subscription for a session is a scoped resource: acquired when
// the first viewer connects, released when the last one leaves. Uses Redis
// pub/sub so multiple server instances see the same events.
type Hub struct {
	sessions map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancel Redis subscription per session
	mu       sync.RWMutex
	logger   *zap.Logger
	pub      Publisher
	sub      Subscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		pub:      pub,
		sub:      sub,
	}
}

// Register adds a client to a session room, starting the Redis subscription
// when it is the first viewer.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.sessions[c.SessionID] == nil {
		h.sessions[c.SessionID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeSession(c.SessionID, func(event string, payload []byte) {
				h.BroadcastToSession(c.SessionID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.SessionID] = cancel
			} else if h.logger != nil {
				h.logger.Warn("session subscribe failed", zap.Error(err), zap.String("session_id", c.SessionID.String()))
			}
		}
	}
	h.sessions[c.SessionID][c.ID] = c
	count := len(h.sessions[c.SessionID])
	h.mu.Unlock()

	h.BroadcastToSessionAndPublish(c.SessionID, EventViewerCount, map[string]int{"count": count})
	if h.logger != nil {
		h.logger.Debug("viewer joined session", zap.String("client_id", c.ID), zap.String("session_id", c.SessionID.String()))
	}
}

// Unregister removes a client from a session room, releasing the Redis
// subscription when the last viewer leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	var count int
	if m, ok := h.sessions[c.SessionID]; ok {
		delete(m, c.ID)
		count = len(m)
		if count == 0 {
			delete(h.sessions, c.SessionID)
			if cancel, ok := h.subs[c.SessionID]; ok {
				cancel()
				delete(h.subs, c.SessionID)
			}
		}
	}
	h.mu.Unlock()

	if count > 0 {
		h.BroadcastToSessionAndPublish(c.SessionID, EventViewerCount, map[string]int{"count": count})
	}
	if h.logger != nil {
		h.logger.Debug("viewer left session", zap.String("client_id", c.ID), zap.String("session_id", c.SessionID.String()))
	}
}

// BroadcastToSession sends a message to all local clients in a session.
func (h *Hub) BroadcastToSession(sessionID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.sessions[sessionID]
	h.mu.RUnlock()

	if clients == nil {
		return
	}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToSessionAndPublish sends to local clients and publishes to Redis
// for other instances.
func (h *Hub) BroadcastToSessionAndPublish(sessionID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToSession(sessionID, event, json.RawMessage(data))
	if h.pub != nil {
		_ = h.pub.PublishSessionEvent(sessionID, event, data)
	}
}

// PublishToSessionOnly publishes to Redis only, so the subscriber callback
// performs the broadcast once for every instance including this one. Used
// for store-backed events (chat messages, deletions, lifecycle changes) to
// avoid duplicate delivery to local clients.
func (h *Hub) PublishToSessionOnly(sessionID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.pub != nil {
		_ = h.pub.PublishSessionEvent(sessionID, event, data)
		return
	}
	h.BroadcastToSession(sessionID, event, json.RawMessage(data))
}

// ViewerCount returns the number of connected clients in a session.
func (h *Hub) ViewerCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Subscribed reports whether a Redis subscription is currently held for the
// session.
func (h *Hub) Subscribed(sessionID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subs[sessionID]
	return ok
}
