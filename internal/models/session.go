package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is one scheduled occurrence of the recurring live chat event.
//
// IsActive records moderator intent (room opened), IsCompleted marks the
// terminal state. Whether the session is shown as live additionally depends
// on the [StartTime, EndTime] window; see sessions.IsLive.
type ChatSession struct {
	ID              uuid.UUID `json:"id"`
	SessionDate     time.Time `json:"session_date"` // calendar date of the occurrence
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	IsActive        bool      `json:"is_active"`
	IsCompleted     bool      `json:"is_completed"`
	MaxParticipants int       `json:"max_participants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ChatRegistration is a visitor's advance signup for a session date.
// Email is unique per session date.
type ChatRegistration struct {
	ID          uuid.UUID `json:"id"`
	SessionDate time.Time `json:"session_date"`
	UserName    string    `json:"user_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatParticipant is a registrant who has actually joined the live room.
// Removal is a soft delete; removed participants are excluded from listings
// but retained for audit.
type ChatParticipant struct {
	ID             uuid.UUID `json:"id"`
	SessionID      uuid.UUID `json:"session_id"`
	RegistrationID uuid.UUID `json:"registration_id"`
	UserName       string    `json:"user_name"`
	JoinedAt       time.Time `json:"joined_at"`
	IsRemoved      bool      `json:"is_removed"`
}

// ChatMessage is a chat line posted inside a live session. Ordering is by
// CreatedAt ascending; deletion is soft.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	IsPastor   bool      `json:"is_pastor"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
}
