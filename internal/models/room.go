package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom is an always-on, pastor-created chat room (distinct from the
// scheduled weekly sessions).
type ChatRoom struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"is_active"`
	Participants int       `json:"participants"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoomMessage is a chat line posted inside an ad-hoc room.
type RoomMessage struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	IsPastor   bool      `json:"is_pastor"`
	CreatedAt  time.Time `json:"created_at"`
}
