package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailSubscriber is an address on the notification list. Unsubscribing
// clears IsActive instead of deleting the row.
type EmailSubscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
