package models

import (
	"time"

	"github.com/google/uuid"
)

// Testimony is a visitor-submitted story that becomes public once the pastor
// approves it. Featured testimonies are surfaced on the home page.
type Testimony struct {
	ID          uuid.UUID `json:"id"`
	AuthorName  string    `json:"author_name"`
	Age         *int      `json:"age,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"is_anonymous"`
	IsApproved  bool      `json:"is_approved"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
