package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a visitor-submitted question, optionally anonymous, that the
// pastor can answer. Likes and relates are reaction counters backed by
// per-visitor reaction rows.
type Question struct {
	ID              uuid.UUID  `json:"id"`
	Text            string     `json:"text"`
	AuthorName      string     `json:"author_name"`
	IsAnonymous     bool       `json:"is_anonymous"`
	Category        string     `json:"category"`
	Subcategory     *string    `json:"subcategory,omitempty"`
	Likes           int        `json:"likes"`
	Relates         int        `json:"relates"`
	Answered        bool       `json:"answered"`
	Answer          *string    `json:"answer,omitempty"`
	AnswerTimestamp *time.Time `json:"answer_timestamp,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// QuestionReaction records one visitor reaction (like or relate) on a question.
// UserIdentifier is an anonymous browser-scoped id; one reaction of each kind
// per identifier per question.
type QuestionReaction struct {
	ID             uuid.UUID `json:"id"`
	QuestionID     uuid.UUID `json:"question_id"`
	UserIdentifier string    `json:"user_identifier"`
	Kind           string    `json:"kind"` // "like" or "relate"
	CreatedAt      time.Time `json:"created_at"`
}
