package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is a pastor-authored article. Unpublished posts are drafts visible
// only through the pastor endpoints.
type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   *string   `json:"excerpt,omitempty"`
	Author    string    `json:"author"`
	CoverURL  *string   `json:"cover_url,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Novel is a serialized story released chapter by chapter.
type Novel struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NovelChapter is one installment of a novel, ordered by ChapterNumber.
type NovelChapter struct {
	ID            uuid.UUID `json:"id"`
	NovelID       uuid.UUID `json:"novel_id"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
