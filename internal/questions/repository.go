package questions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
)

// Reaction kinds.
const (
	ReactionLike   = "like"
	ReactionRelate = "relate"
)

// Repository handles question persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a questions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const questionColumns = `id, text, author_name, is_anonymous, category, subcategory,
	likes, relates, answered, answer, answer_timestamp, created_at, updated_at`

func scanQuestion(row interface{ Scan(dest ...any) error }, q *models.Question) error {
	return row.Scan(&q.ID, &q.Text, &q.AuthorName, &q.IsAnonymous, &q.Category, &q.Subcategory,
		&q.Likes, &q.Relates, &q.Answered, &q.Answer, &q.AnswerTimestamp, &q.CreatedAt, &q.UpdatedAt)
}

// Create inserts a new question.
func (r *Repository) Create(ctx context.Context, q *models.Question) error {
	const query = `INSERT INTO questions (id, text, author_name, is_anonymous, category, subcategory)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, likes, relates, answered, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, q.Text, q.AuthorName, q.IsAnonymous, q.Category, q.Subcategory).
		Scan(&q.ID, &q.Likes, &q.Relates, &q.Answered, &q.CreatedAt, &q.UpdatedAt)
	return sessions.MapStoreError(err)
}

// GetByID returns a question by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	var q models.Question
	if err := scanQuestion(r.pool.QueryRow(ctx, query, id), &q); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &q, nil
}

// List returns all questions, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY created_at DESC`)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.Question
	for rows.Next() {
		var q models.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Answer marks a question answered with the pastor's reply.
func (r *Repository) Answer(ctx context.Context, id uuid.UUID, answer string) (*models.Question, error) {
	const query = `UPDATE questions
		SET answered = TRUE, answer = $2, answer_timestamp = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + questionColumns
	var q models.Question
	if err := scanQuestion(r.pool.QueryRow(ctx, query, id, answer), &q); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &q, nil
}

// UpdateAnswer replaces the answer text without touching answer_timestamp.
func (r *Repository) UpdateAnswer(ctx context.Context, id uuid.UUID, answer string) (*models.Question, error) {
	const query = `UPDATE questions SET answer = $2, updated_at = NOW()
		WHERE id = $1 AND answered = TRUE
		RETURNING ` + questionColumns
	var q models.Question
	if err := scanQuestion(r.pool.QueryRow(ctx, query, id, answer), &q); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &q, nil
}

// DeleteAnswer retracts the answer, returning the question to unanswered.
func (r *Repository) DeleteAnswer(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	const query = `UPDATE questions
		SET answered = FALSE, answer = NULL, answer_timestamp = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + questionColumns
	var q models.Question
	if err := scanQuestion(r.pool.QueryRow(ctx, query, id), &q); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &q, nil
}

// ToggleReaction adds or removes a reaction for the user identifier and
// returns the updated counter. One reaction of each kind per identifier per
// question; a second toggle undoes the first.
func (r *Repository) ToggleReaction(ctx context.Context, questionID uuid.UUID, userIdentifier, kind string) (count int, added bool, err error) {
	if kind != ReactionLike && kind != ReactionRelate {
		return 0, false, fmt.Errorf("unknown reaction kind: %s", kind)
	}

	const insert = `INSERT INTO question_reactions (id, question_id, user_identifier, kind)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (question_id, user_identifier, kind) DO NOTHING`
	tag, err := r.pool.Exec(ctx, insert, questionID, userIdentifier, kind)
	if err != nil {
		return 0, false, sessions.MapStoreError(err)
	}
	added = tag.RowsAffected() > 0
	if !added {
		const del = `DELETE FROM question_reactions WHERE question_id = $1 AND user_identifier = $2 AND kind = $3`
		if _, err := r.pool.Exec(ctx, del, questionID, userIdentifier, kind); err != nil {
			return 0, false, sessions.MapStoreError(err)
		}
	}

	// Counter columns track the reaction rows; recompute from the source of truth.
	query := fmt.Sprintf(`UPDATE questions
		SET %[1]ss = (SELECT COUNT(*) FROM question_reactions WHERE question_id = $1 AND kind = '%[1]s')
		WHERE id = $1
		RETURNING %[1]ss`, kind)
	if err := r.pool.QueryRow(ctx, query, questionID).Scan(&count); err != nil {
		return 0, false, sessions.MapStoreError(err)
	}
	return count, added, nil
}
