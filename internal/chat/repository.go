package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
)

// Repository handles participant and message persistence for live sessions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a chat repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Join records a participant joining a session. Foreign keys ensure the
// session and registration exist; eligibility beyond that is the caller's
// responsibility.
func (r *Repository) Join(ctx context.Context, p *models.ChatParticipant) error {
	const q = `INSERT INTO chat_participants (id, session_id, registration_id, user_name)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, joined_at, is_removed`
	err := r.pool.QueryRow(ctx, q, p.SessionID, p.RegistrationID, p.UserName).
		Scan(&p.ID, &p.JoinedAt, &p.IsRemoved)
	return sessions.MapStoreError(err)
}

// ListParticipants returns non-removed participants of a session, oldest first.
func (r *Repository) ListParticipants(ctx context.Context, sessionID uuid.UUID) ([]models.ChatParticipant, error) {
	const q = `SELECT id, session_id, registration_id, user_name, joined_at, is_removed
		FROM chat_participants WHERE session_id = $1 AND is_removed = FALSE ORDER BY joined_at ASC`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.ChatParticipant
	for rows.Next() {
		var p models.ChatParticipant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.RegistrationID, &p.UserName, &p.JoinedAt, &p.IsRemoved); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetParticipantByID returns a participant by ID, removed or not.
func (r *Repository) GetParticipantByID(ctx context.Context, id uuid.UUID) (*models.ChatParticipant, error) {
	const q = `SELECT id, session_id, registration_id, user_name, joined_at, is_removed
		FROM chat_participants WHERE id = $1`
	var p models.ChatParticipant
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.SessionID, &p.RegistrationID, &p.UserName, &p.JoinedAt, &p.IsRemoved)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &p, nil
}

// RemoveParticipant soft-removes a participant. The row stays for audit; the
// participant's earlier messages are untouched.
func (r *Repository) RemoveParticipant(ctx context.Context, id uuid.UUID) (*models.ChatParticipant, error) {
	const q = `UPDATE chat_participants SET is_removed = TRUE WHERE id = $1
		RETURNING id, session_id, registration_id, user_name, joined_at, is_removed`
	var p models.ChatParticipant
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.SessionID, &p.RegistrationID, &p.UserName, &p.JoinedAt, &p.IsRemoved)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &p, nil
}

// CreateMessage appends a chat message with a store-assigned timestamp.
func (r *Repository) CreateMessage(ctx context.Context, m *models.ChatMessage) error {
	const q = `INSERT INTO chat_messages (id, session_id, text, author_name, is_pastor)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, is_deleted, created_at`
	err := r.pool.QueryRow(ctx, q, m.SessionID, m.Text, m.AuthorName, m.IsPastor).
		Scan(&m.ID, &m.IsDeleted, &m.CreatedAt)
	return sessions.MapStoreError(err)
}

// ListMessages returns non-deleted messages of a session ordered by creation
// time ascending. The store's ordering is authoritative; push delivery order
// is not.
func (r *Repository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	const q = `SELECT id, session_id, text, author_name, is_pastor, is_deleted, created_at
		FROM chat_messages WHERE session_id = $1 AND is_deleted = FALSE ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Text, &m.AuthorName, &m.IsPastor, &m.IsDeleted, &m.CreatedAt); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetMessageByID returns a message by ID, deleted or not.
func (r *Repository) GetMessageByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	const q = `SELECT id, session_id, text, author_name, is_pastor, is_deleted, created_at
		FROM chat_messages WHERE id = $1`
	var m models.ChatMessage
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&m.ID, &m.SessionID, &m.Text, &m.AuthorName, &m.IsPastor, &m.IsDeleted, &m.CreatedAt)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &m, nil
}

// DeleteMessage soft-deletes a message.
func (r *Repository) DeleteMessage(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	const q = `UPDATE chat_messages SET is_deleted = TRUE WHERE id = $1
		RETURNING id, session_id, text, author_name, is_pastor, is_deleted, created_at`
	var m models.ChatMessage
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&m.ID, &m.SessionID, &m.Text, &m.AuthorName, &m.IsPastor, &m.IsDeleted, &m.CreatedAt)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &m, nil
}
