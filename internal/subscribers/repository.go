package subscribers

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
)

// Repository handles email subscriber persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a subscribers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Subscribe inserts a subscriber. Re-subscribing a previously unsubscribed
// address reactivates it; an already-active address is a duplicate.
func (r *Repository) Subscribe(ctx context.Context, email string) (*models.EmailSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `INSERT INTO email_subscribers (id, email, is_active)
		VALUES (gen_random_uuid(), $1, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_active = TRUE
		WHERE email_subscribers.is_active = FALSE
		RETURNING id, email, is_active, created_at`
	var s models.EmailSubscriber
	err := r.pool.QueryRow(ctx, q, email).Scan(&s.ID, &s.Email, &s.IsActive, &s.CreatedAt)
	if err != nil {
		// No row returned means the address is already active.
		mapped := sessions.MapStoreError(err)
		if errors.Is(mapped, sessions.ErrNotFound) {
			return nil, sessions.ErrDuplicateRegistration
		}
		return nil, mapped
	}
	return &s, nil
}

// Unsubscribe soft-removes a subscriber by clearing is_active.
func (r *Repository) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `UPDATE email_subscribers SET is_active = FALSE WHERE email = $1 AND is_active = TRUE`
	tag, err := r.pool.Exec(ctx, q, email)
	if err != nil {
		return sessions.MapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return sessions.ErrNotFound
	}
	return nil
}

// ListActive returns the addresses that should receive notifications.
func (r *Repository) ListActive(ctx context.Context) ([]models.EmailSubscriber, error) {
	const q = `SELECT id, email, is_active, created_at FROM email_subscribers
		WHERE is_active = TRUE ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.EmailSubscriber
	for rows.Next() {
		var s models.EmailSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
