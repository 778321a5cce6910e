package testimonies

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
)

// Repository handles testimony persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a testimonies repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const testimonyColumns = `id, author_name, age, title, content, is_anonymous, is_approved, is_featured, created_at, updated_at`

func scanTestimony(row interface{ Scan(dest ...any) error }, t *models.Testimony) error {
	return row.Scan(&t.ID, &t.AuthorName, &t.Age, &t.Title, &t.Content, &t.IsAnonymous, &t.IsApproved, &t.IsFeatured, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a testimony awaiting approval.
func (r *Repository) Create(ctx context.Context, t *models.Testimony) error {
	const q = `INSERT INTO testimonies (id, author_name, age, title, content, is_anonymous)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, is_approved, is_featured, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, t.AuthorName, t.Age, t.Title, t.Content, t.IsAnonymous).
		Scan(&t.ID, &t.IsApproved, &t.IsFeatured, &t.CreatedAt, &t.UpdatedAt)
	return sessions.MapStoreError(err)
}

// GetByID returns a testimony by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Testimony, error) {
	const q = `SELECT ` + testimonyColumns + ` FROM testimonies WHERE id = $1`
	var t models.Testimony
	if err := scanTestimony(r.pool.QueryRow(ctx, q, id), &t); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &t, nil
}

// List returns testimonies newest first. When approvedOnly is set, pending
// submissions are excluded.
func (r *Repository) List(ctx context.Context, approvedOnly bool) ([]models.Testimony, error) {
	q := `SELECT ` + testimonyColumns + ` FROM testimonies`
	if approvedOnly {
		q += ` WHERE is_approved = TRUE`
	}
	q += ` ORDER BY is_featured DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.Testimony
	for rows.Next() {
		var t models.Testimony
		if err := scanTestimony(rows, &t); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SetApproved flips the approval flag.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.Testimony, error) {
	const q = `UPDATE testimonies SET is_approved = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + testimonyColumns
	var t models.Testimony
	if err := scanTestimony(r.pool.QueryRow(ctx, q, id, approved), &t); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &t, nil
}

// SetFeatured flips the featured flag. Only approved testimonies can be
// featured.
func (r *Repository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Testimony, error) {
	const q = `UPDATE testimonies SET is_featured = $2, updated_at = NOW()
		WHERE id = $1 AND is_approved = TRUE
		RETURNING ` + testimonyColumns
	var t models.Testimony
	if err := scanTestimony(r.pool.QueryRow(ctx, q, id, featured), &t); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &t, nil
}

// Delete removes a testimony permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonies WHERE id = $1`, id)
	if err != nil {
		return sessions.MapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return sessions.ErrNotFound
	}
	return nil
}
