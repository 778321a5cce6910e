package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
)

// Repository handles session and registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a sessions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sessionColumns = `id, session_date, start_time, end_time, is_active, is_completed, max_participants, created_at, updated_at`

func scanSession(row interface{ Scan(dest ...any) error }, s *models.ChatSession) error {
	return row.Scan(&s.ID, &s.SessionDate, &s.StartTime, &s.EndTime, &s.IsActive, &s.IsCompleted, &s.MaxParticipants, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a scheduled session (seeded ahead of time by the pastor).
func (r *Repository) Create(ctx context.Context, s *models.ChatSession) error {
	const q = `INSERT INTO chat_sessions (id, session_date, start_time, end_time, max_participants)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, is_active, is_completed, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, s.SessionDate, s.StartTime, s.EndTime, s.MaxParticipants).
		Scan(&s.ID, &s.IsActive, &s.IsCompleted, &s.CreatedAt, &s.UpdatedAt)
	return MapStoreError(err)
}

// GetByID returns a session by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1`
	var s models.ChatSession
	if err := scanSession(r.pool.QueryRow(ctx, q, id), &s); err != nil {
		return nil, MapStoreError(err)
	}
	return &s, nil
}

// ListUpcoming returns sessions dated today or later, ascending by date.
func (r *Repository) ListUpcoming(ctx context.Context, from time.Time) ([]models.ChatSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM chat_sessions
		WHERE session_date >= $1::date ORDER BY session_date ASC`
	rows, err := r.pool.Query(ctx, q, from)
	if err != nil {
		return nil, MapStoreError(err)
	}
	defer rows.Close()

	var list []models.ChatSession
	for rows.Next() {
		var s models.ChatSession
		if err := scanSession(rows, &s); err != nil {
			return nil, MapStoreError(err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByDate returns the session scheduled for a calendar date.
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*models.ChatSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE session_date = $1::date`
	var s models.ChatSession
	if err := scanSession(r.pool.QueryRow(ctx, q, date), &s); err != nil {
		return nil, MapStoreError(err)
	}
	return &s, nil
}

// Start marks a session active. Starting early or late is allowed; starting a
// completed session is not. The guard is part of the UPDATE so the check and
// the write are a single statement.
func (r *Repository) Start(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	const q = `UPDATE chat_sessions SET is_active = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_completed = FALSE
		RETURNING ` + sessionColumns
	var s models.ChatSession
	err := scanSession(r.pool.QueryRow(ctx, q, id), &s)
	if err == nil {
		return &s, nil
	}
	if MapStoreError(err) != ErrNotFound {
		return nil, MapStoreError(err)
	}
	// No row updated: distinguish missing from completed.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrSessionCompleted
}

// End closes a session: is_active false, is_completed true. Irreversible and
// idempotent in effect; ending an already-completed session leaves it in the
// same terminal state.
func (r *Repository) End(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	const q = `UPDATE chat_sessions SET is_active = FALSE, is_completed = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns
	var s models.ChatSession
	if err := scanSession(r.pool.QueryRow(ctx, q, id), &s); err != nil {
		return nil, MapStoreError(err)
	}
	return &s, nil
}

// CountActive returns the number of active sessions other than the given one.
// Used to log the "two sessions live at once" gap rather than enforce it.
func (r *Repository) CountActive(ctx context.Context, except uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM chat_sessions WHERE is_active = TRUE AND is_completed = FALSE AND id <> $1`
	var n int
	if err := r.pool.QueryRow(ctx, q, except).Scan(&n); err != nil {
		return 0, MapStoreError(err)
	}
	return n, nil
}

// CreateRegistration inserts a registration. The partial unique index on
// (session_date, email) rejects duplicates; the violation maps to
// ErrDuplicateRegistration.
func (r *Repository) CreateRegistration(ctx context.Context, reg *models.ChatRegistration) error {
	const q = `INSERT INTO chat_registrations (id, session_date, user_name, email, phone)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, reg.SessionDate, reg.UserName, reg.Email, reg.Phone).
		Scan(&reg.ID, &reg.CreatedAt)
	return MapStoreError(err)
}

// GetRegistrationByID returns a registration by ID.
func (r *Repository) GetRegistrationByID(ctx context.Context, id uuid.UUID) (*models.ChatRegistration, error) {
	const q = `SELECT id, session_date, user_name, email, phone, created_at
		FROM chat_registrations WHERE id = $1`
	var reg models.ChatRegistration
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&reg.ID, &reg.SessionDate, &reg.UserName, &reg.Email, &reg.Phone, &reg.CreatedAt)
	if err != nil {
		return nil, MapStoreError(err)
	}
	return &reg, nil
}

// ListRegistrationsByDate returns registrations for a session date, newest first.
func (r *Repository) ListRegistrationsByDate(ctx context.Context, date time.Time) ([]models.ChatRegistration, error) {
	const q = `SELECT id, session_date, user_name, email, phone, created_at
		FROM chat_registrations WHERE session_date = $1::date ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, date)
	if err != nil {
		return nil, MapStoreError(err)
	}
	defer rows.Close()

	var list []models.ChatRegistration
	for rows.Next() {
		var reg models.ChatRegistration
		if err := rows.Scan(&reg.ID, &reg.SessionDate, &reg.UserName, &reg.Email, &reg.Phone, &reg.CreatedAt); err != nil {
			return nil, MapStoreError(err)
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

// CountRegistrationsByDate returns the headcount for a session date.
func (r *Repository) CountRegistrationsByDate(ctx context.Context, date time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM chat_registrations WHERE session_date = $1::date`
	var n int
	if err := r.pool.QueryRow(ctx, q, date).Scan(&n); err != nil {
		return 0, MapStoreError(err)
	}
	return n, nil
}
