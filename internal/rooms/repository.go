package rooms

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
)

// Repository handles ad-hoc chat room persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a rooms repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a chat room.
func (r *Repository) Create(ctx context.Context, room *models.ChatRoom) error {
	const q = `INSERT INTO chat_rooms (id, title, description, is_active, created_by)
		VALUES (gen_random_uuid(), $1, $2, TRUE, $3)
		RETURNING id, is_active, participants, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, room.Title, room.Description, room.CreatedBy).
		Scan(&room.ID, &room.IsActive, &room.Participants, &room.CreatedAt, &room.UpdatedAt)
	return sessions.MapStoreError(err)
}

// List returns all rooms, newest first.
func (r *Repository) List(ctx context.Context) ([]models.ChatRoom, error) {
	const q = `SELECT id, title, description, is_active, participants, created_by, created_at, updated_at
		FROM chat_rooms ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.ChatRoom
	for rows.Next() {
		var room models.ChatRoom
		if err := rows.Scan(&room.ID, &room.Title, &room.Description, &room.IsActive, &room.Participants, &room.CreatedBy, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, room)
	}
	return list, rows.Err()
}

// GetByID returns a room by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error) {
	const q = `SELECT id, title, description, is_active, participants, created_by, created_at, updated_at
		FROM chat_rooms WHERE id = $1`
	var room models.ChatRoom
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&room.ID, &room.Title, &room.Description, &room.IsActive, &room.Participants, &room.CreatedBy, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &room, nil
}

// SetActive toggles whether a room accepts new messages.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.ChatRoom, error) {
	const q = `UPDATE chat_rooms SET is_active = $2, updated_at = NOW() WHERE id = $1
		RETURNING id, title, description, is_active, participants, created_by, created_at, updated_at`
	var room models.ChatRoom
	err := r.pool.QueryRow(ctx, q, id, active).
		Scan(&room.ID, &room.Title, &room.Description, &room.IsActive, &room.Participants, &room.CreatedBy, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &room, nil
}

// BumpParticipants adjusts the room's participant counter by delta, floored
// at zero.
func (r *Repository) BumpParticipants(ctx context.Context, id uuid.UUID, delta int) error {
	const q = `UPDATE chat_rooms SET participants = GREATEST(participants + $2, 0), updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, delta)
	return sessions.MapStoreError(err)
}

// CreateMessage appends a message to a room.
func (r *Repository) CreateMessage(ctx context.Context, m *models.RoomMessage) error {
	const q = `INSERT INTO room_messages (id, room_id, text, author_name, is_pastor)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, m.RoomID, m.Text, m.AuthorName, m.IsPastor).
		Scan(&m.ID, &m.CreatedAt)
	return sessions.MapStoreError(err)
}

// ListMessages returns a room's messages ordered by creation time.
func (r *Repository) ListMessages(ctx context.Context, roomID uuid.UUID) ([]models.RoomMessage, error) {
	const q = `SELECT id, room_id, text, author_name, is_pastor, created_at
		FROM room_messages WHERE room_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.RoomMessage
	for rows.Next() {
		var m models.RoomMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Text, &m.AuthorName, &m.IsPastor, &m.CreatedAt); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
