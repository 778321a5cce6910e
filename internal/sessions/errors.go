package sessions

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateRegistration is returned when a registration already exists
	// for the same session date and email.
	ErrDuplicateRegistration = errors.New("registration already exists for this session date and email")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrSessionCompleted is returned when starting a session that has already ended.
	ErrSessionCompleted = errors.New("session already completed")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapStoreError converts pgx errors into the package's sentinel errors.
// Unique violations become ErrDuplicateRegistration, foreign key violations
// and missing rows become ErrNotFound. Anything else (connection failures,
// timeouts) passes through for the handler to surface as store unavailable.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateRegistration
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}
