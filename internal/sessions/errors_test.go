package sessions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapStoreError(t *testing.T) {
	connRefused := errors.New("connection refused")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicateRegistration},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, ErrNotFound},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, nil},
		{"connection failure passes through", connRefused, connRefused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapStoreError(tt.in)
			switch tt.name {
			case "other pg error":
				// Unmapped pg errors pass through unchanged.
				if !errors.Is(got, tt.in) {
					t.Errorf("MapStoreError() = %v, want the original error", got)
				}
			default:
				if !errors.Is(got, tt.want) && got != tt.want {
					t.Errorf("MapStoreError() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMapStoreErrorKeepsSentinelsDistinct(t *testing.T) {
	if errors.Is(ErrDuplicateRegistration, ErrNotFound) {
		t.Error("sentinels must be distinct")
	}
	if errors.Is(ErrSessionCompleted, ErrNotFound) {
		t.Error("sentinels must be distinct")
	}
}
