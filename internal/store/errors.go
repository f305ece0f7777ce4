package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrCounterMissing is returned when a counter row vanishes between the
// insert-or-ignore and the read. Rows are never deleted by this package.
var ErrCounterMissing = errors.New("counter row missing")

// ContentionError is returned when an Allocator loses every
// compare-and-swap in its retry budget.
type ContentionError struct {
	Key      string
	Attempts int
}

// Error implements the error interface.
func (e *ContentionError) Error() string {
	return fmt.Sprintf("sql allocation contention on %q: retry budget exhausted after %d attempts", e.Key, e.Attempts)
}

// IsContentionError checks if an error is a *ContentionError.
func IsContentionError(err error) bool {
	var ce *ContentionError
	return errors.As(err, &ce)
}

// Postgres SQLSTATEs worth another attempt.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// IsTransient reports whether err is a storage error that a fresh attempt
// can succeed past: SQLite busy/locked, or a Postgres serialization
// failure, deadlock or lock timeout.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
	}
	return false
}
