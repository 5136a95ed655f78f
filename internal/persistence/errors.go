package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint rejects a record.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConflict is returned when an insert would overlap an existing booking.
	ErrConflict = errors.New("persistence: conflicting booking")
	// ErrConstraintViolation is returned when a check constraint rejects a record.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrUnavailable is returned when the store is locked, busy, or timed out.
	// Callers may retry; the record state is unchanged.
	ErrUnavailable = errors.New("persistence: storage unavailable")
)
