package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrSlotConflict is returned when a requested interval overlaps an
	// existing booking in the same room.
	ErrSlotConflict = errors.New("application: time slot conflicts with an existing booking")
	// ErrStorageUnavailable is returned when a storage call failed or timed
	// out. The operation had no effect and is safe to retry.
	ErrStorageUnavailable = errors.New("application: storage unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error. The first message for a field
// wins; later rules for the same field do not overwrite it.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, ok := v.FieldErrors[field]; ok {
		return
	}
	v.FieldErrors[field] = message
}
