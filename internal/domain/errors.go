package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound      = errors.New("not found")
	ErrMissingDSN    = errors.New("database url is not configured")
	ErrDuplicateSlug = errors.New("slug already in use")

	ErrDuplicateBooking = errors.New("email already booked for this event")
	ErrEventReference   = errors.New("referenced event does not exist")
)

// ConnectionError reports that the backing store is unreachable or misconfigured.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Retryable is false when the store is misconfigured and retrying cannot help.
func (e *ConnectionError) Retryable() bool {
	return !errors.Is(e.Err, ErrMissingDSN)
}

// FieldValidationError carries every constraint a record violates.
// Summary, when set, replaces the generic message shown to API clients.
type FieldValidationError struct {
	Entity     string
	Summary    string
	Violations []string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(e.Violations, "; "))
}

// NewFieldValidationError returns nil when there are no violations.
func NewFieldValidationError(entity string, violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &FieldValidationError{Entity: entity, Violations: violations}
}

// ReferentialIntegrityError reports a reference to a record that does not exist.
type ReferentialIntegrityError struct {
	Entity string
	Field  string
	ID     string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s with ID %s does not exist", e.Entity, e.ID)
}

// ConflictError reports a violated uniqueness expectation.
type ConflictError struct {
	Entity  string
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error { return e.Err }
