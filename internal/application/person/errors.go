package person

import (
	"errors"
	"fmt"

	"github.com/person-service/backend/internal/domain/person"
)

// ParseError is returned when the request body is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON body: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError carries every schema violation found in the payload.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid person data: %d field error(s)", len(e.Errors))
}

// PersistenceError is returned when the record store rejects a write.
// Nothing was created.
type PersistenceError struct {
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist person %s: %v", e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PublishError is returned when the creation event could not be published
// after the record was written.
type PublishError struct {
	ID  string
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish creation event for person %s: %v", e.ID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// CompensationError is returned when the compensating delete fails.
// The record may remain in the store without a creation event.
type CompensationError struct {
	ID  string
	Err error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("failed to delete person %s after publish failure: %v", e.ID, e.Err)
}

func (e *CompensationError) Unwrap() error {
	return e.Err
}

// RecordNotFound reports whether the delete failed because the record was
// already absent. This is not distinguished from other failures.
func (e *CompensationError) RecordNotFound() bool {
	return errors.Is(e.Err, person.ErrRecordNotFound)
}
