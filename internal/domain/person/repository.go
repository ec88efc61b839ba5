package person

import (
	"context"

	"github.com/person-service/backend/internal/domain/shared"
)

// ErrRecordNotFound is returned when a record does not exist.
// DeleteIfExists returns it (possibly wrapped) when there was nothing to delete.
var ErrRecordNotFound = shared.NewDomainError("PERSON_NOT_FOUND", "person record not found")

// RecordStore is durable key-value persistence for person records
type RecordStore interface {
	// Put writes rec unconditionally
	Put(ctx context.Context, rec Record) error
	// DeleteIfExists deletes the record with id only if it currently exists
	DeleteIfExists(ctx context.Context, id string) error
	// FindByID loads the record with id
	FindByID(ctx context.Context, id string) (*Record, error)
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}
