package persistence

import (
	"context"
	"fmt"

	"github.com/person-service/backend/internal/domain/person"
	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryPersonStore implements person.RecordStore in process memory.
// Suitable for local development and tests only.
type MemoryPersonStore struct {
	records *xsync.MapOf[string, person.Record]
}

// NewMemoryPersonStore creates an empty store
func NewMemoryPersonStore() *MemoryPersonStore {
	return &MemoryPersonStore{records: xsync.NewMapOf[string, person.Record]()}
}

func (s *MemoryPersonStore) Put(_ context.Context, rec person.Record) error {
	s.records.Store(rec.ID, rec)
	return nil
}

func (s *MemoryPersonStore) DeleteIfExists(_ context.Context, id string) error {
	if _, ok := s.records.LoadAndDelete(id); !ok {
		return fmt.Errorf("delete person %s: %w", id, person.ErrRecordNotFound)
	}
	return nil
}

func (s *MemoryPersonStore) FindByID(_ context.Context, id string) (*person.Record, error) {
	rec, ok := s.records.Load(id)
	if !ok {
		return nil, person.ErrRecordNotFound
	}
	return &rec, nil
}

func (s *MemoryPersonStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored records
func (s *MemoryPersonStore) Len() int {
	return s.records.Size()
}

var _ person.RecordStore = (*MemoryPersonStore)(nil)
