//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/person-service/backend/internal/domain/person"
	"github.com/person-service/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string, apartment *string) person.Record {
	return person.Record{
		ID: id,
		Person: person.Person{
			FirstName:   "Jane",
			LastName:    "Doe",
			PhoneNumber: "+1-555-0100",
			Address: person.Address{
				Street:          "Main Street",
				HouseNumber:     "42",
				ApartmentNumber: apartment,
				City:            "Springfield",
				State:           "IL",
				Country:         "US",
				PostalCode:      "62701",
			},
		},
	}
}

func TestGormPersonStore_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	store := persistence.NewGormPersonStore(tdb.DB)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	t.Run("put and find preserves the address", func(t *testing.T) {
		apt := "7B"
		rec := sampleRecord("3f1c2a9e-0000-4000-8000-000000000001", &apt)
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec, *got)
	})

	t.Run("absent apartment stays absent", func(t *testing.T) {
		rec := sampleRecord("3f1c2a9e-0000-4000-8000-000000000002", nil)
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Address.ApartmentNumber)
	})

	t.Run("put overwrites", func(t *testing.T) {
		rec := sampleRecord("3f1c2a9e-0000-4000-8000-000000000003", nil)
		require.NoError(t, store.Put(ctx, rec))
		rec.LastName = "Roe"
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roe", got.LastName)
	})

	t.Run("conditional delete", func(t *testing.T) {
		rec := sampleRecord("3f1c2a9e-0000-4000-8000-000000000004", nil)
		require.NoError(t, store.Put(ctx, rec))

		require.NoError(t, store.DeleteIfExists(ctx, rec.ID))
		assert.ErrorIs(t, store.DeleteIfExists(ctx, rec.ID), person.ErrRecordNotFound)

		_, err := store.FindByID(ctx, rec.ID)
		assert.ErrorIs(t, err, person.ErrRecordNotFound)
	})

	tdb.CleanTables()
	assert.Zero(t, tdb.CountPersons())
}
