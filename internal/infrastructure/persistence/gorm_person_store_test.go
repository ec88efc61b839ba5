package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/person-service/backend/internal/domain/person"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func sampleRecord(id string) person.Record {
	return person.NewRecord(id, person.Person{
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1 555 0100",
		Address: person.Address{
			Street:      "Main St",
			HouseNumber: "12",
			City:        "Springfield",
			State:       "IL",
			Country:     "US",
			PostalCode:  "62701",
		},
	})
}

func newSQLitePersonStore(t *testing.T) *GormPersonStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// :memory: databases are per connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := NewGormPersonStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func newMockPersonStore(t *testing.T) (*GormPersonStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPersonStore(gormDB), mock, mockDB
}

func TestGormPersonStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("put then find", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		rec := sampleRecord("11111111-1111-1111-1111-111111111111")
		rec.Address.ApartmentNumber = strPtr("4B")

		require.NoError(t, store.Put(ctx, rec))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec, *got)
	})

	t.Run("put overwrites existing row", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		rec := sampleRecord("22222222-2222-2222-2222-222222222222")
		require.NoError(t, store.Put(ctx, rec))

		rec.LastName = "Roe"
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roe", got.LastName)
	})

	t.Run("apartment number stays absent", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		rec := sampleRecord("33333333-3333-3333-3333-333333333333")
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Address.ApartmentNumber)
	})

	t.Run("stored row holds only record fields", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		rec := sampleRecord("55555555-5555-5555-5555-555555555555")
		require.NoError(t, store.Put(ctx, rec))

		var row map[string]any
		require.NoError(t, store.db.Table("persons").Where("id = ?", rec.ID).Take(&row).Error)
		assert.ElementsMatch(t,
			[]string{"id", "first_name", "last_name", "phone_number", "address"},
			mapKeys(row))
	})

	t.Run("delete existing then missing", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		rec := sampleRecord("44444444-4444-4444-4444-444444444444")
		require.NoError(t, store.Put(ctx, rec))

		require.NoError(t, store.DeleteIfExists(ctx, rec.ID))

		_, err := store.FindByID(ctx, rec.ID)
		assert.ErrorIs(t, err, person.ErrRecordNotFound)

		err = store.DeleteIfExists(ctx, rec.ID)
		assert.ErrorIs(t, err, person.ErrRecordNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("put fails on closed database", func(t *testing.T) {
		store := newSQLitePersonStore(t)
		sqlDB, err := store.db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		err = store.Put(ctx, sampleRecord("55555555-5555-5555-5555-555555555555"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to put person")
		assert.Error(t, store.Ping(ctx))
	})
}

func TestGormPersonStore_DeleteIfExists_SQL(t *testing.T) {
	ctx := context.Background()

	t.Run("maps zero rows to not found", func(t *testing.T) {
		store, mock, mockDB := newMockPersonStore(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "persons" WHERE id = \$1`).
			WithArgs("abc").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.DeleteIfExists(ctx, "abc")
		assert.ErrorIs(t, err, person.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps driver errors without claiming not found", func(t *testing.T) {
		store, mock, mockDB := newMockPersonStore(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "persons" WHERE id = \$1`).
			WithArgs("abc").
			WillReturnError(errors.New("connection reset"))

		err := store.DeleteIfExists(ctx, "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, person.ErrRecordNotFound)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPersonStore_FindByID_SQL(t *testing.T) {
	ctx := context.Background()

	t.Run("maps gorm not found", func(t *testing.T) {
		store, mock, mockDB := newMockPersonStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "persons" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("abc", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := store.FindByID(ctx, "abc")
		assert.ErrorIs(t, err, person.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decodes jsonb address", func(t *testing.T) {
		store, mock, mockDB := newMockPersonStore(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone_number", "address"}).
			AddRow("abc", "Jane", "Doe", "555", []byte(`{"street":"A","houseNumber":"1","apartmentNumber":"2","city":"B","state":"C","country":"D","postalCode":"E"}`))
		mock.ExpectQuery(`SELECT \* FROM "persons" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("abc", 1).
			WillReturnRows(rows)

		rec, err := store.FindByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "Jane", rec.FirstName)
		assert.Equal(t, "E", rec.Address.PostalCode)
		require.NotNil(t, rec.Address.ApartmentNumber)
		assert.Equal(t, "2", *rec.Address.ApartmentNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
