// Package testutil provides common test utilities for the person service.
// It contains request fixtures, recording collaborators and helpers for
// driving HTTP handlers in tests.
package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a new mock database for testing.
// The connection is closed when the test finishes.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = mockDB.Close() })

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// PersonBody returns a valid create-person payload as a generic JSON object.
// Mutators run in order and may add, change or delete keys.
func PersonBody(mutators ...func(body map[string]any)) map[string]any {
	body := map[string]any{
		"firstName":   "Jane",
		"lastName":    "Doe",
		"phoneNumber": "+1-555-0100",
		"address": map[string]any{
			"street":      "Main Street",
			"houseNumber": "42",
			"city":        "Springfield",
			"state":       "IL",
			"country":     "US",
			"postalCode":  "62701",
		},
	}
	for _, m := range mutators {
		m(body)
	}
	return body
}

// Address returns the address object of a payload built by PersonBody
func Address(body map[string]any) map[string]any {
	return body["address"].(map[string]any)
}

// PersonJSON marshals PersonBody(mutators...)
func PersonJSON(t *testing.T, mutators ...func(body map[string]any)) []byte {
	t.Helper()

	data, err := json.Marshal(PersonBody(mutators...))
	require.NoError(t, err, "Failed to marshal person body")
	return data
}

// WaitForCondition waits for a condition to become true.
// Returns true if the condition was met, false if timeout occurred.
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return false
}
