package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/person-service/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonBody(t *testing.T) {
	body := PersonBody(
		func(b map[string]any) { delete(b, "lastName") },
		func(b map[string]any) { Address(b)["apartmentNumber"] = "7B" },
	)

	assert.NotContains(t, body, "lastName")
	assert.Equal(t, "Jane", body["firstName"])
	assert.Equal(t, "7B", Address(body)["apartmentNumber"])

	// each call builds a fresh payload
	assert.Contains(t, PersonBody(), "lastName")
	assert.JSONEq(t, `{
		"firstName": "Jane",
		"lastName": "Doe",
		"phoneNumber": "+1-555-0100",
		"address": {
			"street": "Main Street",
			"houseNumber": "42",
			"city": "Springfield",
			"state": "IL",
			"country": "US",
			"postalCode": "62701"
		}
	}`, string(PersonJSON(t)))
}

func TestRecordingPublisher(t *testing.T) {
	p := NewRecordingPublisher()
	env := shared.Envelope{Type: "PersonCreated", Bus: "PersonEvents", Detail: []byte(`{}`)}

	require.NoError(t, p.Publish(context.Background(), env))
	p.SetError(errors.New("bus down"))
	assert.EqualError(t, p.Publish(context.Background(), env), "bus down")

	assert.Equal(t, []shared.Envelope{env}, p.Published())
}

func TestMockEventHandler(t *testing.T) {
	h := NewMockEventHandler("PersonCreated")
	assert.Equal(t, []string{"PersonCreated"}, h.EventTypes())

	go func() {
		_ = h.Handle(context.Background(), shared.Envelope{Type: "PersonCreated"})
	}()

	assert.True(t, WaitForEventCount(t, h, 1, time.Second))
	assert.Len(t, h.Handled(), 1)

	h.SetError(errors.New("boom"))
	assert.Error(t, h.Handle(context.Background(), shared.Envelope{}))
}

func TestWaitForCondition_Timeout(t *testing.T) {
	var calls atomic.Int32
	ok := WaitForCondition(t, func() bool {
		calls.Add(1)
		return false
	}, 30*time.Millisecond, 5*time.Millisecond)

	assert.False(t, ok)
	assert.Greater(t, calls.Load(), int32(1))
}

func TestRequest(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, body)
	})

	w := Request(t, engine, http.MethodPost, "/echo", map[string]any{"a": "b"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"a": "b"}, DecodeJSON[map[string]any](t, w))

	w = Request(t, engine, http.MethodPost, "/echo", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewMockDB(t *testing.T) {
	db := NewMockDB(t)

	db.Mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, db.DB.Exec("SELECT 1").Error)
	db.ExpectationsWereMet(t)
}
