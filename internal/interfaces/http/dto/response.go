// Package dto holds the HTTP response bodies and the mapping from saga
// outcomes to status codes. It is shared by the gin handlers and the Lambda
// adapter.
package dto

import (
	"fmt"
	"net/http"

	personapp "github.com/person-service/backend/internal/application/person"
	"github.com/person-service/backend/internal/domain/person"
)

// Fixed client-facing error messages
const (
	MsgInvalidJSON   = "Invalid JSON body"
	MsgInvalidPerson = "Invalid person data"
	MsgCreateFailed  = "Failed to create person"
	MsgPublishFailed = "Failed to publish event"
	MsgNotFound      = "Person not found"
	MsgGetFailed     = "Failed to get person"
	MsgBodyTooLarge  = "Request body too large"
)

// CreatedResponse is returned with 201 after a successful creation
type CreatedResponse struct {
	ID string `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
}

// ErrorResponse is the body of every non-2xx response.
// Details is set only for schema violations.
type ErrorResponse struct {
	Error   string                 `json:"error" example:"Invalid person data"`
	Details []personapp.FieldError `json:"details,omitempty"`
}

// PersonResponse is returned by the lookup endpoint
type PersonResponse = person.Record

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
	Time   string `json:"time" example:"2024-01-01T00:00:00Z"`
	Store  string `json:"store" example:"ok"`
}

// Result is a status code with its JSON body
type Result struct {
	Status int
	Body   any
}

// NewError builds an ErrorResponse result without details
func NewError(status int, message string) Result {
	return Result{Status: status, Body: ErrorResponse{Error: message}}
}

// FromOutcome maps a create-person outcome to its HTTP result.
// Server-side failures carry only the fixed message; ids and causes are
// never exposed.
func FromOutcome(outcome personapp.Outcome) Result {
	switch o := outcome.(type) {
	case personapp.Completed:
		return Result{Status: http.StatusCreated, Body: CreatedResponse{ID: o.ID}}
	case personapp.ParseFailed:
		return NewError(http.StatusBadRequest, MsgInvalidJSON)
	case personapp.ValidationFailed:
		return Result{
			Status: http.StatusBadRequest,
			Body:   ErrorResponse{Error: MsgInvalidPerson, Details: o.Err.Errors},
		}
	case personapp.PersistFailed:
		return NewError(http.StatusInternalServerError, MsgCreateFailed)
	case personapp.PublishFailed:
		return NewError(http.StatusInternalServerError, MsgPublishFailed)
	default:
		panic(fmt.Sprintf("dto: unhandled outcome %T", outcome))
	}
}
