package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	personapp "github.com/person-service/backend/internal/application/person"
	"github.com/person-service/backend/internal/domain/person"
	"github.com/person-service/backend/internal/infrastructure/logger"
	"github.com/person-service/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PersonCreator runs the person creation saga
type PersonCreator interface {
	Create(ctx context.Context, body []byte) personapp.Outcome
}

// PersonFinder loads stored person records
type PersonFinder interface {
	Get(ctx context.Context, id string) (*person.Record, error)
}

// PersonHandler handles person API endpoints
type PersonHandler struct {
	BaseHandler
	creator PersonCreator
	finder  PersonFinder
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(creator PersonCreator, finder PersonFinder) *PersonHandler {
	return &PersonHandler{creator: creator, finder: finder}
}

// Create godoc
// @ID           createPerson
// @Summary      Create a person
// @Description  Validates the body, stores the person and publishes a PersonCreated event.
// @Description  The record is deleted again when the event cannot be published.
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        request body person.Person true "Person"
// @Success      201 {object} dto.CreatedResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /person [post]
func (h *PersonHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.MsgBodyTooLarge)
			return
		}
		logger.L(c.Request.Context()).Info("Failed to read request body", zap.Error(err))
		h.Error(c, http.StatusBadRequest, dto.MsgInvalidJSON)
		return
	}

	h.Respond(c, dto.FromOutcome(h.creator.Create(c.Request.Context(), body)))
}

// Get godoc
// @ID           getPerson
// @Summary      Get a person
// @Tags         persons
// @Produce      json
// @Param        id path string true "Person ID"
// @Success      200 {object} dto.PersonResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /person/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	rec, err := h.finder.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, person.ErrRecordNotFound) {
			h.Error(c, http.StatusNotFound, dto.MsgNotFound)
			return
		}
		logger.L(c.Request.Context()).Error("Failed to get person",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err),
		)
		h.Error(c, http.StatusInternalServerError, dto.MsgGetFailed)
		return
	}

	c.JSON(http.StatusOK, rec)
}
