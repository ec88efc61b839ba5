package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/person-service/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the header carrying the request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// Respond writes a mapped result as JSON
func (h *BaseHandler) Respond(c *gin.Context, res dto.Result) {
	c.JSON(res.Status, res.Body)
}

// Error writes an error body with the given status
func (h *BaseHandler) Error(c *gin.Context, status int, message string) {
	h.Respond(c, dto.NewError(status, message))
}
