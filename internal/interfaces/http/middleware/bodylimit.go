package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/person-service/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Requests that declare a larger Content-Length are rejected up front;
// others are capped with http.MaxBytesReader so handlers see a
// *http.MaxBytesError once the limit is crossed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: dto.MsgBodyTooLarge})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
