package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easm/dashboard/internal/interfaces/http/dto"
)

// DefaultBodyLimit caps request bodies; the API only takes small JSON edits
const DefaultBodyLimit int64 = 1 << 20

// BodyLimit rejects bodies larger than maxBytes with 413. Bodies without a
// declared length are cut off at maxBytes while reading.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
