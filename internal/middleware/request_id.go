package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,128}$`)

// RequestIDMiddleware adds a unique request ID to each request. A client
// supplied X-Request-ID is kept when it is a plain token.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if !validRequestID.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Set("trace_id", requestID)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
