package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"employee-service/internal/apperrors"
	"employee-service/internal/models"
)

// ErrorHandler is a middleware that handles errors in a consistent way. It is
// the only place an *apperrors.Error is turned into a status and envelope.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "http.errors")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		handleError(c, log, c.Errors.Last().Err)
	}
}

func handleError(c *gin.Context, log *logrus.Entry, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternal(err)
	}

	status := appErr.StatusCode()
	fields := logrus.Fields{
		"request_id": c.GetString("request_id"),
		"code":       appErr.Code,
		"status":     status,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
	if identity, ok := IdentityFrom(c); ok {
		fields["user_id"] = identity.ID
		fields["role"] = identity.Role
	}

	entry := log.WithFields(fields)
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed")
	} else {
		entry.Debug(appErr.Message)
	}

	if appErr.Kind == apperrors.KindTooManyAttempts {
		if retry, ok := appErr.Details["retryAfter"].(int); ok {
			c.Header("Retry-After", strconv.Itoa(retry))
		}
	}

	response := models.Response{
		Success: false,
		Error:   appErr.Code,
		Message: appErr.Message,
	}
	// internal causes are never echoed to the client
	if appErr.Kind != apperrors.KindInternal {
		response.Details = appErr.Details
	}

	c.JSON(status, response)
}

// NotFoundHandler answers unknown routes with the envelope
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   apperrors.CodeNotFound,
			Message: "Route not found",
		})
	}
}

// MethodNotAllowedHandler answers known routes with an unsupported method
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.Response{
			Success: false,
			Error:   "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		})
	}
}
