package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Kind classifies an application error. Each kind maps to exactly one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindInvalidCredentials
	KindForbidden
	KindInvalidIdentifier
	KindWrongProvince
	KindNotFound
	KindValidation
	KindConflict
	KindLocked
	KindTooManyAttempts
)

// Error codes returned in the envelope's "error" field
const (
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeProvinceForbidden  = "PROVINCE_ACCESS_DENIED"
	CodeInvalidIdentifier  = "INVALID_IDENTIFIER"
	CodeProvinceMismatch   = "EMPLOYEE_PROVINCE_MISMATCH"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeProvinceImmutable  = "PROVINCE_IMMUTABLE"
	CodeConflict           = "CONFLICT"
	CodePerformanceLocked  = "PERFORMANCE_LOCKED"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
)

// Error is the typed error raised by services and middleware. The centralized
// error handler is the only place that turns it into a response.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error's kind
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidIdentifier, KindWrongProvince, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindLocked:
		return http.StatusLocked
	case KindTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Is matches on kind and code so errors.Is works against the constructors' output
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Common errors
var (
	ErrInvalidCredentials = &Error{
		Kind:    KindInvalidCredentials,
		Code:    CodeInvalidCredentials,
		Message: "Invalid username or password",
	}
	ErrPerformanceLocked = &Error{
		Kind:    KindLocked,
		Code:    CodePerformanceLocked,
		Message: "Performance records are locked by the administrator",
	}
)

func NewUnauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: CodeUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

// NewProvinceForbidden is raised when the province access predicate denies the caller
func NewProvinceForbidden(provinceID string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Code:    CodeProvinceForbidden,
		Message: "You do not have access to this province",
		Details: map[string]interface{}{"provinceId": provinceID},
	}
}

func NewInvalidIdentifier(field, value string) *Error {
	return &Error{
		Kind:    KindInvalidIdentifier,
		Code:    CodeInvalidIdentifier,
		Message: fmt.Sprintf("Invalid %s", field),
		Details: map[string]interface{}{"field": field, "value": value},
	}
}

// NewWrongProvince is raised when a record exists but belongs to another province
func NewWrongProvince(employeeID, provinceID string) *Error {
	return &Error{
		Kind:    KindWrongProvince,
		Code:    CodeProvinceMismatch,
		Message: "Employee does not belong to this province",
		Details: map[string]interface{}{"employeeId": employeeID, "provinceId": provinceID},
	}
}

func NewNotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewValidation(message string, details map[string]interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationFailed,
		Message: message,
		Details: details,
	}
}

// NewProvinceImmutable is raised when an update tries to move an employee
func NewProvinceImmutable(current, requested string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeProvinceImmutable,
		Message: "Employee province cannot be changed",
		Details: map[string]interface{}{"provinceId": current, "requested": requested},
	}
}

func NewConflict(message string, details map[string]interface{}) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeConflict,
		Message: message,
		Details: details,
	}
}

func NewTooManyAttempts(retryAfterSeconds int) *Error {
	return &Error{
		Kind:    KindTooManyAttempts,
		Code:    CodeTooManyAttempts,
		Message: "Too many failed login attempts. Please try again later.",
		Details: map[string]interface{}{"retryAfter": retryAfterSeconds},
	}
}

// NewInternal wraps an unexpected error. The cause is logged, never returned.
func NewInternal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    CodeInternalServer,
		Message: "An unexpected error occurred",
		Err:     err,
	}
}

// FromStorage normalizes gorm errors so storage-engine shapes never reach clients.
// resource names the record type used in not-found messages.
func FromStorage(err error, resource string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{
			Kind:    KindConflict,
			Code:    CodeConflict,
			Message: fmt.Sprintf("%s already exists", resource),
			Err:     err,
		}
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &Error{
			Kind:    KindValidation,
			Code:    CodeValidationFailed,
			Message: fmt.Sprintf("Invalid %s data", strings.ToLower(resource)),
			Err:     err,
		}
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidField):
		return &Error{
			Kind:    KindValidation,
			Code:    CodeValidationFailed,
			Message: fmt.Sprintf("Invalid %s data", strings.ToLower(resource)),
			Err:     err,
		}
	}

	return NewInternal(err)
}

// FromBinding normalizes gin binding/validator errors into a validation error
// listing the offending fields.
func FromBinding(err error) *Error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]interface{}, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fieldPath(fe.Namespace())] = fe.Tag()
		}
		return NewValidation("Validation failed", map[string]interface{}{"fields": fields})
	}
	return NewValidation("Invalid request body", nil)
}

// fieldPath strips the top-level struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// Abort attaches err to the gin context and stops the handler chain
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
