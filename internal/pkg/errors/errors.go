// Package errors defines AppError, the error value services hand to the
// HTTP layer. Each code maps to exactly one HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeDatabase:           http.StatusInternalServerError,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// AppError carries a client-safe code and message. Internal is logged but
// never rendered.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Internal == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Internal)
}

func (e *AppError) Unwrap() error { return e.Internal }

// New builds an AppError for one of the codes above. Unknown codes render
// as 500.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, StatusCode: status}
}

func wrap(err error, code, message string) *AppError {
	e := New(code, message)
	e.Internal = err
	return e
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool     { return HasCode(err, ErrCodeNotFound) }
func IsForbidden(err error) bool    { return HasCode(err, ErrCodeForbidden) }
func IsBadRequest(err error) bool   { return HasCode(err, ErrCodeBadRequest) }
func IsUnauthorized(err error) bool { return HasCode(err, ErrCodeUnauthorized) }
func IsConflict(err error) bool     { return HasCode(err, ErrCodeConflict) }

func BadRequest(message string) *AppError   { return New(ErrCodeBadRequest, message) }
func Unauthorized(message string) *AppError { return New(ErrCodeUnauthorized, message) }
func Forbidden(message string) *AppError    { return New(ErrCodeForbidden, message) }
func Conflict(message string) *AppError     { return New(ErrCodeConflict, message) }
func RateLimited(message string) *AppError  { return New(ErrCodeRateLimited, message) }

func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message)
}

// NotFound reads "<resource> not found".
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, resource+" not found")
}

// NotFoundWithID reads "<resource> with ID <id> not found".
func NotFoundWithID(resource, id string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s with ID %s not found", resource, id))
}

// ValidationError attaches per-field details for the client.
func ValidationError(message string, details interface{}) *AppError {
	e := New(ErrCodeValidation, message)
	e.Details = details
	return e
}

func Internal(message string, err error) *AppError {
	return wrap(err, ErrCodeInternal, message)
}

func DatabaseError(message string, err error) *AppError {
	return wrap(err, ErrCodeDatabase, message)
}
