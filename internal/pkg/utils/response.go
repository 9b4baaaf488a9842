package utils

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// SuccessResponse is the envelope of every successful API response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope of every failed API response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code and the user-facing message
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

var internalErrorBody = []byte(`{"success":false,"error":{"code":"` + errors.ErrCodeInternal + `","message":"Internal server error"}}` + "\n")

// WriteJSON encodes body before touching the response, so an unencodable
// value turns into a clean 500 instead of a truncated 200.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(internalErrorBody)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteSuccess wraps data in the success envelope
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// WriteError renders an AppError with its own status code
func WriteError(w http.ResponseWriter, err *errors.AppError) error {
	return WriteJSON(w, err.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    err.Code,
		Message: err.Message,
		Details: err.Details,
	}})
}

// WriteAppError renders any error. Errors that are not AppErrors become a
// generic internal error so their text never reaches the client.
func WriteAppError(w http.ResponseWriter, err error) error {
	if appErr, ok := errors.As(err); ok {
		return WriteError(w, appErr)
	}
	return WriteError(w, errors.Internal("Internal server error", err))
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
