package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flowvera/flowvera/internal/api/middleware"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// currentUserID returns the authenticated caller or writes a 401
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Unauthorized"))
		return "", false
	}
	return userID, true
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}

	if validationErrs := v.Validate(dst); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return false
	}
	return true
}
