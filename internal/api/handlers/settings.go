package handlers

import (
	"net/http"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
)

// SettingsHandler serves the caller's own account settings
type SettingsHandler struct {
	users     user.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(users user.Service, log *logger.Logger, val *validator.Validator) *SettingsHandler {
	return &SettingsHandler{
		users:     users,
		logger:    log,
		validator: val,
	}
}

// UpdateProfile changes the caller's names
// @Summary Update profile
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.SuccessResponse{data=dto.UserDTO} "Updated user"
// @Security BearerAuth
// @Router /settings/profile [put]
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), userID, user.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromUser(u))
}

// ChangePassword verifies the current password and stores a new one
// @Summary Change password
// @Tags Settings
// @Accept json
// @Param request body dto.ChangePasswordRequest true "Passwords"
// @Success 204 "Password changed"
// @Failure 401 {object} utils.ErrorResponse "Current password is incorrect"
// @Security BearerAuth
// @Router /settings/password [put]
func (h *SettingsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.NoContent(w)
}
