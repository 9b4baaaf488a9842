package handlers

import (
	"net/http"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// AdminHandler serves user management for administrators
type AdminHandler struct {
	users     user.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users user.Service, log *logger.Logger, val *validator.Validator) *AdminHandler {
	return &AdminHandler{
		users:     users,
		logger:    log,
		validator: val,
	}
}

// ListUsers returns all users
// @Summary List users
// @Tags Admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.SuccessResponse{data=utils.PaginatedResponse{data=[]dto.UserDTO}} "Users"
// @Failure 403 {object} utils.ErrorResponse "Insufficient permissions"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePageRequest(r)

	users, total, err := h.users.List(r.Context(), p.PageSize, p.Offset())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dto.FromUsers(users), p, total))
}

// UpdateUser changes a user's names, role or active flag
// @Summary Update user
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.AdminUpdateUserRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=dto.UserDTO} "Updated user"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminUpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.users.AdminUpdate(r.Context(), chi.URLParam(r, "id"), req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromUser(u))
}

// DeleteUser removes a user
// @Summary Delete user
// @Tags Admin
// @Param id path string true "User ID"
// @Success 204 "Deleted"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"admin_id": callerID,
		"user_id":  id,
	}).Info("User deleted by admin")
	utils.NoContent(w)
}
