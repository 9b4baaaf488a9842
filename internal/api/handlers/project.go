package handlers

import (
	"net/http"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler serves projects and their tasks
type ProjectHandler struct {
	service   project.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service project.Service, log *logger.Logger, val *validator.Validator) *ProjectHandler {
	return &ProjectHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns the caller's projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]project.Project} "Projects, newest first"
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, projects)
}

// Create creates a project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} utils.SuccessResponse{data=project.Project} "Created project"
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.CreateProject(r.Context(), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, p)
}

// Get returns one project
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} utils.SuccessResponse{data=project.Project} "Project"
// @Failure 403 {object} utils.ErrorResponse "Not the owner"
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// Update merges fields into a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=project.Project} "Updated project"
// @Security BearerAuth
// @Router /projects/{id} [patch]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	p, err := h.service.UpdateProject(r.Context(), chi.URLParam(r, "id"), userID, req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// Delete removes a project and its tasks
// @Summary Delete project
// @Tags Projects
// @Param id path string true "Project ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.NoContent(w)
}

// ListTasks returns a project's tasks
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} utils.SuccessResponse{data=[]project.Task} "Tasks"
// @Security BearerAuth
// @Router /projects/{id}/tasks [get]
func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tasks)
}

// CreateTask adds a task to a project
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body dto.CreateTaskRequest true "Task"
// @Success 201 {object} utils.SuccessResponse{data=project.Task} "Created task"
// @Security BearerAuth
// @Router /projects/{id}/tasks [post]
func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	t, err := h.service.CreateTask(r.Context(), chi.URLParam(r, "id"), userID, in)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, t)
}

// GetTask returns one task
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Param id path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} utils.SuccessResponse{data=project.Task} "Task"
// @Security BearerAuth
// @Router /projects/{id}/tasks/{taskId} [get]
func (h *ProjectHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	t, err := h.service.GetTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, t)
}

// UpdateTask merges fields into a task
// @Summary Update task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=project.Task} "Updated task"
// @Security BearerAuth
// @Router /projects/{id}/tasks/{taskId} [patch]
func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	t, err := h.service.UpdateTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"), userID, in)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, t)
}

// DeleteTask removes a task
// @Summary Delete task
// @Tags Tasks
// @Param id path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 204 "Deleted"
// @Security BearerAuth
// @Router /projects/{id}/tasks/{taskId} [delete]
func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"), userID); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.NoContent(w)
}
