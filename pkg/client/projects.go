package client

import (
	"context"
	"net/http"
	"net/url"
)

// ProjectService handles project API calls
type ProjectService struct {
	client *Client
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// UpdateProjectRequest changes only the fields that are set
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func projectPath(id string) string {
	return "/api/projects/" + url.PathEscape(id)
}

// List returns the caller's projects, newest first
func (s *ProjectService) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get retrieves a project by ID
func (s *ProjectService) Get(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := s.client.doRequest(ctx, http.MethodGet, projectPath(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create creates a project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var project Project
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Update changes a project
func (s *ProjectService) Update(ctx context.Context, id string, req UpdateProjectRequest) (*Project, error) {
	var project Project
	if err := s.client.doRequest(ctx, http.MethodPatch, projectPath(id), req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project and its tasks
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

// TaskService handles task API calls
type TaskService struct {
	client *Client
}

// CreateTaskRequest represents a task creation request. DueDate accepts
// YYYY-MM-DD or RFC 3339.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// UpdateTaskRequest changes only the fields that are set
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

func taskPath(projectID, taskID string) string {
	p := projectPath(projectID) + "/tasks"
	if taskID != "" {
		p += "/" + url.PathEscape(taskID)
	}
	return p
}

// List returns the tasks of a project
func (s *TaskService) List(ctx context.Context, projectID string) ([]Task, error) {
	var tasks []Task
	if err := s.client.doRequest(ctx, http.MethodGet, taskPath(projectID, ""), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get retrieves a task
func (s *TaskService) Get(ctx context.Context, projectID, taskID string) (*Task, error) {
	var task Task
	if err := s.client.doRequest(ctx, http.MethodGet, taskPath(projectID, taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create adds a task to a project
func (s *TaskService) Create(ctx context.Context, projectID string, req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := s.client.doRequest(ctx, http.MethodPost, taskPath(projectID, ""), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update changes a task
func (s *TaskService) Update(ctx context.Context, projectID, taskID string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := s.client.doRequest(ctx, http.MethodPatch, taskPath(projectID, taskID), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, projectID, taskID string) error {
	return s.client.doRequest(ctx, http.MethodDelete, taskPath(projectID, taskID), nil, nil)
}
