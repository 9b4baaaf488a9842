package dto

import (
	"time"

	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active on_hold completed archived"`
}

// ToInput converts the request to the service input
func (r CreateProjectRequest) ToInput() project.CreateProjectInput {
	return project.CreateProjectInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      project.Status(r.Status),
	}
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active on_hold completed archived"`
}

// ToInput converts the request to the service input
func (r UpdateProjectRequest) ToInput() project.UpdateProjectInput {
	in := project.UpdateProjectInput{Name: r.Name, Description: r.Description}
	if r.Status != nil {
		s := project.Status(*r.Status)
		in.Status = &s
	}
	return in
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress in_review done"`
	Priority    string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitempty,isodate"`
}

// ToInput converts the request to the service input
func (r CreateTaskRequest) ToInput() (project.CreateTaskInput, error) {
	due, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return project.CreateTaskInput{}, err
	}
	return project.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      project.TaskStatus(r.Status),
		Priority:    project.TaskPriority(r.Priority),
		AssignedTo:  r.AssignedTo,
		DueDate:     due,
	}, nil
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress in_review done"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitempty,isodate"`
}

// ToInput converts the request to the service input
func (r UpdateTaskRequest) ToInput() (project.UpdateTaskInput, error) {
	due, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return project.UpdateTaskInput{}, err
	}
	in := project.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		DueDate:     due,
	}
	if r.Status != nil {
		s := project.TaskStatus(*r.Status)
		in.Status = &s
	}
	if r.Priority != nil {
		p := project.TaskPriority(*r.Priority)
		in.Priority = &p
	}
	return in, nil
}

// parseOptionalDate accepts RFC 3339 timestamps and YYYY-MM-DD dates
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, errors.BadRequest("Invalid dueDate")
	}
	return &t, nil
}
