package services

import (
	"context"

	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/google/uuid"
)

// ProjectService implements project.Service
type ProjectService struct {
	projects project.Repository
	tasks    project.TaskRepository
	logger   *logger.Logger
	now      Clock
}

// NewProjectService creates a new project service
func NewProjectService(projects project.Repository, tasks project.TaskRepository, log *logger.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		logger:   log,
		now:      SystemClock,
	}
}

// WithClock replaces the time source
func (s *ProjectService) WithClock(c Clock) *ProjectService {
	s.now = c
	return s
}

// CreateProject creates a project owned by ownerID
func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, in project.CreateProjectInput) (*project.Project, error) {
	status := in.Status
	if status == "" {
		status = project.StatusActive
	}
	if !status.Valid() {
		return nil, errors.BadRequest("Invalid project status")
	}

	now := s.now()
	p := &project.Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create project")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    ownerID,
		"project_id": p.ID,
	}).Info("Project created")
	return p, nil
}

// ListProjects returns the owner's projects, newest first
func (s *ProjectService) ListProjects(ctx context.Context, ownerID string) ([]*project.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

// GetProject returns a project the caller owns
func (s *ProjectService) GetProject(ctx context.Context, id, ownerID string) (*project.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, errors.Forbidden("You do not have access to this project")
	}
	return p, nil
}

// UpdateProject merges the given fields into the project
func (s *ProjectService) UpdateProject(ctx context.Context, id, ownerID string, in project.UpdateProjectInput) (*project.Project, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, errors.BadRequest("Invalid project status")
	}

	p, err := s.GetProject(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	in.Apply(p)
	p.UpdatedAt = s.now()
	if err := s.projects.Update(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update project")
		return nil, err
	}
	return p, nil
}

// DeleteProject deletes the project and its tasks
func (s *ProjectService) DeleteProject(ctx context.Context, id, ownerID string) error {
	if _, err := s.GetProject(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete project")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    ownerID,
		"project_id": id,
	}).Info("Project deleted")
	return nil
}

// CreateTask adds a task to a project the caller owns
func (s *ProjectService) CreateTask(ctx context.Context, projectID, ownerID string, in project.CreateTaskInput) (*project.Task, error) {
	status := in.Status
	if status == "" {
		status = project.TaskTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = project.PriorityMedium
	}
	if !status.Valid() {
		return nil, errors.BadRequest("Invalid task status")
	}
	if !priority.Valid() {
		return nil, errors.BadRequest("Invalid task priority")
	}

	if _, err := s.GetProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	now := s.now()
	t := &project.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		ProjectID:   projectID,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create task")
		return nil, err
	}
	return t, nil
}

// ListTasks returns the project's tasks
func (s *ProjectService) ListTasks(ctx context.Context, projectID, ownerID string) ([]*project.Task, error) {
	if _, err := s.GetProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// GetTask returns a task after checking project ownership and membership
func (s *ProjectService) GetTask(ctx context.Context, projectID, taskID, ownerID string) (*project.Task, error) {
	if _, err := s.GetProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ProjectID != projectID {
		return nil, errors.Forbidden("Task does not belong to this project")
	}
	return t, nil
}

// UpdateTask merges the given fields into the task
func (s *ProjectService) UpdateTask(ctx context.Context, projectID, taskID, ownerID string, in project.UpdateTaskInput) (*project.Task, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, errors.BadRequest("Invalid task status")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, errors.BadRequest("Invalid task priority")
	}

	t, err := s.GetTask(ctx, projectID, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	in.Apply(t)
	t.UpdatedAt = s.now()
	if err := s.tasks.Update(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update task")
		return nil, err
	}
	return t, nil
}

// DeleteTask removes a task
func (s *ProjectService) DeleteTask(ctx context.Context, projectID, taskID, ownerID string) error {
	if _, err := s.GetTask(ctx, projectID, taskID, ownerID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

var _ project.Service = (*ProjectService)(nil)
