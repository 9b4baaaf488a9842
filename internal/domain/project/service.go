package project

import "context"

// Service defines owner-scoped project and task operations. Lookups return
// NotFound when the row is absent and Forbidden when another user owns it.
type Service interface {
	CreateProject(ctx context.Context, ownerID string, in CreateProjectInput) (*Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]*Project, error)
	GetProject(ctx context.Context, id, ownerID string) (*Project, error)
	UpdateProject(ctx context.Context, id, ownerID string, in UpdateProjectInput) (*Project, error)
	DeleteProject(ctx context.Context, id, ownerID string) error

	CreateTask(ctx context.Context, projectID, ownerID string, in CreateTaskInput) (*Task, error)
	ListTasks(ctx context.Context, projectID, ownerID string) ([]*Task, error)
	GetTask(ctx context.Context, projectID, taskID, ownerID string) (*Task, error)
	UpdateTask(ctx context.Context, projectID, taskID, ownerID string, in UpdateTaskInput) (*Task, error)
	DeleteTask(ctx context.Context, projectID, taskID, ownerID string) error
}
