package project

import "context"

// Repository defines the interface for project data access
type Repository interface {
	Create(ctx context.Context, p *Project) error
	// GetByID returns the project regardless of owner; callers check ownership
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	// Delete removes the project and all of its tasks in one transaction
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}
