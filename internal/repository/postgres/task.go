package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// TaskRepository implements project.TaskRepository
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) project.TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, project_id, assigned_to, due_date, created_at, updated_at`

// Create stores a new task
func (r *TaskRepository) Create(ctx context.Context, t *project.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, nullString(t.Description), string(t.Status), string(t.Priority), t.ProjectID,
		nullString(t.AssignedTo), nullUnix(t.DueDate), t.CreatedAt.Unix(), t.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create task", err)
	}
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*project.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundWithID("Task", id)
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get task", err)
	}
	return t, nil
}

// ListByProject lists a project's tasks, oldest first
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*project.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list tasks", err)
	}
	defer rows.Close()

	tasks := []*project.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list tasks", err)
	}

	return tasks, nil
}

// Update updates a task
func (r *TaskRepository) Update(ctx context.Context, t *project.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    assigned_to = $5, due_date = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Title, nullString(t.Description), string(t.Status), string(t.Priority),
		nullString(t.AssignedTo), nullUnix(t.DueDate), t.UpdatedAt.Unix(), t.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update task", err)
	}

	return expectAffected(result, "Task")
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete task", err)
	}

	return expectAffected(result, "Task")
}

func scanTask(s scanner) (*project.Task, error) {
	var t project.Task
	var description, assignedTo sql.NullString
	var status, priority string
	var dueDate sql.NullInt64
	var createdAt, updatedAt int64

	err := s.Scan(&t.ID, &t.Title, &description, &status, &priority, &t.ProjectID,
		&assignedTo, &dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.Description = stringPtr(description)
	t.Status = project.TaskStatus(status)
	t.Priority = project.TaskPriority(priority)
	t.AssignedTo = stringPtr(assignedTo)
	t.DueDate = timePtr(dueDate)
	t.CreatedAt = fromUnix(createdAt)
	t.UpdatedAt = fromUnix(updatedAt)

	return &t, nil
}
