// Package project models projects and the tasks on their boards.
package project

import "time"

// Status is the lifecycle state of a project
type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// TaskStatus is the board column of a task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskInReview   TaskStatus = "in_review"
	TaskDone       TaskStatus = "done"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskInReview, TaskDone:
		return true
	}
	return false
}

// TaskPriority ranks tasks
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Project groups tasks and belongs to one owner
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Status      Status    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Task is a work item inside a project
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	ProjectID   string       `json:"projectId"`
	AssignedTo  *string      `json:"assignedTo,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CreateProjectInput carries fields for a new project.
type CreateProjectInput struct {
	Name        string
	Description *string
	Status      Status // defaults to StatusActive
}

// UpdateProjectInput is a shallow merge; nil fields are unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *Status
}

// Apply merges the non-nil fields into p.
func (in UpdateProjectInput) Apply(p *Project) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}

// CreateTaskInput carries fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      TaskStatus   // defaults to TaskTodo
	Priority    TaskPriority // defaults to PriorityMedium
	AssignedTo  *string
	DueDate     *time.Time
}

// UpdateTaskInput is a shallow merge; nil fields are unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	AssignedTo  *string
	DueDate     *time.Time
}

// Apply merges the non-nil fields into t.
func (in UpdateTaskInput) Apply(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		t.AssignedTo = in.AssignedTo
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
}
