package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, db *sql.DB, ownerID, name string, at time.Time) *project.Project {
	t.Helper()
	p := &project.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    project.StatusActive,
		OwnerID:   ownerID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
	return p
}

func seedTask(t *testing.T, db *sql.DB, projectID, title string, at time.Time) *project.Task {
	t.Helper()
	task := &project.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    project.TaskTodo,
		Priority:  project.PriorityMedium,
		ProjectID: projectID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))
	return task
}

func TestProjectRepository_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	owner := newTestUser("owner@example.com")
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	now := time.Now().UTC().Truncate(time.Second)
	older := seedProject(t, db, owner.ID, "Older", now.Add(-time.Hour))
	newer := seedProject(t, db, owner.ID, "Newer", now)

	projects, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, newer.ID, projects[0].ID)
	assert.Equal(t, older.ID, projects[1].ID)

	older.Description = testutil.Ptr("desc")
	older.Status = project.StatusOnHold
	require.NoError(t, repo.Update(ctx, older))

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusOnHold, got.Status)
	assert.Equal(t, "desc", *got.Description)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestProjectRepository_DeleteCascadesTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := newTestUser("owner@example.com")
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	now := time.Now().UTC().Truncate(time.Second)
	p := seedProject(t, db, owner.ID, "P", now)
	kept := seedProject(t, db, owner.ID, "Kept", now)
	t1 := seedTask(t, db, p.ID, "one", now)
	seedTask(t, db, p.ID, "two", now)
	seedTask(t, db, kept.ID, "other", now)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.True(t, errors.IsNotFound(err))
	_, err = tasks.GetByID(ctx, t1.ID)
	assert.True(t, errors.IsNotFound(err))

	var orphans int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = $1`, p.ID).Scan(&orphans))
	assert.Zero(t, orphans)

	remaining, err := tasks.ListByProject(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.True(t, errors.IsNotFound(repo.Delete(ctx, p.ID)))
}

func TestTaskRepository_UpdateDueDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	owner := newTestUser("owner@example.com")
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	now := time.Now().UTC().Truncate(time.Second)
	p := seedProject(t, db, owner.ID, "P", now)
	task := seedTask(t, db, p.ID, "one", now)

	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	task.Status = project.TaskDone
	task.DueDate = &due
	task.AssignedTo = testutil.Ptr(owner.ID)
	require.NoError(t, tasks.Update(ctx, task))

	list, err := tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, project.TaskDone, list[0].Status)
	require.NotNil(t, list[0].DueDate)
	assert.Equal(t, due, *list[0].DueDate)
	assert.Equal(t, owner.ID, *list[0].AssignedTo)

	require.NoError(t, tasks.Delete(ctx, task.ID))
	assert.True(t, errors.IsNotFound(tasks.Delete(ctx, task.ID)))
}
