package services

import (
	"context"
	"testing"
	"time"

	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectService() (*ProjectService, *testutil.MockProjectRepository, *testutil.MockTaskRepository) {
	tasks := testutil.NewMockTaskRepository()
	projects := testutil.NewMockProjectRepository(tasks)
	svc := NewProjectService(projects, tasks, testutil.NewTestLogger()).WithClock(FixedClock(testNow))
	return svc, projects, tasks
}

func TestProjectService_CreateProjectDefaults(t *testing.T) {
	svc, _, _ := newProjectService()

	p, err := svc.CreateProject(context.Background(), "owner-1", project.CreateProjectInput{Name: "Website"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, project.StatusActive, p.Status)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, testNow, p.CreatedAt)

	_, err = svc.CreateProject(context.Background(), "owner-1", project.CreateProjectInput{Name: "x", Status: "paused"})
	assert.True(t, errors.IsBadRequest(err))
}

func TestProjectService_Ownership(t *testing.T) {
	svc, _, _ := newProjectService()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "Website"})
	require.NoError(t, err)

	_, err = svc.GetProject(ctx, p.ID, "owner-2")
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "You do not have access to this project", err.Error())

	_, err = svc.GetProject(ctx, "missing", "owner-1")
	assert.True(t, errors.IsNotFound(err))

	name := "Renamed"
	_, err = svc.UpdateProject(ctx, p.ID, "owner-2", project.UpdateProjectInput{Name: &name})
	assert.True(t, errors.IsForbidden(err))

	assert.True(t, errors.IsForbidden(svc.DeleteProject(ctx, p.ID, "owner-2")))

	_, err = svc.CreateTask(ctx, p.ID, "owner-2", project.CreateTaskInput{Title: "Sneaky"})
	assert.True(t, errors.IsForbidden(err))

	list, err := svc.ListProjects(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectService_UpdateProjectMergesFields(t *testing.T) {
	svc, _, _ := newProjectService()
	ctx := context.Background()

	desc := "Marketing site"
	p, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "Website", Description: &desc})
	require.NoError(t, err)

	status := project.StatusOnHold
	updated, err := svc.UpdateProject(ctx, p.ID, "owner-1", project.UpdateProjectInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Website", updated.Name)
	assert.Equal(t, "Marketing site", *updated.Description)
	assert.Equal(t, project.StatusOnHold, updated.Status)

	bad := project.Status("deleted")
	_, err = svc.UpdateProject(ctx, p.ID, "owner-1", project.UpdateProjectInput{Status: &bad})
	assert.True(t, errors.IsBadRequest(err))
}

func TestProjectService_TaskLifecycle(t *testing.T) {
	svc, _, _ := newProjectService()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "Website"})
	require.NoError(t, err)

	due := testNow.Add(72 * time.Hour)
	task, err := svc.CreateTask(ctx, p.ID, "owner-1", project.CreateTaskInput{Title: "Design hero", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, project.TaskTodo, task.Status)
	assert.Equal(t, project.PriorityMedium, task.Priority)
	assert.Equal(t, p.ID, task.ProjectID)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, *task.DueDate)

	done := project.TaskDone
	updated, err := svc.UpdateTask(ctx, p.ID, task.ID, "owner-1", project.UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, project.TaskDone, updated.Status)
	assert.Equal(t, "Design hero", updated.Title)

	tasks, err := svc.ListTasks(ctx, p.ID, "owner-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, project.TaskDone, tasks[0].Status)

	bad := project.TaskPriority("whenever")
	_, err = svc.UpdateTask(ctx, p.ID, task.ID, "owner-1", project.UpdateTaskInput{Priority: &bad})
	assert.True(t, errors.IsBadRequest(err))

	_, err = svc.CreateTask(ctx, p.ID, "owner-1", project.CreateTaskInput{Title: "x", Status: "blocked"})
	assert.True(t, errors.IsBadRequest(err))

	require.NoError(t, svc.DeleteTask(ctx, p.ID, task.ID, "owner-1"))
	_, err = svc.GetTask(ctx, p.ID, task.ID, "owner-1")
	assert.True(t, errors.IsNotFound(err))
}

func TestProjectService_TaskMustBelongToProject(t *testing.T) {
	svc, _, _ := newProjectService()
	ctx := context.Background()

	a, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "B"})
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, a.ID, "owner-1", project.CreateTaskInput{Title: "In A"})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, b.ID, task.ID, "owner-1")
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "Task does not belong to this project", err.Error())

	assert.True(t, errors.IsForbidden(svc.DeleteTask(ctx, b.ID, task.ID, "owner-1")))
}

func TestProjectService_DeleteCascadesTasks(t *testing.T) {
	svc, _, tasks := newProjectService()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "Website"})
	require.NoError(t, err)
	keep, err := svc.CreateProject(ctx, "owner-1", project.CreateProjectInput{Name: "Other"})
	require.NoError(t, err)

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.CreateTask(ctx, p.ID, "owner-1", project.CreateTaskInput{Title: title})
		require.NoError(t, err)
	}
	_, err = svc.CreateTask(ctx, keep.ID, "owner-1", project.CreateTaskInput{Title: "survivor"})
	require.NoError(t, err)
	require.Equal(t, 4, tasks.Count())

	require.NoError(t, svc.DeleteProject(ctx, p.ID, "owner-1"))
	assert.Equal(t, 1, tasks.Count())

	_, err = svc.GetProject(ctx, p.ID, "owner-1")
	assert.True(t, errors.IsNotFound(err))
	_, err = svc.ListTasks(ctx, p.ID, "owner-1")
	assert.True(t, errors.IsNotFound(err))
}
