package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/internal/task/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       domain.Service
	db        *gorm.DB
	projectID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&projectdomain.Project{},
		&domain.Task{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	client := clientdomain.Client{ID: node.Generate(), Name: "Acme", Email: "a@b.c"}
	require.NoError(t, db.Create(&client).Error)
	project := projectdomain.Project{ID: node.Generate(), Name: "Website Redesign", ClientID: client.ID, Status: projectdomain.ProjectStatusInProgress}
	require.NoError(t, db.Create(&project).Error)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	return &fixture{svc: svc, db: db, projectID: project.ID}
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(context.Background(), domain.CreateTaskRequest{
		Title:     "  Draft wireframes  ",
		ProjectID: f.projectID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Draft wireframes", task.Title)
	assert.Equal(t, domain.TaskStatusNotStarted, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.False(t, task.Completed)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateTaskRequest{ProjectID: f.projectID.String()})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = f.svc.Create(ctx, domain.CreateTaskRequest{Title: "x", ProjectID: "999999"})
	assert.ErrorIs(t, err, domain.ErrInvalidProject)

	_, err = f.svc.Create(ctx, domain.CreateTaskRequest{Title: "x", ProjectID: f.projectID.String(), Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.Create(ctx, domain.CreateTaskRequest{Title: "x", ProjectID: f.projectID.String(), Priority: "asap"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestSetStatus_KeepsCompletedInSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, domain.CreateTaskRequest{Title: "Ship it", ProjectID: f.projectID.String()})
	require.NoError(t, err)

	updated, err := f.svc.SetStatus(ctx, task.ID.String(), "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.True(t, updated.Completed)

	stored, err := f.svc.GetByID(ctx, task.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.Completed)

	reopened, err := f.svc.SetStatus(ctx, task.ID.String(), "in-progress")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, reopened.Status)
	assert.False(t, reopened.Completed)

	_, err = f.svc.SetStatus(ctx, task.ID.String(), "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListTasks_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seed := []domain.CreateTaskRequest{
		{Title: "Wireframes", ProjectID: f.projectID.String(), Status: "in-progress", Priority: "high"},
		{Title: "Copywriting", ProjectID: f.projectID.String(), Status: "not-started", Priority: "low"},
		{Title: "Review", ProjectID: f.projectID.String(), Status: "in-progress", Priority: "low"},
	}
	for _, req := range seed {
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	resp, err := f.svc.List(ctx, domain.ListTaskRequest{Status: "in-progress"})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 2)
	assert.EqualValues(t, 2, resp.TotalCount)

	resp, err = f.svc.List(ctx, domain.ListTaskRequest{Priority: "low"})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 2)

	resp, err = f.svc.List(ctx, domain.ListTaskRequest{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 3)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, domain.CreateTaskRequest{Title: "Temp", ProjectID: f.projectID.String()})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, task.ID.String()))

	_, err = f.svc.GetByID(ctx, task.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.svc.Delete(ctx, "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
