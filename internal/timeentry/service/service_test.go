package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/internal/timeentry/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFixture(t *testing.T) (domain.Service, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&projectdomain.Project{},
		&domain.TimeEntry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	client := clientdomain.Client{ID: node.Generate(), Name: "Acme", Email: "a@b.c"}
	require.NoError(t, db.Create(&client).Error)
	project := projectdomain.Project{ID: node.Generate(), Name: "Site", ClientID: client.ID}
	require.NoError(t, db.Create(&project).Error)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node}), project.ID.String()
}

func validRequest(projectID string) domain.CreateTimeEntryRequest {
	return domain.CreateTimeEntryRequest{
		ProjectID:   projectID,
		Date:        "2024-06-01",
		StartTime:   "09:00",
		EndTime:     "17:30",
		Description: "Build out the dashboard",
	}
}

func TestCreateTimeEntry(t *testing.T) {
	svc, projectID := newFixture(t)

	entry, err := svc.Create(context.Background(), validRequest(projectID))
	require.NoError(t, err)

	assert.Equal(t, 8.5, entry.Duration)
	assert.NotZero(t, entry.ID)
}

func TestCreateTimeEntry_OvernightWrap(t *testing.T) {
	svc, projectID := newFixture(t)

	req := validRequest(projectID)
	req.StartTime = "22:00"
	req.EndTime = "02:00"

	entry, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4.0, entry.Duration)
}

func TestCreateTimeEntry_EqualTimesRejected(t *testing.T) {
	svc, projectID := newFixture(t)

	req := validRequest(projectID)
	req.StartTime = "09:00"
	req.EndTime = "09:00"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEndBeforeStart)
}

func TestCreateTimeEntry_Validation(t *testing.T) {
	svc, projectID := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.CreateTimeEntryRequest)
		want   error
	}{
		{"unknown project", func(r *domain.CreateTimeEntryRequest) { r.ProjectID = "42424242" }, domain.ErrInvalidProject},
		{"bad date", func(r *domain.CreateTimeEntryRequest) { r.Date = "01/06/2024" }, domain.ErrInvalidDate},
		{"missing start", func(r *domain.CreateTimeEntryRequest) { r.StartTime = "" }, domain.ErrInvalidStartTime},
		{"missing end", func(r *domain.CreateTimeEntryRequest) { r.EndTime = "" }, domain.ErrInvalidEndTime},
		{"missing description", func(r *domain.CreateTimeEntryRequest) { r.Description = "  " }, domain.ErrInvalidDescription},
		{"malformed start", func(r *domain.CreateTimeEntryRequest) { r.StartTime = "9am" }, domain.ErrInvalidStartTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(projectID)
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListTimeEntries_TotalsAndFilters(t *testing.T) {
	svc, projectID := newFixture(t)
	ctx := context.Background()

	for _, window := range [][2]string{{"09:00", "11:00"}, {"13:00", "16:30"}} {
		req := validRequest(projectID)
		req.StartTime = window[0]
		req.EndTime = window[1]
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListTimeEntryRequest{ProjectID: projectID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 5.5, resp.TotalHours)

	none, err := svc.List(ctx, domain.ListTimeEntryRequest{
		ProjectID: projectID,
		DateFrom:  "2024-07-01",
	})
	require.NoError(t, err)
	assert.Empty(t, none.Entries)
}

func TestUpdateTimeEntry_RecomputesDuration(t *testing.T) {
	svc, projectID := newFixture(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, validRequest(projectID))
	require.NoError(t, err)

	req := validRequest(projectID)
	req.EndTime = "10:00"
	updated, err := svc.Update(ctx, domain.UpdateTimeEntryRequest{
		ID:                     entry.ID.String(),
		CreateTimeEntryRequest: req,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Duration)
}
