package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lancekit/lancekit/internal/client/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node})
}

func TestCreateClient(t *testing.T) {
	svc := newService(t)

	created, err := svc.Create(context.Background(), domain.CreateClientRequest{
		Name:    "  Jane Cooper  ",
		Company: "Cooper Design",
		Email:   "jane@cooper.example",
		Tags:    []string{"design", "retainer"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Cooper", created.Name)
	assert.Equal(t, domain.ClientStatusActive, created.Status)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []string{"design", "retainer"}, []string(created.Tags))
}

func TestCreateClient_Validation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateClientRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateClientRequest{Name: "x", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateClientRequest{Name: "x", Email: "a@b.c", Status: "zombie"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCreateClient_DuplicateTagRejected(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateClientRequest{
		Name:  "Jane",
		Email: "jane@cooper.example",
		Tags:  []string{"Design", "design"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateTag)
}

func TestListClients_SearchAndStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, seed := range []struct {
		name   string
		status string
	}{
		{"Acme Corp", "active"},
		{"Dormant Co", "inactive"},
		{"Beta LLC", "active"},
	} {
		_, err := svc.Create(ctx, domain.CreateClientRequest{
			Name:   seed.name,
			Email:  "test@example.com",
			Status: seed.status,
		})
		require.NoError(t, err)
	}

	active, err := svc.List(ctx, domain.ListClientRequest{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), active.TotalCount)

	all, err := svc.List(ctx, domain.ListClientRequest{Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)

	matched, err := svc.List(ctx, domain.ListClientRequest{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, matched.Clients, 1)
	assert.Equal(t, "Acme Corp", matched.Clients[0].Name)
}

func TestUpdateAndDeleteClient(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateClientRequest{Name: "Old Name", Email: "a@b.c"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateClientRequest{
		ID: created.ID.String(),
		CreateClientRequest: domain.CreateClientRequest{
			Name:   "New Name",
			Email:  "a@b.c",
			Status: "inactive",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, domain.ClientStatusInactive, updated.Status)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetClient_BadID(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetByID(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
