package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	"github.com/lancekit/lancekit/internal/expense/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       domain.Service
	projectID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&projectdomain.Project{},
		&domain.Expense{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	client := clientdomain.Client{ID: node.Generate(), Name: "Acme", Email: "a@b.c"}
	require.NoError(t, db.Create(&client).Error)
	project := projectdomain.Project{ID: node.Generate(), Name: "Website Redesign", ClientID: client.ID, Status: projectdomain.ProjectStatusInProgress}
	require.NoError(t, db.Create(&project).Error)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	return &fixture{svc: svc, projectID: project.ID.String()}
}

func (f *fixture) create(t *testing.T, date string, amount float64, category string, billable bool) domain.Expense {
	t.Helper()
	expense, err := f.svc.Create(context.Background(), domain.CreateExpenseRequest{
		ProjectID:   f.projectID,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: "receipt item",
		Billable:    billable,
	})
	require.NoError(t, err)
	return expense
}

func TestCreateExpense_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := domain.CreateExpenseRequest{
		ProjectID:   f.projectID,
		Date:        "2024-06-01",
		Amount:      49.99,
		Category:    "Software",
		Description: "Editor license",
	}

	for _, tc := range []struct {
		name    string
		mutate  func(*domain.CreateExpenseRequest)
		wantErr error
	}{
		{"unknown project", func(r *domain.CreateExpenseRequest) { r.ProjectID = "999999" }, domain.ErrInvalidProject},
		{"bad date", func(r *domain.CreateExpenseRequest) { r.Date = "06/01/2024" }, domain.ErrInvalidDate},
		{"zero amount", func(r *domain.CreateExpenseRequest) { r.Amount = 0 }, domain.ErrInvalidAmount},
		{"negative amount", func(r *domain.CreateExpenseRequest) { r.Amount = -12 }, domain.ErrInvalidAmount},
		{"unknown category", func(r *domain.CreateExpenseRequest) { r.Category = "Gadgets" }, domain.ErrInvalidCategory},
		{"blank description", func(r *domain.CreateExpenseRequest) { r.Description = "   " }, domain.ErrInvalidDescription},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := f.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	expense, err := f.svc.Create(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySoftware, expense.Category)
	assert.Equal(t, "2024-06-01", expense.Date.Format("2006-01-02"))
}

func TestListExpenses_FiltersAndTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, "2024-06-01", 49.99, "Software", true)
	f.create(t, "2024-06-10", 200, "Travel", true)
	f.create(t, "2024-07-01", 15.50, "Meals", false)

	all, err := f.svc.List(ctx, domain.ListExpenseRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalCount)
	assert.Equal(t, 265.49, all.Total)

	billable := true
	resp, err := f.svc.List(ctx, domain.ListExpenseRequest{Billable: &billable})
	require.NoError(t, err)
	assert.Len(t, resp.Expenses, 2)
	assert.Equal(t, 249.99, resp.Total)

	resp, err = f.svc.List(ctx, domain.ListExpenseRequest{Category: "Travel"})
	require.NoError(t, err)
	require.Len(t, resp.Expenses, 1)
	assert.Equal(t, 200.0, resp.Total)

	resp, err = f.svc.List(ctx, domain.ListExpenseRequest{DateFrom: "2024-06-05", DateTo: "2024-06-30"})
	require.NoError(t, err)
	require.Len(t, resp.Expenses, 1)
	assert.Equal(t, domain.CategoryTravel, resp.Expenses[0].Category)

	_, err = f.svc.List(ctx, domain.ListExpenseRequest{Category: "Gadgets"})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestUpdateExpense_ReplacesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense := f.create(t, "2024-06-01", 49.99, "Software", true)

	updated, err := f.svc.Update(ctx, domain.UpdateExpenseRequest{
		ID: expense.ID.String(),
		CreateExpenseRequest: domain.CreateExpenseRequest{
			ProjectID:   f.projectID,
			Date:        "2024-06-02",
			Amount:      59.99,
			Category:    "Subscription",
			Description: "Annual plan",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 59.99, updated.Amount)
	assert.Equal(t, domain.CategorySubscription, updated.Category)

	stored, err := f.svc.GetByID(ctx, expense.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Annual plan", stored.Description)
	assert.False(t, stored.Billable)
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense := f.create(t, "2024-06-01", 49.99, "Software", false)
	require.NoError(t, f.svc.Delete(ctx, expense.ID.String()))

	_, err := f.svc.GetByID(ctx, expense.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
