package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/config"
	"github.com/lancekit/lancekit/internal/invoice/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	clock    *clock.FakeClock
	clientID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&projectdomain.Project{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&domain.InvoiceSequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	client := clientdomain.Client{
		ID:     node.Generate(),
		Name:   "Acme Corp",
		Email:  "billing@acme.example",
		Status: clientdomain.ClientStatusActive,
	}
	require.NoError(t, db.Create(&client).Error)

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	return &fixture{svc: svc, db: db, clock: fake, clientID: client.ID.String()}
}

func twoItemRequest(clientID string) domain.CreateInvoiceRequest {
	return domain.CreateInvoiceRequest{
		ClientID: clientID,
		Items: []domain.LineItemRequest{
			{Description: "Design work", Quantity: 2, Rate: 100},
			{Description: "Hosting setup", Quantity: 1, Rate: 50},
		},
	}
}

func TestCreateInvoice_TotalsAndStatus(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(context.Background(), twoItemRequest(f.clientID))
	require.NoError(t, err)

	assert.Equal(t, 250.0, inv.Subtotal)
	assert.Equal(t, 25.0, inv.Tax)
	assert.Equal(t, 275.0, inv.Total)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "INV-2024-001", inv.InvoiceNumber)
	assert.Len(t, inv.Items, 2)
	assert.Equal(t, 200.0, inv.Items[0].Amount)
	assert.Equal(t, 50.0, inv.Items[1].Amount)

	// Due date follows the configured net terms.
	assert.Equal(t, inv.IssueDate.AddDate(0, 0, 14), inv.DueDate)
}

func TestCreateInvoice_SequenceIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-001", first.InvoiceNumber)
	assert.Equal(t, "INV-2024-002", second.InvoiceNumber)
}

func TestCreateInvoice_SequenceResetsPerYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	f.clock.Advance(366 * 24 * time.Hour)
	next, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-001", next.InvoiceNumber)
}

func TestCreateInvoice_RequiresItems(t *testing.T) {
	f := newFixture(t)

	req := domain.CreateInvoiceRequest{ClientID: f.clientID}
	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNoItems)

	// Nothing was persisted and no sequence slot was burned.
	var count int64
	f.db.Model(&domain.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateInvoice_RejectsBadItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, item := range []domain.LineItemRequest{
		{Description: "", Quantity: 1, Rate: 10},
		{Description: "zero qty", Quantity: 0, Rate: 10},
		{Description: "negative rate", Quantity: 1, Rate: -1},
	} {
		req := domain.CreateInvoiceRequest{ClientID: f.clientID, Items: []domain.LineItemRequest{item}}
		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidItem)
	}
}

func TestCreateInvoice_UnknownClient(t *testing.T) {
	f := newFixture(t)

	req := twoItemRequest("123456789")
	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidClient)
}

func TestUpdateInvoice_ReplacesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID: inv.ID.String(),
		CreateInvoiceRequest: domain.CreateInvoiceRequest{
			ClientID: f.clientID,
			Items: []domain.LineItemRequest{
				{Description: "Flat fee", Quantity: 1, Rate: 500},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, 500.0, updated.Subtotal)
	assert.Equal(t, 550.0, updated.Total)
	assert.Len(t, updated.Items, 1)

	var itemCount int64
	f.db.Model(&domain.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestUpdateInvoice_RejectsEmptyItemList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:                   inv.ID.String(),
		CreateInvoiceRequest: domain.CreateInvoiceRequest{ClientID: f.clientID},
	})
	assert.ErrorIs(t, err, domain.ErrNoItems)

	// The stored items survive the rejected update.
	reloaded, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 2)
}

func TestRecordPayment_FullFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	paid, err := f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: inv.ID.String(), Amount: 275})
	require.NoError(t, err)

	assert.Equal(t, 275.0, paid.AmountPaid)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, f.clock.Now(), paid.PaymentDate.UTC())
}

func TestRecordPayment_RejectsOverpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: inv.ID.String(), Amount: 100})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{ID: inv.ID.String(), Amount: 200})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)

	reloaded, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.AmountPaid)
	assert.Equal(t, domain.InvoiceStatusPending, reloaded.Status)
}

func TestMarkOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	changed, err := f.svc.MarkOverdue(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, changed)

	f.clock.Advance(15 * 24 * time.Hour)
	changed, err = f.svc.MarkOverdue(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	reloaded, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, reloaded.Status)

	// A second sweep finds nothing left to flip.
	changed, err = f.svc.MarkOverdue(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestDeleteInvoice_RemovesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, twoItemRequest(f.clientID))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, inv.ID.String()))

	_, err = f.svc.GetByID(ctx, inv.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var itemCount int64
	f.db.Model(&domain.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&itemCount)
	assert.Zero(t, itemCount)
}
