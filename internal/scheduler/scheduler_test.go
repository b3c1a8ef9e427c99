package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/config"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	invoiceservice "github.com/lancekit/lancekit/internal/invoice/service"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSweeper(t *testing.T) (*Sweeper, invoicedomain.Service, *clock.FakeClock, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&projectdomain.Project{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceSequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	client := clientdomain.Client{ID: node.Generate(), Name: "Acme", Email: "billing@acme.example"}
	require.NoError(t, db.Create(&client).Error)

	invoices := invoiceservice.New(invoiceservice.Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	sweeper := &Sweeper{
		invoices: invoices,
		log:      zap.NewNop(),
		clock:    fake,
		interval: time.Minute,
		done:     make(chan struct{}),
	}
	return sweeper, invoices, fake, client.ID.String()
}

func TestSweep_MarksPastDuePending(t *testing.T) {
	sweeper, invoices, fake, clientID := newSweeper(t)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		ClientID: clientID,
		Items:    []invoicedomain.LineItemRequest{{Description: "Design", Quantity: 1, Rate: 500}},
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, inv.Status)

	// Still inside the due window, nothing to flip.
	assert.Zero(t, sweeper.Sweep(ctx))

	fake.Advance(15 * 24 * time.Hour)
	assert.EqualValues(t, 1, sweeper.Sweep(ctx))

	stored, err := invoices.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusOverdue, stored.Status)

	// A second pass finds nothing left to change.
	assert.Zero(t, sweeper.Sweep(ctx))
}

func TestSweep_SkipsPaidInvoices(t *testing.T) {
	sweeper, invoices, fake, clientID := newSweeper(t)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		ClientID: clientID,
		Items:    []invoicedomain.LineItemRequest{{Description: "Design", Quantity: 1, Rate: 100}},
	})
	require.NoError(t, err)

	_, err = invoices.RecordPayment(ctx, invoicedomain.RecordPaymentRequest{ID: inv.ID.String(), Amount: inv.Total})
	require.NoError(t, err)

	fake.Advance(30 * 24 * time.Hour)
	assert.Zero(t, sweeper.Sweep(ctx))

	stored, err := invoices.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, stored.Status)
}
