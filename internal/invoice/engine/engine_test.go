package engine

import (
	"testing"
	"time"

	"github.com/lancekit/lancekit/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
)

func items(rows ...[2]float64) []domain.InvoiceItem {
	out := make([]domain.InvoiceItem, len(rows))
	for i, row := range rows {
		out[i] = domain.InvoiceItem{Quantity: row[0], Rate: row[1]}
	}
	return out
}

func TestRecomputeTotals(t *testing.T) {
	list := items([2]float64{2, 100}, [2]float64{1, 50})

	totals := RecomputeTotals(list, 0.10)

	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.Tax)
	assert.Equal(t, 275.0, totals.Total)
	assert.Equal(t, 200.0, list[0].Amount)
	assert.Equal(t, 50.0, list[1].Amount)
}

func TestRecomputeTotals_RoundsEveryStep(t *testing.T) {
	// 3 * 33.335 = 100.005, which must land on a cent before summing.
	list := items([2]float64{3, 33.335})

	totals := RecomputeTotals(list, 0.10)

	assert.Equal(t, 100.01, list[0].Amount)
	assert.Equal(t, 100.01, totals.Subtotal)
	assert.Equal(t, 10.0, totals.Tax)
	assert.Equal(t, 110.01, totals.Total)
}

func TestRecomputeTotals_EmptyList(t *testing.T) {
	totals := RecomputeTotals(nil, 0.10)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Tax)
	assert.Equal(t, 0.0, totals.Total)
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	invoice := domain.Invoice{
		Total:   275,
		DueDate: now.AddDate(0, 0, 14),
		Status:  domain.InvoiceStatusPending,
	}

	invoice, err := ApplyPayment(invoice, 100, now)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, invoice.AmountPaid)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.NotNil(t, invoice.PaymentDate)

	invoice, err = ApplyPayment(invoice, 175, now)
	assert.NoError(t, err)
	assert.Equal(t, 275.0, invoice.AmountPaid)
	assert.Equal(t, domain.InvoiceStatusPaid, invoice.Status)
}

func TestApplyPayment_RejectsNonPositive(t *testing.T) {
	invoice := domain.Invoice{Total: 100}

	for _, amount := range []float64{0, -5} {
		_, err := ApplyPayment(invoice, amount, time.Now())
		assert.ErrorIs(t, err, domain.ErrPaymentNotPositive)
	}
}

func TestApplyPayment_RejectsOverpayment(t *testing.T) {
	invoice := domain.Invoice{Total: 100, AmountPaid: 40}

	updated, err := ApplyPayment(invoice, 70, time.Now())
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsBalance)
	assert.Equal(t, 40.0, updated.AmountPaid)
	assert.Nil(t, updated.PaymentDate)
}

func TestApplyPayment_ExactBalanceAllowed(t *testing.T) {
	invoice := domain.Invoice{Total: 100, AmountPaid: 40, DueDate: time.Now().AddDate(0, 0, 7)}

	updated, err := ApplyPayment(invoice, 60, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 100.0, updated.AmountPaid)
	assert.Equal(t, domain.InvoiceStatusPaid, updated.Status)
}
