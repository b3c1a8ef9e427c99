// Package engine holds the pure invoice arithmetic: line amount and totals
// derivation plus payment reconciliation. Nothing here touches storage.
package engine

import (
	"math"
	"time"

	"github.com/lancekit/lancekit/internal/invoice/domain"
)

// Round2 rounds to cents after every arithmetic step to keep float drift
// out of stored monetary fields.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Totals carries the derived monetary fields of an invoice.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// RecomputeTotals rederives each item amount from quantity and rate, then
// the subtotal, tax and total. Items are mutated in place so stored rows
// keep the amount invariant.
func RecomputeTotals(items []domain.InvoiceItem, taxRate float64) Totals {
	var subtotal float64
	for i := range items {
		items[i].Amount = Round2(items[i].Quantity * items[i].Rate)
		subtotal += items[i].Amount
	}
	subtotal = Round2(subtotal)
	tax := Round2(subtotal * taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Round2(subtotal + tax),
	}
}

// ApplyPayment adds a payment to the invoice and rederives its status.
// The amount must be positive and must not exceed the remaining balance.
func ApplyPayment(invoice domain.Invoice, amount float64, today time.Time) (domain.Invoice, error) {
	if amount <= 0 {
		return invoice, domain.ErrPaymentNotPositive
	}
	if amount > Round2(invoice.Total-invoice.AmountPaid) {
		return invoice, domain.ErrPaymentExceedsBalance
	}

	invoice.AmountPaid = Round2(invoice.AmountPaid + amount)
	paidAt := today
	invoice.PaymentDate = &paidAt
	invoice.Status = domain.DeriveStatus(invoice.Total, invoice.AmountPaid, invoice.DueDate, today)
	return invoice, nil
}
