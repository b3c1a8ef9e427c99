package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 14)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name       string
		total      float64
		amountPaid float64
		dueDate    time.Time
		want       InvoiceStatus
	}{
		{name: "unpaid before due date", total: 100, amountPaid: 0, dueDate: future, want: InvoiceStatusPending},
		{name: "partially paid before due date", total: 100, amountPaid: 40, dueDate: future, want: InvoiceStatusPending},
		{name: "fully paid", total: 100, amountPaid: 100, dueDate: future, want: InvoiceStatusPaid},
		{name: "paid wins over overdue", total: 100, amountPaid: 100, dueDate: past, want: InvoiceStatusPaid},
		{name: "past due unpaid", total: 100, amountPaid: 0, dueDate: past, want: InvoiceStatusOverdue},
		{name: "past due partially paid", total: 100, amountPaid: 99, dueDate: past, want: InvoiceStatusOverdue},
		{name: "zero total never reads as paid", total: 0, amountPaid: 0, dueDate: future, want: InvoiceStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.total, tt.amountPaid, tt.dueDate, now))
		})
	}
}
