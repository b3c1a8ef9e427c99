// Package domain contains persistence models for invoices and their line
// items, plus the status derivation rule shared by the service and the
// overdue sweeper.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus is the reconciliation state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}

type Invoice struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"uniqueIndex;not null" json:"invoice_number"`
	ClientID      snowflake.ID  `gorm:"not null;index" json:"client_id"`
	ProjectID     snowflake.ID  `gorm:"index" json:"project_id,omitempty"`
	IssueDate     time.Time     `gorm:"not null" json:"issue_date"`
	DueDate       time.Time     `gorm:"not null" json:"due_date"`
	Status        InvoiceStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      float64       `gorm:"not null;default:0" json:"subtotal"`
	Tax           float64       `gorm:"not null;default:0" json:"tax"`
	Total         float64       `gorm:"not null;default:0" json:"total"`
	AmountPaid    float64       `gorm:"not null;default:0" json:"amount_paid"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

func UpdatableColumns() []string {
	return []string{"client_id", "project_id", "issue_date", "due_date", "status", "subtotal", "tax", "total", "amount_paid", "payment_date", "notes", "updated_at"}
}

// Balance is the unpaid remainder.
func (i Invoice) Balance() float64 { return i.Total - i.AmountPaid }

type InvoiceItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Position    int          `gorm:"not null;default:0" json:"position"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Quantity    float64      `gorm:"not null" json:"quantity"`
	Rate        float64      `gorm:"not null" json:"rate"`
	Amount      float64      `gorm:"not null" json:"amount"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceSequence is the per-year number counter. Incremented inside the
// invoice creation transaction so concurrent creates never collide.
type InvoiceSequence struct {
	Year      int       `gorm:"primaryKey" json:"year"`
	Seq       int64     `gorm:"not null;default:0" json:"seq"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (InvoiceSequence) TableName() string { return "invoice_sequences" }

// DeriveStatus recomputes the status from the amounts and due date. Paid
// wins over overdue; a fully paid invoice never regresses.
func DeriveStatus(total, amountPaid float64, dueDate, now time.Time) InvoiceStatus {
	if total > 0 && amountPaid >= total {
		return InvoiceStatusPaid
	}
	if now.After(dueDate) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusPending
}
