package domain

import (
	"context"
	"errors"
	"time"

	"github.com/lancekit/lancekit/pkg/db/pagination"
)

type LineItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

type CreateInvoiceRequest struct {
	ClientID  string            `json:"client_id"`
	ProjectID string            `json:"project_id"`
	IssueDate *time.Time        `json:"issue_date"`
	DueDate   *time.Time        `json:"due_date"`
	Items     []LineItemRequest `json:"items"`
	Notes     string            `json:"notes"`
}

type UpdateInvoiceRequest struct {
	ID string
	CreateInvoiceRequest
}

type RecordPaymentRequest struct {
	ID     string
	Amount float64 `json:"amount"`
}

type ListInvoiceRequest struct {
	pagination.Pagination
	ClientID      string
	ProjectID     string
	Status        string
	SortField     string
	SortDirection string
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error

	// RecordPayment applies a partial or full payment and rederives
	// the status. Overpayment is rejected.
	RecordPayment(context.Context, RecordPaymentRequest) (Invoice, error)

	// MarkOverdue flips every pending invoice whose due date has passed
	// and returns how many rows changed. Called by the sweep loop.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

var (
	ErrInvalidClient         = errors.New("invalid_client")
	ErrInvalidProject        = errors.New("invalid_project")
	ErrNoItems               = errors.New("invoice_requires_items")
	ErrInvalidItem           = errors.New("invalid_line_item")
	ErrPaymentNotPositive    = errors.New("payment_not_positive")
	ErrPaymentExceedsBalance = errors.New("payment_exceeds_balance")
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("not_found")
)
