package domain

import (
	"context"
	"errors"

	"github.com/lancekit/lancekit/pkg/db/pagination"
)

type CreateExpenseRequest struct {
	ProjectID    string  `json:"project_id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Receipt      string  `json:"receipt"`
	Billable     bool    `json:"billable"`
	Reimbursable bool    `json:"reimbursable"`
}

type UpdateExpenseRequest struct {
	ID string
	CreateExpenseRequest
}

type ListExpenseRequest struct {
	pagination.Pagination
	ProjectID string
	Category  string
	DateFrom  string
	DateTo    string
	Billable  *bool
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
	Total    float64   `json:"total"`
}

type Service interface {
	Create(context.Context, CreateExpenseRequest) (Expense, error)
	List(context.Context, ListExpenseRequest) (ListExpenseResponse, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	Update(context.Context, UpdateExpenseRequest) (Expense, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidProject     = errors.New("invalid_project")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrNotFound           = errors.New("not_found")
)
