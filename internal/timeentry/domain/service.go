package domain

import (
	"context"
	"errors"

	"github.com/lancekit/lancekit/pkg/db/pagination"
)

type CreateTimeEntryRequest struct {
	ProjectID   string `json:"project_id"`
	Date        string `json:"date"`       // YYYY-MM-DD
	StartTime   string `json:"start_time"` // HH:MM
	EndTime     string `json:"end_time"`   // HH:MM
	Description string `json:"description"`
}

type UpdateTimeEntryRequest struct {
	ID string
	CreateTimeEntryRequest
}

type ListTimeEntryRequest struct {
	pagination.Pagination
	ProjectID string
	DateFrom  string
	DateTo    string
}

type ListTimeEntryResponse struct {
	pagination.PageInfo
	Entries    []TimeEntry `json:"entries"`
	TotalHours float64     `json:"total_hours"`
}

type Service interface {
	Create(context.Context, CreateTimeEntryRequest) (TimeEntry, error)
	List(context.Context, ListTimeEntryRequest) (ListTimeEntryResponse, error)
	GetByID(ctx context.Context, id string) (TimeEntry, error)
	Update(context.Context, UpdateTimeEntryRequest) (TimeEntry, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidProject     = errors.New("invalid_project")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrInvalidStartTime   = errors.New("invalid_start_time")
	ErrInvalidEndTime     = errors.New("invalid_end_time")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrEndBeforeStart     = errors.New("end_before_start")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
