package domain

import (
	"context"
	"errors"
	"time"

	"github.com/lancekit/lancekit/pkg/db/pagination"
)

type CreateProjectRequest struct {
	Name        string     `json:"name"`
	ClientID    string     `json:"client_id"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      float64    `json:"budget"`
	Progress    int        `json:"progress"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	HourlyRate  float64    `json:"hourly_rate"`
}

type UpdateProjectRequest struct {
	ID string
	CreateProjectRequest
}

type ListProjectRequest struct {
	pagination.Pagination
	Search        string
	Status        string
	ClientID      string
	SortField     string
	SortDirection string
}

type ListProjectResponse struct {
	pagination.PageInfo
	Projects []Project `json:"projects"`
}

type Service interface {
	Create(context.Context, CreateProjectRequest) (Project, error)
	List(context.Context, ListProjectRequest) (ListProjectResponse, error)
	GetByID(ctx context.Context, id string) (Project, error)
	Update(context.Context, UpdateProjectRequest) (Project, error)
	Delete(ctx context.Context, id string) error

	// Summarize computes the derived hour, billing and expense aggregates.
	Summarize(ctx context.Context, id string) (Summary, error)
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidClient   = errors.New("invalid_client")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidProgress = errors.New("invalid_progress")
	ErrInvalidRate     = errors.New("invalid_hourly_rate")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
