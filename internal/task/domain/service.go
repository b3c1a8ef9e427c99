package domain

import (
	"context"
	"errors"
	"time"

	"github.com/lancekit/lancekit/pkg/db/pagination"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	ID string
	CreateTaskRequest
}

type ListTaskRequest struct {
	pagination.Pagination
	ProjectID     string
	Status        string
	Priority      string
	SortField     string
	SortDirection string
}

type ListTaskResponse struct {
	pagination.PageInfo
	Tasks []Task `json:"tasks"`
}

type Service interface {
	Create(context.Context, CreateTaskRequest) (Task, error)
	List(context.Context, ListTaskRequest) (ListTaskResponse, error)
	GetByID(ctx context.Context, id string) (Task, error)
	Update(context.Context, UpdateTaskRequest) (Task, error)

	// SetStatus moves the task through the workflow and keeps the
	// completed flag in lockstep with the completed status.
	SetStatus(ctx context.Context, id string, status string) (Task, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidProject  = errors.New("invalid_project")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
