package domain

import (
	"context"
	"errors"
	"time"

	"github.com/lancekit/lancekit/pkg/db/pagination"
)

type CreateClientRequest struct {
	Name        string     `json:"name"`
	Company     string     `json:"company"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	LastContact *time.Time `json:"last_contact"`
}

type UpdateClientRequest struct {
	ID string
	CreateClientRequest
}

type ListClientRequest struct {
	pagination.Pagination
	Search        string
	Status        string
	SortField     string
	SortDirection string
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	List(context.Context, ListClientRequest) (ListClientResponse, error)
	GetByID(ctx context.Context, id string) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrDuplicateTag  = errors.New("duplicate_tag")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
