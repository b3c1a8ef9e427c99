package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lancekit/lancekit/internal/client/domain"
	"github.com/lancekit/lancekit/pkg/db/option"
	"github.com/lancekit/lancekit/pkg/db/pagination"
	"github.com/lancekit/lancekit/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Client]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Client](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return domain.Client{}, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:          s.genID.Generate(),
		Name:        name,
		Company:     strings.TrimSpace(req.Company),
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		Status:      status,
		Tags:        datatypes.NewJSONSlice(tags),
		LastContact: req.LastContact,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	filter := &domain.Client{}
	opts := []option.QueryOption{}
	countOpts := []option.QueryOption{}

	if status := strings.TrimSpace(req.Status); status != "" && status != "all" {
		filter.Status = domain.ClientStatus(status)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		cond := option.ApplyOperator(option.Condition{Field: "name", Operator: option.Contains, Value: search})
		opts = append(opts, cond)
		countOpts = append(countOpts, cond)
	}

	page := req.Pagination.Normalized()
	opts = append(opts,
		option.WithSortBy(option.QuerySortBy{
			Field:     req.SortField,
			Direction: req.SortDirection,
			Allow:     map[string]bool{"name": true, "last_contact": true, "created_at": true},
		}),
		option.ApplyPagination(page),
	)

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListClientResponse{}, err
	}
	total, err := s.repo.Count(ctx, filter, countOpts...)
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}

	return domain.ListClientResponse{
		PageInfo: pagination.PageInfo{TotalCount: total, Limit: page.Limit, Offset: page.Offset},
		Clients:  clients,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Client, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || clientID == 0 {
		return domain.Client{}, domain.ErrInvalidID
	}

	client, err := s.repo.FindOne(ctx, &domain.Client{ID: clientID})
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return domain.Client{}, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return domain.Client{}, err
	}

	existing.Name = name
	existing.Company = strings.TrimSpace(req.Company)
	existing.Email = email
	existing.Phone = strings.TrimSpace(req.Phone)
	existing.Status = status
	existing.Tags = datatypes.NewJSONSlice(tags)
	existing.LastContact = req.LastContact
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing.ID, &existing, domain.UpdatableColumns()...); err != nil {
		return domain.Client{}, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}

func normalizeStatus(raw string) (domain.ClientStatus, error) {
	status := domain.ClientStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == "" {
		return domain.ClientStatusActive, nil
	}
	if !status.Valid() {
		return "", domain.ErrInvalidStatus
	}
	return status, nil
}

func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if seen[strings.ToLower(tag)] {
			return nil, domain.ErrDuplicateTag
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}
	return tags, nil
}
