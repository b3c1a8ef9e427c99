package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	expensedomain "github.com/lancekit/lancekit/internal/expense/domain"
	"github.com/lancekit/lancekit/internal/project/domain"
	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
	"github.com/lancekit/lancekit/internal/timeentry/engine"
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
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        repository.Repository[domain.Project]
	clientRepo  repository.Repository[clientdomain.Client]
	entryRepo   repository.Repository[timeentrydomain.TimeEntry]
	expenseRepo repository.Repository[expensedomain.Expense]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("project.service"),
		genID:       p.GenID,
		repo:        repository.ProvideStore[domain.Project](p.DB),
		clientRepo:  repository.ProvideStore[clientdomain.Client](p.DB),
		entryRepo:   repository.ProvideStore[timeentrydomain.TimeEntry](p.DB),
		expenseRepo: repository.ProvideStore[expensedomain.Expense](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProjectRequest) (domain.Project, error) {
	project, err := s.buildProject(ctx, req)
	if err != nil {
		return domain.Project{}, err
	}
	project.ID = s.genID.Generate()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.repo.Create(ctx, &project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProjectRequest) (domain.ListProjectResponse, error) {
	filter := &domain.Project{}
	opts := []option.QueryOption{}
	countOpts := []option.QueryOption{}

	if status := strings.TrimSpace(req.Status); status != "" && status != "all" {
		filter.Status = domain.ProjectStatus(status)
	}
	if clientID := strings.TrimSpace(req.ClientID); clientID != "" {
		parsed, err := snowflake.ParseString(clientID)
		if err != nil || parsed == 0 {
			return domain.ListProjectResponse{}, domain.ErrInvalidClient
		}
		filter.ClientID = parsed
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
			Allow:     map[string]bool{"name": true, "status": true, "start_date": true, "created_at": true},
		}),
		option.ApplyPagination(page),
	)

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListProjectResponse{}, err
	}
	total, err := s.repo.Count(ctx, filter, countOpts...)
	if err != nil {
		return domain.ListProjectResponse{}, err
	}

	projects := make([]domain.Project, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		projects = append(projects, *item)
	}

	return domain.ListProjectResponse{
		PageInfo: pagination.PageInfo{TotalCount: total, Limit: page.Limit, Offset: page.Offset},
		Projects: projects,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Project, error) {
	projectID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || projectID == 0 {
		return domain.Project{}, domain.ErrInvalidID
	}

	project, err := s.repo.FindOne(ctx, &domain.Project{ID: projectID})
	if err != nil {
		return domain.Project{}, err
	}
	if project == nil {
		return domain.Project{}, domain.ErrNotFound
	}
	return *project, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProjectRequest) (domain.Project, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Project{}, err
	}

	project, err := s.buildProject(ctx, req.CreateProjectRequest)
	if err != nil {
		return domain.Project{}, err
	}
	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, project.ID, &project, domain.UpdatableColumns()...); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}

// Summarize recomputes the project aggregates from the ledgers. Billable
// value is tracked hours priced at the project's current hourly rate.
func (s *Service) Summarize(ctx context.Context, id string) (domain.Summary, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Summary{}, err
	}

	entries, err := s.entryRepo.Find(ctx, &timeentrydomain.TimeEntry{ProjectID: project.ID})
	if err != nil {
		return domain.Summary{}, err
	}
	var totalHours float64
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		totalHours += entry.Duration
	}
	totalHours = engine.Round2(totalHours)

	items, err := s.expenseRepo.Find(ctx, &expensedomain.Expense{ProjectID: project.ID})
	if err != nil {
		return domain.Summary{}, err
	}
	expenses := make([]expensedomain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}

	byCategory := make(map[string]float64, len(expensedomain.Categories()))
	for category, amount := range expensedomain.ByCategory(expenses) {
		byCategory[string(category)] = amount
	}

	return domain.Summary{
		TotalHours:         totalHours,
		TotalBillable:      engine.Round2(totalHours * project.HourlyRate),
		TotalExpenses:      expensedomain.Total(expenses),
		ExpensesByCategory: byCategory,
	}, nil
}

func (s *Service) buildProject(ctx context.Context, req domain.CreateProjectRequest) (domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Project{}, domain.ErrInvalidName
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Project{}, domain.ErrInvalidClient
	}
	client, err := s.clientRepo.FindOne(ctx, &clientdomain.Client{ID: clientID})
	if err != nil {
		return domain.Project{}, err
	}
	if client == nil {
		return domain.Project{}, domain.ErrInvalidClient
	}

	status := domain.ProjectStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = domain.ProjectStatusPlanned
	}
	if !status.Valid() {
		return domain.Project{}, domain.ErrInvalidStatus
	}
	if req.Progress < 0 || req.Progress > 100 {
		return domain.Project{}, domain.ErrInvalidProgress
	}
	if req.HourlyRate < 0 {
		return domain.Project{}, domain.ErrInvalidRate
	}

	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return domain.Project{
		Name:        name,
		ClientID:    clientID,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Progress:    req.Progress,
		Description: strings.TrimSpace(req.Description),
		Tags:        datatypes.NewJSONSlice(tags),
		HourlyRate:  req.HourlyRate,
	}, nil
}
