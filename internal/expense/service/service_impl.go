package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lancekit/lancekit/internal/expense/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/pkg/db/option"
	"github.com/lancekit/lancekit/pkg/db/pagination"
	"github.com/lancekit/lancekit/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

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
	repo        repository.Repository[domain.Expense]
	projectRepo repository.Repository[projectdomain.Project]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("expense.service"),
		genID:       p.GenID,
		repo:        repository.ProvideStore[domain.Expense](p.DB),
		projectRepo: repository.ProvideStore[projectdomain.Project](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	expense, err := s.buildExpense(ctx, req)
	if err != nil {
		return domain.Expense{}, err
	}
	expense.ID = s.genID.Generate()
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	if err := s.repo.Create(ctx, &expense); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	filter := &domain.Expense{}
	opts := []option.QueryOption{}
	countOpts := []option.QueryOption{}

	if projectID := strings.TrimSpace(req.ProjectID); projectID != "" {
		parsed, err := snowflake.ParseString(projectID)
		if err != nil || parsed == 0 {
			return domain.ListExpenseResponse{}, domain.ErrInvalidProject
		}
		filter.ProjectID = parsed
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		if !domain.Category(category).Valid() {
			return domain.ListExpenseResponse{}, domain.ErrInvalidCategory
		}
		filter.Category = domain.Category(category)
	}
	if req.Billable != nil {
		cond := option.ApplyOperator(option.Condition{Field: "billable", Operator: option.EQ, Value: *req.Billable})
		opts = append(opts, cond)
		countOpts = append(countOpts, cond)
	}
	for _, rng := range []struct {
		raw      string
		operator option.Operator
	}{
		{req.DateFrom, option.GTE},
		{req.DateTo, option.LTE},
	} {
		if strings.TrimSpace(rng.raw) == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(rng.raw))
		if err != nil {
			return domain.ListExpenseResponse{}, domain.ErrInvalidDate
		}
		cond := option.ApplyOperator(option.Condition{Field: "date", Operator: rng.operator, Value: parsed})
		opts = append(opts, cond)
		countOpts = append(countOpts, cond)
	}

	page := req.Pagination.Normalized()
	opts = append(opts,
		option.WithSortBy(option.QuerySortBy{Field: "date", Allow: map[string]bool{"date": true, "amount": true, "created_at": true}}),
		option.ApplyPagination(page),
	)

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}
	total, err := s.repo.Count(ctx, filter, countOpts...)
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}

	return domain.ListExpenseResponse{
		PageInfo: pagination.PageInfo{TotalCount: total, Limit: page.Limit, Offset: page.Offset},
		Expenses: expenses,
		Total:    domain.Total(expenses),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Expense, error) {
	expenseID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || expenseID == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	expense, err := s.repo.FindOne(ctx, &domain.Expense{ID: expenseID})
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	return *expense, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateExpenseRequest) (domain.Expense, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Expense{}, err
	}

	expense, err := s.buildExpense(ctx, req.CreateExpenseRequest)
	if err != nil {
		return domain.Expense{}, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, expense.ID, &expense, domain.UpdatableColumns()...); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}

func (s *Service) buildExpense(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil || projectID == 0 {
		return domain.Expense{}, domain.ErrInvalidProject
	}
	project, err := s.projectRepo.FindOne(ctx, &projectdomain.Project{ID: projectID})
	if err != nil {
		return domain.Expense{}, err
	}
	if project == nil {
		return domain.Expense{}, domain.ErrInvalidProject
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return domain.Expense{}, domain.ErrInvalidDate
	}
	if req.Amount <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	category := domain.Category(strings.TrimSpace(req.Category))
	if !category.Valid() {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Expense{}, domain.ErrInvalidDescription
	}

	return domain.Expense{
		ProjectID:    projectID,
		Date:         date.UTC(),
		Amount:       req.Amount,
		Category:     category,
		Description:  description,
		Receipt:      strings.TrimSpace(req.Receipt),
		Billable:     req.Billable,
		Reimbursable: req.Reimbursable,
	}, nil
}
