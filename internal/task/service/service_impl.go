package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/internal/task/domain"
	"github.com/lancekit/lancekit/pkg/db/option"
	"github.com/lancekit/lancekit/pkg/db/pagination"
	"github.com/lancekit/lancekit/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
	repo        repository.Repository[domain.Task]
	projectRepo repository.Repository[projectdomain.Project]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("task.service"),
		genID:       p.GenID,
		repo:        repository.ProvideStore[domain.Task](p.DB),
		projectRepo: repository.ProvideStore[projectdomain.Project](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
	task, err := s.buildTask(ctx, req)
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = s.genID.Generate()
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Create(ctx, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTaskRequest) (domain.ListTaskResponse, error) {
	filter := &domain.Task{}
	opts := []option.QueryOption{}

	if projectID := strings.TrimSpace(req.ProjectID); projectID != "" {
		parsed, err := snowflake.ParseString(projectID)
		if err != nil || parsed == 0 {
			return domain.ListTaskResponse{}, domain.ErrInvalidProject
		}
		filter.ProjectID = parsed
	}
	if status := strings.TrimSpace(req.Status); status != "" && status != "all" {
		filter.Status = domain.TaskStatus(status)
	}
	if priority := strings.TrimSpace(req.Priority); priority != "" && priority != "all" {
		filter.Priority = domain.TaskPriority(priority)
	}
	page := req.Pagination.Normalized()
	opts = append(opts,
		option.WithSortBy(option.QuerySortBy{
			Field:     req.SortField,
			Direction: req.SortDirection,
			Allow:     map[string]bool{"due_date": true, "priority": true, "created_at": true},
		}),
		option.ApplyPagination(page),
	)

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListTaskResponse{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return domain.ListTaskResponse{}, err
	}

	tasks := make([]domain.Task, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		tasks = append(tasks, *item)
	}

	return domain.ListTaskResponse{
		PageInfo: pagination.PageInfo{TotalCount: total, Limit: page.Limit, Offset: page.Offset},
		Tasks:    tasks,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Task, error) {
	taskID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || taskID == 0 {
		return domain.Task{}, domain.ErrInvalidID
	}

	task, err := s.repo.FindOne(ctx, &domain.Task{ID: taskID})
	if err != nil {
		return domain.Task{}, err
	}
	if task == nil {
		return domain.Task{}, domain.ErrNotFound
	}
	return *task, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTaskRequest) (domain.Task, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Task{}, err
	}

	task, err := s.buildTask(ctx, req.CreateTaskRequest)
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task.ID, &task, domain.UpdatableColumns()...); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status string) (domain.Task, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	next := domain.TaskStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return domain.Task{}, domain.ErrInvalidStatus
	}

	existing.Status = next
	existing.Completed = next == domain.TaskStatusCompleted
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing.ID, &existing, "status", "completed", "updated_at"); err != nil {
		return domain.Task{}, err
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

func (s *Service) buildTask(ctx context.Context, req domain.CreateTaskRequest) (domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Task{}, domain.ErrInvalidTitle
	}

	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil || projectID == 0 {
		return domain.Task{}, domain.ErrInvalidProject
	}
	project, err := s.projectRepo.FindOne(ctx, &projectdomain.Project{ID: projectID})
	if err != nil {
		return domain.Task{}, err
	}
	if project == nil {
		return domain.Task{}, domain.ErrInvalidProject
	}

	status := domain.TaskStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = domain.TaskStatusNotStarted
	}
	if !status.Valid() {
		return domain.Task{}, domain.ErrInvalidStatus
	}
	priority := domain.TaskPriority(strings.ToLower(strings.TrimSpace(req.Priority)))
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.Valid() {
		return domain.Task{}, domain.ErrInvalidPriority
	}

	return domain.Task{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		ProjectID:   projectID,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		Completed:   status == domain.TaskStatusCompleted,
	}, nil
}
