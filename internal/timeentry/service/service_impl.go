package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/internal/timeentry/domain"
	"github.com/lancekit/lancekit/internal/timeentry/engine"
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
	repo        repository.Repository[domain.TimeEntry]
	projectRepo repository.Repository[projectdomain.Project]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("timeentry.service"),
		genID:       p.GenID,
		repo:        repository.ProvideStore[domain.TimeEntry](p.DB),
		projectRepo: repository.ProvideStore[projectdomain.Project](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTimeEntryRequest) (domain.TimeEntry, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.ID = s.genID.Generate()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.repo.Create(ctx, &entry); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTimeEntryRequest) (domain.ListTimeEntryResponse, error) {
	filter := &domain.TimeEntry{}
	opts := []option.QueryOption{}
	countOpts := []option.QueryOption{}

	if projectID := strings.TrimSpace(req.ProjectID); projectID != "" {
		parsed, err := snowflake.ParseString(projectID)
		if err != nil || parsed == 0 {
			return domain.ListTimeEntryResponse{}, domain.ErrInvalidProject
		}
		filter.ProjectID = parsed
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
			return domain.ListTimeEntryResponse{}, domain.ErrInvalidDate
		}
		cond := option.ApplyOperator(option.Condition{Field: "date", Operator: rng.operator, Value: parsed})
		opts = append(opts, cond)
		countOpts = append(countOpts, cond)
	}

	page := req.Pagination.Normalized()
	opts = append(opts,
		option.WithSortBy(option.QuerySortBy{Field: "date", Allow: map[string]bool{"date": true, "created_at": true}}),
		option.ApplyPagination(page),
	)

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListTimeEntryResponse{}, err
	}
	total, err := s.repo.Count(ctx, filter, countOpts...)
	if err != nil {
		return domain.ListTimeEntryResponse{}, err
	}

	entries := make([]domain.TimeEntry, 0, len(items))
	var totalHours float64
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
		totalHours += item.Duration
	}

	return domain.ListTimeEntryResponse{
		PageInfo:   pagination.PageInfo{TotalCount: total, Limit: page.Limit, Offset: page.Offset},
		Entries:    entries,
		TotalHours: engine.Round2(totalHours),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.TimeEntry, error) {
	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || entryID == 0 {
		return domain.TimeEntry{}, domain.ErrInvalidID
	}

	entry, err := s.repo.FindOne(ctx, &domain.TimeEntry{ID: entryID})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if entry == nil {
		return domain.TimeEntry{}, domain.ErrNotFound
	}
	return *entry, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTimeEntryRequest) (domain.TimeEntry, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	entry, err := s.buildEntry(ctx, req.CreateTimeEntryRequest)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, entry.ID, &entry, domain.UpdatableColumns()...); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}

// buildEntry validates the form fields and derives the duration.
func (s *Service) buildEntry(ctx context.Context, req domain.CreateTimeEntryRequest) (domain.TimeEntry, error) {
	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil || projectID == 0 {
		return domain.TimeEntry{}, domain.ErrInvalidProject
	}
	project, err := s.projectRepo.FindOne(ctx, &projectdomain.Project{ID: projectID})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	if project == nil {
		return domain.TimeEntry{}, domain.ErrInvalidProject
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return domain.TimeEntry{}, domain.ErrInvalidDate
	}

	startTime := strings.TrimSpace(req.StartTime)
	if startTime == "" {
		return domain.TimeEntry{}, domain.ErrInvalidStartTime
	}
	endTime := strings.TrimSpace(req.EndTime)
	if endTime == "" {
		return domain.TimeEntry{}, domain.ErrInvalidEndTime
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.TimeEntry{}, domain.ErrInvalidDescription
	}

	duration, err := engine.ComputeDuration(startTime, endTime)
	if err != nil {
		return domain.TimeEntry{}, domain.ErrInvalidStartTime
	}
	// Ordering only fails the entry when the wrap-corrected duration is also
	// non-positive: end==start yields zero, which is never a valid entry.
	if endTime <= startTime && duration <= 0 {
		return domain.TimeEntry{}, domain.ErrEndBeforeStart
	}

	return domain.TimeEntry{
		ProjectID:   projectID,
		Date:        date.UTC(),
		StartTime:   startTime,
		EndTime:     endTime,
		Duration:    duration,
		Description: description,
	}, nil
}
