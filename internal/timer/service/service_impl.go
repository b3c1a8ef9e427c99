package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/observability/metrics"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/internal/timeentry/engine"
	"github.com/lancekit/lancekit/internal/timer/domain"
	"github.com/lancekit/lancekit/pkg/db"
	"github.com/lancekit/lancekit/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	metrics     *metrics.Metrics
	repo        repository.Repository[domain.ActiveTimer]
	projectRepo repository.Repository[projectdomain.Project]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("timer.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		metrics:     p.Metrics,
		repo:        repository.ProvideStore[domain.ActiveTimer](p.DB),
		projectRepo: repository.ProvideStore[projectdomain.Project](p.DB),
	}
}

func (s *Service) Start(ctx context.Context, projectID string) (domain.TimerStatus, error) {
	project, err := s.resolveProject(ctx, projectID)
	if err != nil {
		return domain.TimerStatus{}, err
	}

	now := s.clock.Now()
	timer := domain.ActiveTimer{
		ID:        s.genID.Generate(),
		ProjectID: project.ID,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, &timer); err != nil {
		// The unique index on project_id is the concurrency guard: two
		// racing starts resolve to one winner here.
		if db.IsDuplicateKeyErr(err) {
			return domain.TimerStatus{}, domain.ErrTimerActive
		}
		return domain.TimerStatus{}, err
	}

	s.log.Info("timer started", zap.String("project", project.Name))
	return s.status(timer, now), nil
}

func (s *Service) Get(ctx context.Context, projectID string) (domain.TimerStatus, error) {
	timer, err := s.find(ctx, projectID)
	if err != nil {
		return domain.TimerStatus{}, err
	}
	return s.status(*timer, s.clock.Now()), nil
}

func (s *Service) Pause(ctx context.Context, projectID string) (domain.TimerStatus, error) {
	timer, err := s.find(ctx, projectID)
	if err != nil {
		return domain.TimerStatus{}, err
	}
	if timer.State() == domain.TimerStatePaused {
		return domain.TimerStatus{}, domain.ErrAlreadyPaused
	}

	now := s.clock.Now()
	timer.Pause(now)
	timer.UpdatedAt = now
	if err := s.repo.Update(ctx, timer.ID, timer, "paused_at", "updated_at"); err != nil {
		return domain.TimerStatus{}, err
	}
	return s.status(*timer, now), nil
}

func (s *Service) Resume(ctx context.Context, projectID string) (domain.TimerStatus, error) {
	timer, err := s.find(ctx, projectID)
	if err != nil {
		return domain.TimerStatus{}, err
	}
	if timer.State() != domain.TimerStatePaused {
		return domain.TimerStatus{}, domain.ErrNotPaused
	}

	now := s.clock.Now()
	timer.Resume(now)
	timer.UpdatedAt = now
	if err := s.repo.Update(ctx, timer.ID, map[string]any{
		"paused_at":      nil,
		"paused_seconds": timer.PausedSeconds,
		"updated_at":     now,
	}); err != nil {
		return domain.TimerStatus{}, err
	}
	return s.status(*timer, now), nil
}

func (s *Service) Stop(ctx context.Context, projectID string) (domain.StopResult, error) {
	timer, err := s.find(ctx, projectID)
	if err != nil {
		return domain.StopResult{}, err
	}
	project, err := s.resolveProject(ctx, projectID)
	if err != nil {
		return domain.StopResult{}, err
	}

	now := s.clock.Now()
	// A paused timer stops where it was paused.
	timer.Resume(now)
	elapsed := timer.Elapsed(now)

	if err := s.repo.Delete(ctx, timer.ID); err != nil {
		return domain.StopResult{}, err
	}

	end := timer.StartedAt.Add(elapsed + time.Duration(timer.PausedSeconds)*time.Second)
	draft := timeentrydomain.CreateTimeEntryRequest{
		ProjectID:   project.ID.String(),
		Date:        timer.StartedAt.Format("2006-01-02"),
		StartTime:   timer.StartedAt.Format("15:04"),
		EndTime:     end.Format("15:04"),
		Description: fmt.Sprintf("Work on %s", project.Name),
	}

	s.metrics.RecordTimerStop(ctx)
	s.log.Info("timer stopped",
		zap.String("project", project.Name),
		zap.Float64("hours", engine.Round2(elapsed.Hours())),
	)
	return domain.StopResult{
		ElapsedSeconds: int64(elapsed.Seconds()),
		Draft:          draft,
	}, nil
}

func (s *Service) find(ctx context.Context, projectID string) (*domain.ActiveTimer, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(projectID))
	if err != nil || parsed == 0 {
		return nil, domain.ErrInvalidProject
	}
	timer, err := s.repo.FindOne(ctx, &domain.ActiveTimer{ProjectID: parsed})
	if err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, domain.ErrNoTimer
	}
	return timer, nil
}

func (s *Service) resolveProject(ctx context.Context, projectID string) (*projectdomain.Project, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(projectID))
	if err != nil || parsed == 0 {
		return nil, domain.ErrInvalidProject
	}
	project, err := s.projectRepo.FindOne(ctx, &projectdomain.Project{ID: parsed})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrInvalidProject
	}
	return project, nil
}

func (s *Service) status(timer domain.ActiveTimer, now time.Time) domain.TimerStatus {
	return domain.TimerStatus{
		Timer:          timer,
		State:          timer.State(),
		ElapsedSeconds: int64(timer.Elapsed(now).Seconds()),
	}
}
