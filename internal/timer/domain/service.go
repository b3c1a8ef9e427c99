package domain

import (
	"context"
	"errors"

	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
)

// TimerStatus is the wire view of an active timer.
type TimerStatus struct {
	Timer          ActiveTimer `json:"timer"`
	State          TimerState  `json:"state"`
	ElapsedSeconds int64       `json:"elapsed_seconds"`
}

// StopResult carries the draft entry built from a stopped timer. The draft
// is not persisted; the caller confirms or edits it through the normal
// time entry form.
type StopResult struct {
	ElapsedSeconds int64                                  `json:"elapsed_seconds"`
	Draft          timeentrydomain.CreateTimeEntryRequest `json:"draft"`
}

type Service interface {
	Start(ctx context.Context, projectID string) (TimerStatus, error)
	Get(ctx context.Context, projectID string) (TimerStatus, error)
	Pause(ctx context.Context, projectID string) (TimerStatus, error)
	Resume(ctx context.Context, projectID string) (TimerStatus, error)
	Stop(ctx context.Context, projectID string) (StopResult, error)
}

var (
	ErrInvalidProject = errors.New("invalid_project")
	ErrTimerActive    = errors.New("timer_already_active")
	ErrNoTimer        = errors.New("no_active_timer")
	ErrAlreadyPaused  = errors.New("timer_already_paused")
	ErrNotPaused      = errors.New("timer_not_paused")
)
