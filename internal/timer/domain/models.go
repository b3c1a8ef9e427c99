// Package domain contains the active timer model and its state machine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TimerState is the lifecycle state of an active timer. A stopped timer
// has no row; stopping deletes it and hands back a draft time entry.
type TimerState string

const (
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
)

// ActiveTimer is one running or paused stopwatch. At most one exists per
// project, enforced by the unique index.
type ActiveTimer struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID      snowflake.ID `gorm:"uniqueIndex;not null" json:"project_id"`
	StartedAt      time.Time    `gorm:"not null" json:"started_at"`
	PausedAt       *time.Time   `json:"paused_at,omitempty"`
	PausedSeconds  int64        `gorm:"not null;default:0" json:"paused_seconds"`
	ElapsedSeconds int64        `gorm:"not null;default:0" json:"elapsed_seconds"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ActiveTimer) TableName() string { return "active_timers" }

func (t ActiveTimer) State() TimerState {
	if t.PausedAt != nil {
		return TimerStatePaused
	}
	return TimerStateRunning
}

// Elapsed is the worked duration up to now, excluding paused stretches.
func (t ActiveTimer) Elapsed(now time.Time) time.Duration {
	end := now
	if t.PausedAt != nil {
		end = *t.PausedAt
	}
	elapsed := end.Sub(t.StartedAt) - time.Duration(t.PausedSeconds)*time.Second
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Pause freezes elapsed accumulation. Pausing twice is a no-op.
func (t *ActiveTimer) Pause(now time.Time) {
	if t.PausedAt != nil {
		return
	}
	paused := now
	t.PausedAt = &paused
}

// Resume folds the finished pause stretch into PausedSeconds.
func (t *ActiveTimer) Resume(now time.Time) {
	if t.PausedAt == nil {
		return
	}
	t.PausedSeconds += int64(now.Sub(*t.PausedAt).Seconds())
	t.PausedAt = nil
}
