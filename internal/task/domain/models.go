// Package domain contains persistence models for tasks.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaskStatus represents the task workflow state.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not-started"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusInReview   TaskStatus = "in-review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOnHold     TaskStatus = "on-hold"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusInReview, TaskStatusCompleted, TaskStatusOnHold:
		return true
	default:
		return false
	}
}

// TaskPriority orders tasks for planning.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	ProjectID   snowflake.ID `gorm:"not null;index" json:"project_id"`
	Status      TaskStatus   `gorm:"type:text;not null;default:'not-started'" json:"status"`
	Priority    TaskPriority `gorm:"type:text;not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "tasks" }

func UpdatableColumns() []string {
	return []string{"title", "description", "project_id", "status", "priority", "due_date", "completed", "updated_at"}
}
