// Package domain contains persistence models for projects.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ProjectStatus represents the project lifecycle state.
type ProjectStatus string

const (
	ProjectStatusPlanned    ProjectStatus = "planned"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	default:
		return false
	}
}

type Project struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	ClientID    snowflake.ID                `gorm:"not null;index" json:"client_id"`
	Status      ProjectStatus               `gorm:"type:text;not null;default:'planned'" json:"status"`
	StartDate   *time.Time                  `json:"start_date,omitempty"`
	EndDate     *time.Time                  `json:"end_date,omitempty"`
	Budget      float64                     `gorm:"not null;default:0" json:"budget"`
	Progress    int                         `gorm:"not null;default:0" json:"progress"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	HourlyRate  float64                     `gorm:"not null;default:0" json:"hourly_rate"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

func UpdatableColumns() []string {
	return []string{"name", "client_id", "status", "start_date", "end_date", "budget", "progress", "description", "tags", "hourly_rate", "updated_at"}
}

// Summary carries the derived project aggregates. Never stored; recomputed
// from time entries and expenses on demand.
type Summary struct {
	TotalHours         float64            `json:"total_hours"`
	TotalBillable      float64            `json:"total_billable"`
	TotalExpenses      float64            `json:"total_expenses"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
}
