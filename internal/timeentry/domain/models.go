// Package domain contains persistence models for time entries.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TimeEntry struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID   snowflake.ID `gorm:"not null;index" json:"project_id"`
	Date        time.Time    `gorm:"not null" json:"date"`
	StartTime   string       `gorm:"type:text;not null" json:"start_time"`
	EndTime     string       `gorm:"type:text;not null" json:"end_time"`
	Duration    float64      `gorm:"not null" json:"duration"`
	Description string       `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TimeEntry) TableName() string { return "time_entries" }

func UpdatableColumns() []string {
	return []string{"project_id", "date", "start_time", "end_time", "duration", "description", "updated_at"}
}
