// Package domain contains persistence models for expenses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category is the fixed expense classification set.
type Category string

const (
	CategorySoftware       Category = "Software"
	CategoryHardware       Category = "Hardware"
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryTravel         Category = "Travel"
	CategoryMeals          Category = "Meals"
	CategorySubscription   Category = "Subscription"
	CategoryContractor     Category = "Contractor"
	CategoryMarketing      Category = "Marketing"
	CategoryOther          Category = "Other"
)

func Categories() []Category {
	return []Category{
		CategorySoftware,
		CategoryHardware,
		CategoryOfficeSupplies,
		CategoryTravel,
		CategoryMeals,
		CategorySubscription,
		CategoryContractor,
		CategoryMarketing,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

type Expense struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID    snowflake.ID `gorm:"not null;index" json:"project_id"`
	Date         time.Time    `gorm:"not null" json:"date"`
	Amount       float64      `gorm:"not null" json:"amount"`
	Category     Category     `gorm:"type:text;not null" json:"category"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Receipt      string       `gorm:"type:text" json:"receipt,omitempty"`
	Billable     bool         `gorm:"not null;default:false" json:"billable"`
	Reimbursable bool         `gorm:"not null;default:false" json:"reimbursable"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }

func UpdatableColumns() []string {
	return []string{"project_id", "date", "amount", "category", "description", "receipt", "billable", "reimbursable", "updated_at"}
}
