// Package domain contains persistence models for clients.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ClientStatus represents the relationship state with a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusPending  ClientStatus = "pending"
	ClientStatusInactive ClientStatus = "inactive"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusActive, ClientStatusPending, ClientStatusInactive:
		return true
	default:
		return false
	}
}

type Client struct {
	ID          snowflake.ID                 `gorm:"primaryKey" json:"id"`
	Name        string                       `gorm:"not null" json:"name"`
	Company     string                       `json:"company,omitempty"`
	Email       string                       `gorm:"not null" json:"email"`
	Phone       string                       `json:"phone,omitempty"`
	Status      ClientStatus                 `gorm:"type:text;not null;default:'active'" json:"status"`
	Tags        datatypes.JSONSlice[string]  `json:"tags"`
	LastContact *time.Time                   `json:"last_contact,omitempty"`
	CreatedAt   time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// UpdatableColumns is the allowlist sent on update; server-managed columns
// (id, created_at) never leave the service.
func UpdatableColumns() []string {
	return []string{"name", "company", "email", "phone", "status", "tags", "last_contact", "updated_at"}
}
