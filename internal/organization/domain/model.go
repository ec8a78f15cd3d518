// Package domain contains the organization (tenant) record.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is the tenant. HomeState is the registered free-text state;
// StateCode is the validated 2-letter code. StateCode may be empty on legacy
// rows, in which case jurisdiction falls back to free-text matching.
type Organization struct {
	ID snowflake.ID `gorm:"primaryKey"`

	Name  string `gorm:"type:text;not null"`
	GSTIN string `gorm:"column:gstin;type:text"`

	HomeState string `gorm:"column:home_state;type:text"`
	StateCode string `gorm:"column:state_code;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
