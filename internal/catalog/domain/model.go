// Package domain contains persistence models for the item catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Item is an org-scoped catalog entry. The document engine reads items only;
// name/unit/rates are snapshotted onto document lines at computation time.
type Item struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Name string `gorm:"type:text;not null"`
	Unit string `gorm:"type:text"`

	TaxRate  decimal.Decimal `gorm:"column:tax_rate;type:decimal(6,2);not null;default:0"`  // percent
	CessRate decimal.Decimal `gorm:"column:cess_rate;type:decimal(6,2);not null;default:0"` // percent

	IsActive  bool `gorm:"column:is_active;not null;default:true"`
	IsDeleted bool `gorm:"column:is_deleted;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Item) TableName() string { return "catalog_items" }
