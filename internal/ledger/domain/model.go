// Package domain contains the client running-balance ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Entry is one receivables posting, written and removed in lockstep with the
// document it references. At most one entry exists per document:
// (org_id, reference_type, reference_id) is unique.
type Entry struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	OrgID    snowflake.ID `gorm:"column:org_id;not null;index;uniqueIndex:ux_client_ledger_entries_ref,priority:1"`
	ClientID snowflake.ID `gorm:"column:client_id;not null;index"`

	ReferenceType string       `gorm:"column:reference_type;type:text;not null;uniqueIndex:ux_client_ledger_entries_ref,priority:2"`
	ReferenceID   snowflake.ID `gorm:"column:reference_id;not null;uniqueIndex:ux_client_ledger_entries_ref,priority:3"`
	ReferenceNo   string       `gorm:"column:reference_no;type:text"`

	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	EntryDate time.Time       `gorm:"column:entry_date;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "client_ledger_entries" }
