package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository methods accept the caller's db handle so entries commit inside
// the document transaction.
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, entry *Entry) error
	DeleteByReference(ctx context.Context, db *gorm.DB, orgID snowflake.ID, refType string, refID snowflake.ID) error
	FindByReference(ctx context.Context, db *gorm.DB, orgID snowflake.ID, refType string, refID snowflake.ID) (*Entry, error)
}
