package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindActiveByIDs returns the active, non-deleted items matching ids
	// within the org. Missing ids are simply absent from the result.
	FindActiveByIDs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]Item, error)
}
