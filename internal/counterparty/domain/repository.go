package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	VendorExists(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
	ClientExists(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
}
