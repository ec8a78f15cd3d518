package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/ledgerline/internal/catalog/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() catalogdomain.Repository {
	return &repository{}
}

func (r *repository) FindActiveByIDs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]catalogdomain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []catalogdomain.Item
	err := db.WithContext(ctx).
		Where("org_id = ? AND id IN ? AND is_active = ? AND is_deleted = ?", orgID, ids, true, false).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
