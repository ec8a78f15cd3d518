package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	counterpartydomain "github.com/smallbiznis/ledgerline/internal/counterparty/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() counterpartydomain.Repository {
	return &repository{}
}

func (r *repository) VendorExists(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&counterpartydomain.Vendor{}).
		Where("org_id = ? AND id = ? AND is_active = ? AND is_deleted = ?", orgID, id, true, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ClientExists(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&counterpartydomain.Client{}).
		Where("org_id = ? AND id = ? AND is_active = ? AND is_deleted = ?", orgID, id, true, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
