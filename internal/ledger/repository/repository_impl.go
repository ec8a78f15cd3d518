package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() ledgerdomain.Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db *gorm.DB, entry *ledgerdomain.Entry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repository) DeleteByReference(ctx context.Context, db *gorm.DB, orgID snowflake.ID, refType string, refID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND reference_type = ? AND reference_id = ?", orgID, refType, refID).
		Delete(&ledgerdomain.Entry{}).Error
}

func (r *repository) FindByReference(ctx context.Context, db *gorm.DB, orgID snowflake.ID, refType string, refID snowflake.ID) (*ledgerdomain.Entry, error) {
	var entry ledgerdomain.Entry
	err := db.WithContext(ctx).
		Where("org_id = ? AND reference_type = ? AND reference_id = ?", orgID, refType, refID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
