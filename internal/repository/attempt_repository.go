package repository

import (
	"context"

	"gorm.io/gorm"

	"pocket_study/internal/model"
)

// AttemptRepository persists the append-only attempt history. Rows are
// never updated or deleted individually; DeleteAll exists only for the
// full-reset import path.
type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *model.AttemptLog) error
	BulkCreate(ctx context.Context, tx *gorm.DB, attempts []model.AttemptLog) error
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.AttemptLog, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type gormAttemptRepository struct{}

func NewGormAttemptRepository() AttemptRepository {
	return &gormAttemptRepository{}
}

func (r *gormAttemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *model.AttemptLog) error {
	return tx.WithContext(ctx).Create(attempt).Error
}

func (r *gormAttemptRepository) BulkCreate(ctx context.Context, tx *gorm.DB, attempts []model.AttemptLog) error {
	if len(attempts) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&attempts).Error
}

func (r *gormAttemptRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.AttemptLog, error) {
	var attempts []*model.AttemptLog
	if err := db.WithContext(ctx).Order("id ASC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *gormAttemptRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.AttemptLog{}).Error
}
