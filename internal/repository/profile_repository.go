package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocket_study/internal/model"
)

// ProfileRepository persists learner profiles.
type ProfileRepository interface {
	Find(ctx context.Context, db *gorm.DB, id string) (*model.Profile, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Profile, error)
	Put(ctx context.Context, tx *gorm.DB, profile *model.Profile) error
	BulkCreate(ctx context.Context, tx *gorm.DB, profiles []model.Profile) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type gormProfileRepository struct{}

func NewGormProfileRepository() ProfileRepository {
	return &gormProfileRepository{}
}

func (r *gormProfileRepository) Find(ctx context.Context, db *gorm.DB, id string) (*model.Profile, error) {
	var profile model.Profile
	result := db.WithContext(ctx).Where("id = ?", id).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &profile, nil
}

func (r *gormProfileRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Profile, error) {
	var profiles []*model.Profile
	if err := db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *gormProfileRepository) Put(ctx context.Context, tx *gorm.DB, profile *model.Profile) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(profile).Error
}

func (r *gormProfileRepository) BulkCreate(ctx context.Context, tx *gorm.DB, profiles []model.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&profiles).Error
}

func (r *gormProfileRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Profile{}).Error
}
