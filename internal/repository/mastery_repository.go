package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocket_study/internal/model"
)

// MasteryRepository persists the per-concept mastery estimates.
type MasteryRepository interface {
	FindByConceptID(ctx context.Context, db *gorm.DB, conceptID string) (*model.MasteryEntry, error)
	FindAllByProbability(ctx context.Context, db *gorm.DB) ([]*model.MasteryEntry, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.MasteryEntry, error)
	Upsert(ctx context.Context, tx *gorm.DB, entry *model.MasteryEntry) error
	BulkCreate(ctx context.Context, tx *gorm.DB, entries []model.MasteryEntry) error
	DeleteByConceptIDs(ctx context.Context, tx *gorm.DB, conceptIDs []string) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type gormMasteryRepository struct{}

func NewGormMasteryRepository() MasteryRepository {
	return &gormMasteryRepository{}
}

func (r *gormMasteryRepository) FindByConceptID(ctx context.Context, db *gorm.DB, conceptID string) (*model.MasteryEntry, error) {
	var entry model.MasteryEntry
	result := db.WithContext(ctx).Where("concept_id = ?", conceptID).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

// FindAllByProbability returns every entry weakest-first.
func (r *gormMasteryRepository) FindAllByProbability(ctx context.Context, db *gorm.DB) ([]*model.MasteryEntry, error) {
	var entries []*model.MasteryEntry
	if err := db.WithContext(ctx).Order("probability ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormMasteryRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.MasteryEntry, error) {
	var entries []*model.MasteryEntry
	if err := db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormMasteryRepository) Upsert(ctx context.Context, tx *gorm.DB, entry *model.MasteryEntry) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error
}

func (r *gormMasteryRepository) BulkCreate(ctx context.Context, tx *gorm.DB, entries []model.MasteryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&entries).Error
}

func (r *gormMasteryRepository) DeleteByConceptIDs(ctx context.Context, tx *gorm.DB, conceptIDs []string) error {
	if len(conceptIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("concept_id IN ?", conceptIDs).Delete(&model.MasteryEntry{}).Error
}

func (r *gormMasteryRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.MasteryEntry{}).Error
}
