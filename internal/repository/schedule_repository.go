package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocket_study/internal/model"
)

// ScheduleRepository persists per-item schedule state. The *gorm.DB is
// passed per call so services can run operations inside a transaction.
type ScheduleRepository interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, entries []model.ScheduleEntry) error
	Upsert(ctx context.Context, tx *gorm.DB, entry *model.ScheduleEntry) error
	FindByItemID(ctx context.Context, db *gorm.DB, itemID string) (*model.ScheduleEntry, error)
	ExistingItemIDs(ctx context.Context, db *gorm.DB, itemIDs []string) (map[string]bool, error)
	FindDue(ctx context.Context, db *gorm.DB, now int64, limit int) ([]*model.ScheduleEntry, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.ScheduleEntry, error)
	DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID string) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type gormScheduleRepository struct{}

func NewGormScheduleRepository() ScheduleRepository {
	return &gormScheduleRepository{}
}

func (r *gormScheduleRepository) BulkCreate(ctx context.Context, tx *gorm.DB, entries []model.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&entries).Error
}

func (r *gormScheduleRepository) Upsert(ctx context.Context, tx *gorm.DB, entry *model.ScheduleEntry) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error
}

func (r *gormScheduleRepository) FindByItemID(ctx context.Context, db *gorm.DB, itemID string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	result := db.WithContext(ctx).Where("item_id = ?", itemID).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

func (r *gormScheduleRepository) ExistingItemIDs(ctx context.Context, db *gorm.DB, itemIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return existing, nil
	}
	var ids []string
	result := db.WithContext(ctx).Model(&model.ScheduleEntry{}).Where("item_id IN ?", itemIDs).Pluck("item_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

func (r *gormScheduleRepository) FindDue(ctx context.Context, db *gorm.DB, now int64, limit int) ([]*model.ScheduleEntry, error) {
	var entries []*model.ScheduleEntry
	query := db.WithContext(ctx).Where("due_ts <= ?", now).Order("due_ts ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormScheduleRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.ScheduleEntry, error) {
	var entries []*model.ScheduleEntry
	if err := db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormScheduleRepository) DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID string) error {
	return tx.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.ScheduleEntry{}).Error
}

func (r *gormScheduleRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ScheduleEntry{}).Error
}
