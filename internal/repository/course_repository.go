package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocket_study/internal/model"
)

// CourseRepository persists installed-course markers and the full stored
// course content they point at.
type CourseRepository interface {
	PutInstalled(ctx context.Context, tx *gorm.DB, installed *model.InstalledCourse) error
	FindInstalled(ctx context.Context, db *gorm.DB, id string) (*model.InstalledCourse, error)
	ListInstalled(ctx context.Context, db *gorm.DB) ([]*model.InstalledCourse, error)
	BulkCreateInstalled(ctx context.Context, tx *gorm.DB, installed []model.InstalledCourse) error
	DeleteInstalled(ctx context.Context, tx *gorm.DB, id string) error
	DeleteAllInstalled(ctx context.Context, tx *gorm.DB) error

	PutContent(ctx context.Context, tx *gorm.DB, course *model.Course) error
	GetContent(ctx context.Context, db *gorm.DB, id string) (*model.Course, error)
	DeleteContent(ctx context.Context, tx *gorm.DB, id string) error
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) PutInstalled(ctx context.Context, tx *gorm.DB, installed *model.InstalledCourse) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(installed).Error
}

func (r *gormCourseRepository) FindInstalled(ctx context.Context, db *gorm.DB, id string) (*model.InstalledCourse, error) {
	var installed model.InstalledCourse
	result := db.WithContext(ctx).Where("id = ?", id).First(&installed)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &installed, nil
}

func (r *gormCourseRepository) ListInstalled(ctx context.Context, db *gorm.DB) ([]*model.InstalledCourse, error) {
	var installed []*model.InstalledCourse
	if err := db.WithContext(ctx).Order("installed_ts ASC").Find(&installed).Error; err != nil {
		return nil, err
	}
	return installed, nil
}

func (r *gormCourseRepository) BulkCreateInstalled(ctx context.Context, tx *gorm.DB, installed []model.InstalledCourse) error {
	if len(installed) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&installed).Error
}

func (r *gormCourseRepository) DeleteInstalled(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&model.InstalledCourse{}).Error
}

func (r *gormCourseRepository) DeleteAllInstalled(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.InstalledCourse{}).Error
}

func (r *gormCourseRepository) PutContent(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	payload, err := json.Marshal(course)
	if err != nil {
		return err
	}
	content := model.CourseContent{ID: course.ID, Content: datatypes.JSON(payload)}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&content).Error
}

func (r *gormCourseRepository) GetContent(ctx context.Context, db *gorm.DB, id string) (*model.Course, error) {
	var content model.CourseContent
	result := db.WithContext(ctx).Where("id = ?", id).First(&content)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}

	var course model.Course
	if err := json.Unmarshal(content.Content, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *gormCourseRepository) DeleteContent(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&model.CourseContent{}).Error
}
