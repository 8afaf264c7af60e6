package service

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"pocket_study/internal/model"
	"pocket_study/internal/repository"
)

// ContentLoader resolves full course content by id with an explicit
// in-memory cache. Install and removal paths must call Invalidate so a
// reinstall is never served stale content.
type ContentLoader struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository

	mu    sync.Mutex
	cache map[string]*model.Course
}

func NewContentLoader(db *gorm.DB, courseRepo repository.CourseRepository) *ContentLoader {
	return &ContentLoader{
		db:         db,
		courseRepo: courseRepo,
		cache:      make(map[string]*model.Course),
	}
}

// Load returns the cached course or reads it from the content store.
// Missing content surfaces as model.ErrNotFound.
func (l *ContentLoader) Load(ctx context.Context, id string) (*model.Course, error) {
	l.mu.Lock()
	if course, ok := l.cache[id]; ok {
		l.mu.Unlock()
		return course, nil
	}
	l.mu.Unlock()

	course, err := l.courseRepo.GetContent(ctx, l.db, id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[id] = course
	l.mu.Unlock()
	return course, nil
}

// Invalidate drops one cached course.
func (l *ContentLoader) Invalidate(id string) {
	l.mu.Lock()
	delete(l.cache, id)
	l.mu.Unlock()
}

// Reset drops the whole cache, used after a snapshot import.
func (l *ContentLoader) Reset() {
	l.mu.Lock()
	l.cache = make(map[string]*model.Course)
	l.mu.Unlock()
}
