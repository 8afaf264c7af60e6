package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pocket_study/internal/compiler"
	"pocket_study/internal/middleware"
	"pocket_study/internal/model"
	"pocket_study/internal/repository"
)

// InstallCourseResponse reports a completed install.
type InstallCourseResponse struct {
	Installed *model.InstalledCourse `json:"installed"`
	Warnings  []string               `json:"warnings"`
}

// CourseService compiles, installs and removes courses.
type CourseService interface {
	Compile(ctx context.Context, req model.CompileCourseRequest) (*model.CompileCourseResponse, error)
	Install(ctx context.Context, req model.InstallCourseRequest, now int64) (*InstallCourseResponse, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.InstalledCourse, error)
	Get(ctx context.Context, id string) (*model.Course, error)
}

type courseService struct {
	db          *gorm.DB
	courseRepo  repository.CourseRepository
	schedRepo   repository.ScheduleRepository
	masteryRepo repository.MasteryRepository
	loader      *ContentLoader
}

func NewCourseService(db *gorm.DB, courseRepo repository.CourseRepository, schedRepo repository.ScheduleRepository, masteryRepo repository.MasteryRepository, loader *ContentLoader) CourseService {
	return &courseService{
		db:          db,
		courseRepo:  courseRepo,
		schedRepo:   schedRepo,
		masteryRepo: masteryRepo,
		loader:      loader,
	}
}

func (s *courseService) Compile(ctx context.Context, req model.CompileCourseRequest) (*model.CompileCourseResponse, error) {
	result, err := compiler.Compile(req.Text, compiler.Options{CourseID: req.CourseID, Version: req.Version})
	if err != nil {
		return nil, err
	}
	return &model.CompileCourseResponse{Course: result.Course, Warnings: result.Warnings}, nil
}

// Install normalizes the course through the single cloze-expansion path,
// augments MCQ distractors, then atomically stores content, writes the
// installed marker and seeds schedule rows.
func (s *courseService) Install(ctx context.Context, req model.InstallCourseRequest, now int64) (*InstallCourseResponse, error) {
	logger := middleware.GetLogger(ctx)
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	var course *model.Course
	warnings := []string{}

	switch {
	case req.Text != "":
		result, err := compiler.Compile(req.Text, compiler.Options{})
		if err != nil {
			return nil, err
		}
		course = result.Course
		warnings = result.Warnings
	case req.Course != nil:
		if req.Course.ID == "" || req.Course.Title == "" {
			return nil, model.NewAppError("INVALID_COURSE", "Course id and title are required.", "course", model.ErrInvalidInput)
		}
		normalized, err := compiler.NormalizeCourse(req.Course)
		if err != nil {
			return nil, model.NewAppError("INVALID_COURSE", err.Error(), "course", model.ErrInvalidInput)
		}
		course = normalized
	default:
		return nil, model.NewAppError("INVALID_COURSE", "Provide either authoring text or a course document.", "", model.ErrInvalidInput)
	}

	course = compiler.AugmentDistractors(course)

	installed := &model.InstalledCourse{
		ID:          course.ID,
		Version:     course.Version,
		InstalledTs: now,
		Title:       course.Title,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.courseRepo.PutContent(ctx, tx, course); err != nil {
			return err
		}
		if err := s.courseRepo.PutInstalled(ctx, tx, installed); err != nil {
			return err
		}
		return seedEntries(ctx, tx, s.schedRepo, course.ID, course.Items, now)
	})
	if err != nil {
		logger.Error("Failed to install course", "course_id", course.ID, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to install course.", "", err)
	}

	s.loader.Invalidate(course.ID)
	logger.Info("Installed course", "course_id", course.ID, "items", len(course.Items))
	return &InstallCourseResponse{Installed: installed, Warnings: warnings}, nil
}

// Remove deletes the marker, content and schedule rows atomically. Mastery
// entries are deleted only for concepts no other installed course shares.
func (s *courseService) Remove(ctx context.Context, id string) error {
	logger := middleware.GetLogger(ctx).With("course_id", id)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.FindInstalled(ctx, tx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("COURSE_NOT_FOUND", "Course is not installed.", "course_id", model.ErrNotFound)
			}
			return err
		}

		course, err := s.courseRepo.GetContent(ctx, tx, id)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}

		if err := s.courseRepo.DeleteInstalled(ctx, tx, id); err != nil {
			return err
		}
		if err := s.courseRepo.DeleteContent(ctx, tx, id); err != nil {
			return err
		}
		if err := s.schedRepo.DeleteByCourseID(ctx, tx, id); err != nil {
			return err
		}

		if course == nil {
			return nil
		}

		removable, err := s.removableConcepts(ctx, tx, id, course)
		if err != nil {
			return err
		}
		return s.masteryRepo.DeleteByConceptIDs(ctx, tx, removable)
	})
	if err != nil {
		var appErr *model.AppError
		if !errors.As(err, &appErr) {
			logger.Error("Failed to remove course", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to remove course.", "", err)
		}
		return err
	}

	s.loader.Invalidate(id)
	logger.Info("Removed course")
	return nil
}

// removableConcepts filters the removed course's concept ids down to those
// not referenced by any other installed course's concepts.
func (s *courseService) removableConcepts(ctx context.Context, tx *gorm.DB, removedID string, course *model.Course) ([]string, error) {
	others, err := s.courseRepo.ListInstalled(ctx, tx)
	if err != nil {
		return nil, err
	}

	retained := make(map[string]bool)
	for _, other := range others {
		if other.ID == removedID {
			continue
		}
		content, err := s.courseRepo.GetContent(ctx, tx, other.ID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, concept := range content.Concepts {
			retained[concept.ID] = true
		}
	}

	var removable []string
	for _, concept := range course.Concepts {
		if !retained[concept.ID] {
			removable = append(removable, concept.ID)
		}
	}
	return removable, nil
}

func (s *courseService) List(ctx context.Context) ([]*model.InstalledCourse, error) {
	installed, err := s.courseRepo.ListInstalled(ctx, s.db)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list installed courses", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to list courses.", "", err)
	}
	return installed, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.loader.Load(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "Course content not found.", "course_id", model.ErrNotFound)
		}
		middleware.GetLogger(ctx).Error("Failed to load course content", "course_id", id, "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load course.", "", err)
	}
	return course, nil
}
