package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"pocket_study/internal/middleware"
	"pocket_study/internal/model"
	"pocket_study/internal/repository"
)

// BackupService exports and imports full-store snapshots.
type BackupService interface {
	Export(ctx context.Context, now int64) (*model.Snapshot, error)
	Import(ctx context.Context, snapshot *model.Snapshot) error
}

type backupService struct {
	db          *gorm.DB
	attemptRepo repository.AttemptRepository
	schedRepo   repository.ScheduleRepository
	masteryRepo repository.MasteryRepository
	courseRepo  repository.CourseRepository
	profileRepo repository.ProfileRepository
	profiles    ProfileService
	loader      *ContentLoader
}

func NewBackupService(db *gorm.DB, attemptRepo repository.AttemptRepository, schedRepo repository.ScheduleRepository, masteryRepo repository.MasteryRepository, courseRepo repository.CourseRepository, profileRepo repository.ProfileRepository, profiles ProfileService, loader *ContentLoader) BackupService {
	return &backupService{
		db:          db,
		attemptRepo: attemptRepo,
		schedRepo:   schedRepo,
		masteryRepo: masteryRepo,
		courseRepo:  courseRepo,
		profileRepo: profileRepo,
		profiles:    profiles,
		loader:      loader,
	}
}

// Export reads the five collections concurrently and assembles them into a
// version-1 snapshot. Table order in the result is fixed regardless of
// read completion order.
func (s *backupService) Export(ctx context.Context, now int64) (*model.Snapshot, error) {
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	tables := &model.SnapshotTables{
		Attempts: []model.AttemptLog{},
		Schedule: []model.ScheduleEntry{},
		Mastery:  []model.MasteryEntry{},
		Courses:  []model.InstalledCourse{},
		Profiles: []model.Profile{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		attempts, err := s.attemptRepo.FindAll(gctx, s.db)
		if err != nil {
			return err
		}
		for _, attempt := range attempts {
			tables.Attempts = append(tables.Attempts, *attempt)
		}
		return nil
	})
	g.Go(func() error {
		entries, err := s.schedRepo.FindAll(gctx, s.db)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			tables.Schedule = append(tables.Schedule, *entry)
		}
		return nil
	})
	g.Go(func() error {
		entries, err := s.masteryRepo.FindAll(gctx, s.db)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			tables.Mastery = append(tables.Mastery, *entry)
		}
		return nil
	})
	g.Go(func() error {
		installed, err := s.courseRepo.ListInstalled(gctx, s.db)
		if err != nil {
			return err
		}
		for _, marker := range installed {
			tables.Courses = append(tables.Courses, *marker)
		}
		return nil
	})
	g.Go(func() error {
		profiles, err := s.profileRepo.FindAll(gctx, s.db)
		if err != nil {
			return err
		}
		for _, profile := range profiles {
			tables.Profiles = append(tables.Profiles, *profile)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		middleware.GetLogger(ctx).Error("Failed to export snapshot", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to export snapshot.", "", err)
	}

	return &model.Snapshot{Version: model.SnapshotVersion, ExportedAt: now, Tables: tables}, nil
}

// Import validates the snapshot, then atomically clears and repopulates
// all five collections. A bad shape or version mismatch rejects the whole
// import with no partial mutation. A default profile is ensured afterward.
func (s *backupService) Import(ctx context.Context, snapshot *model.Snapshot) error {
	logger := middleware.GetLogger(ctx)

	if snapshot == nil {
		return model.NewAppError("INVALID_SNAPSHOT", "Invalid snapshot payload.", "", model.ErrInvalidInput)
	}
	if snapshot.Version != model.SnapshotVersion {
		return model.NewAppError("UNSUPPORTED_VERSION", fmt.Sprintf("Unsupported snapshot version: %d", snapshot.Version), "version", model.ErrInvalidInput)
	}
	if snapshot.Tables == nil {
		return model.NewAppError("INVALID_SNAPSHOT", "Snapshot is missing table data.", "tables", model.ErrInvalidInput)
	}

	tables := snapshot.Tables
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.attemptRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := s.schedRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := s.masteryRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		if err := s.courseRepo.DeleteAllInstalled(ctx, tx); err != nil {
			return err
		}
		if err := s.profileRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}

		if err := s.courseRepo.BulkCreateInstalled(ctx, tx, tables.Courses); err != nil {
			return err
		}
		if err := s.schedRepo.BulkCreate(ctx, tx, tables.Schedule); err != nil {
			return err
		}
		if err := s.attemptRepo.BulkCreate(ctx, tx, tables.Attempts); err != nil {
			return err
		}
		if err := s.masteryRepo.BulkCreate(ctx, tx, tables.Mastery); err != nil {
			return err
		}
		return s.profileRepo.BulkCreate(ctx, tx, tables.Profiles)
	})
	if err != nil {
		logger.Error("Failed to import snapshot", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to import snapshot.", "", err)
	}

	s.loader.Reset()
	if _, err := s.profiles.EnsureDefault(ctx, 0); err != nil {
		logger.Error("Failed to ensure default profile after import", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to restore default profile.", "", err)
	}

	logger.Info("Imported snapshot",
		"attempts", len(tables.Attempts),
		"schedule", len(tables.Schedule),
		"mastery", len(tables.Mastery),
		"courses", len(tables.Courses),
		"profiles", len(tables.Profiles),
	)
	return nil
}
