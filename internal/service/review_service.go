package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pocket_study/internal/config"
	"pocket_study/internal/middleware"
	"pocket_study/internal/model"
	"pocket_study/internal/repository"
	"pocket_study/internal/srs"
)

// ReviewService seeds schedule rows, retrieves due entries and records
// graded reviews.
type ReviewService interface {
	Seed(ctx context.Context, courseID string, items []model.CourseItem, now int64) error
	GetDueEntries(ctx context.Context, now int64) ([]*model.ScheduleEntry, error)
	RecordReview(ctx context.Context, itemID string, req model.SubmitReviewRequest, now int64) (*model.ScheduleEntry, error)
}

type reviewService struct {
	db          *gorm.DB
	schedRepo   repository.ScheduleRepository
	attemptRepo repository.AttemptRepository
	masteryRepo repository.MasteryRepository
	courseRepo  repository.CourseRepository
	cfg         *config.Config
}

func NewReviewService(db *gorm.DB, schedRepo repository.ScheduleRepository, attemptRepo repository.AttemptRepository, masteryRepo repository.MasteryRepository, courseRepo repository.CourseRepository, cfg *config.Config) ReviewService {
	return &reviewService{
		db:          db,
		schedRepo:   schedRepo,
		attemptRepo: attemptRepo,
		masteryRepo: masteryRepo,
		courseRepo:  courseRepo,
		cfg:         cfg,
	}
}

// seedEntries inserts a fresh schedule row for every item id not already
// present. Pre-existing rows are left untouched, so reinstalling a course
// is idempotent. Shared with the course install path so seeding joins the
// install transaction.
func seedEntries(ctx context.Context, tx *gorm.DB, schedRepo repository.ScheduleRepository, courseID string, items []model.CourseItem, now int64) error {
	itemIDs := make([]string, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	existing, err := schedRepo.ExistingItemIDs(ctx, tx, itemIDs)
	if err != nil {
		return err
	}

	var seeds []model.ScheduleEntry
	for _, item := range items {
		if existing[item.ID] {
			continue
		}
		seeds = append(seeds, model.ScheduleEntry{
			ItemID:     item.ID,
			CourseID:   courseID,
			DueTs:      now,
			Stability:  srs.InitialStabilityMs,
			Difficulty: srs.InitialDifficulty,
			Reps:       0,
			Lapses:     0,
			LastGrade:  model.GradeAgain,
			UpdatedAt:  now,
		})
	}

	return schedRepo.BulkCreate(ctx, tx, seeds)
}

func (s *reviewService) Seed(ctx context.Context, courseID string, items []model.CourseItem, now int64) error {
	if now == 0 {
		now = time.Now().UnixMilli()
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return seedEntries(ctx, tx, s.schedRepo, courseID, items, now)
	})
}

func (s *reviewService) GetDueEntries(ctx context.Context, now int64) ([]*model.ScheduleEntry, error) {
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	entries, err := s.schedRepo.FindDue(ctx, s.db, now, s.cfg.App.SessionLimit)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to find due schedule entries", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to retrieve due items.", "", model.ErrInternalServer)
	}
	return entries, nil
}

// RecordReview computes the next schedule state for a graded item and
// persists it together with an attempt-history row and the per-concept
// mastery updates, atomically. Reviewing an unseeded item fails.
func (s *reviewService) RecordReview(ctx context.Context, itemID string, req model.SubmitReviewRequest, now int64) (*model.ScheduleEntry, error) {
	logger := middleware.GetLogger(ctx).With("item_id", itemID)
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	var merged model.ScheduleEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		previous, err := s.schedRepo.FindByItemID(ctx, tx, itemID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("MISSING_SCHEDULE_ENTRY", "No schedule entry for item; seed the course before reviewing.", "item_id", model.ErrNotFound)
			}
			logger.Error("Failed to load schedule entry", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load schedule entry.", "", err)
		}

		update := srs.Compute(previous, req.Grade, srs.UpdateOptions{Now: now})

		merged = *previous
		merged.Stability = update.Stability
		merged.Difficulty = update.Difficulty
		merged.DueTs = update.DueTs
		merged.Reps = update.Reps
		merged.Lapses = update.Lapses
		merged.LastGrade = update.LastGrade
		merged.UpdatedAt = now

		if err := s.schedRepo.Upsert(ctx, tx, &merged); err != nil {
			logger.Error("Failed to persist schedule update", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to persist schedule update.", "", err)
		}

		attempt := model.AttemptLog{
			ItemID:     itemID,
			Ts:         now,
			Grade:      req.Grade,
			PromptType: req.PromptType,
			LatencyMs:  req.LatencyMs,
		}
		if err := s.attemptRepo.Create(ctx, tx, &attempt); err != nil {
			logger.Error("Failed to append attempt log", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to append attempt log.", "", err)
		}

		return s.updateMastery(ctx, tx, previous.CourseID, itemID, req.Grade, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Recorded review", "grade", int(req.Grade), "due_ts", merged.DueTs)
	return &merged, nil
}

// updateMastery adjusts the estimate for every distinct concept the graded
// item touches. An item whose content is gone is stale local state, not an
// error; mastery is simply left alone.
func (s *reviewService) updateMastery(ctx context.Context, tx *gorm.DB, courseID, itemID string, grade model.Grade, now int64) error {
	course, err := s.courseRepo.GetContent(ctx, tx, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}

	item := course.ItemByID(itemID)
	if item == nil {
		return nil
	}

	seen := make(map[string]bool, len(item.ConceptIDs))
	for _, conceptID := range item.ConceptIDs {
		if seen[conceptID] {
			continue
		}
		seen[conceptID] = true

		probability := srs.DefaultMastery
		existing, err := s.masteryRepo.FindByConceptID(ctx, tx, conceptID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if existing != nil {
			probability = existing.Probability
		}

		entry := model.MasteryEntry{
			ConceptID:    conceptID,
			Probability:  srs.NextMastery(probability, grade),
			LastUpdateTs: now,
		}
		if err := s.masteryRepo.Upsert(ctx, tx, &entry); err != nil {
			return err
		}
	}
	return nil
}
