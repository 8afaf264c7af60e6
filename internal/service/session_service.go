package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pocket_study/internal/config"
	"pocket_study/internal/middleware"
	"pocket_study/internal/model"
	"pocket_study/internal/repository"
	"pocket_study/internal/srs"
)

// SessionService builds the adaptive practice queue and evaluates
// free-response answers.
type SessionService interface {
	GetQueue(ctx context.Context, now int64) (*model.SessionQueueResponse, error)
	Evaluate(ctx context.Context, req model.EvaluateAnswerRequest) (bool, error)
}

type sessionService struct {
	db          *gorm.DB
	schedRepo   repository.ScheduleRepository
	masteryRepo repository.MasteryRepository
	courseRepo  repository.CourseRepository
	loader      *ContentLoader
	cfg         *config.Config
}

func NewSessionService(db *gorm.DB, schedRepo repository.ScheduleRepository, masteryRepo repository.MasteryRepository, courseRepo repository.CourseRepository, loader *ContentLoader, cfg *config.Config) SessionService {
	return &sessionService{
		db:          db,
		schedRepo:   schedRepo,
		masteryRepo: masteryRepo,
		courseRepo:  courseRepo,
		loader:      loader,
		cfg:         cfg,
	}
}

// GetQueue merges truly-due items with weak-concept reinforcement. Due
// entries come first, ascending by due time; entries whose item can no
// longer be resolved are dropped silently. When the due set falls short of
// the adaptive target, the weakest concepts contribute one not-yet-queued
// item each until the target is reached or the concepts are exhausted.
func (s *sessionService) GetQueue(ctx context.Context, now int64) (*model.SessionQueueResponse, error) {
	logger := middleware.GetLogger(ctx)
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	dueEntries, err := s.schedRepo.FindDue(ctx, s.db, now, 0)
	if err != nil {
		logger.Error("Failed to fetch due entries", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to build practice queue.", "", err)
	}

	var queue []*model.SessionQueueItem
	queued := make(map[string]bool)

	for _, entry := range dueEntries {
		course, err := s.loader.Load(ctx, entry.CourseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to resolve course content.", "", err)
		}

		item := course.ItemByID(entry.ItemID)
		if item == nil {
			// Orphaned schedule entry; stale local state.
			continue
		}

		queue = append(queue, &model.SessionQueueItem{Schedule: entry, Item: item, Course: course})
		queued[entry.ItemID] = true
	}

	target := s.cfg.App.AdaptiveTarget
	if len(queue) < target {
		queue, err = s.fillFromWeakConcepts(ctx, queue, queued, target)
		if err != nil {
			logger.Error("Failed to fill queue from weak concepts", "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to build practice queue.", "", err)
		}
	}

	logger.Info("Built practice queue", "size", len(queue), "due", len(dueEntries))
	return &model.SessionQueueResponse{SessionID: uuid.NewString(), Queue: queue}, nil
}

func (s *sessionService) fillFromWeakConcepts(ctx context.Context, queue []*model.SessionQueueItem, queued map[string]bool, target int) ([]*model.SessionQueueItem, error) {
	mastery, err := s.masteryRepo.FindAllByProbability(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(mastery) == 0 {
		return queue, nil
	}

	entries, err := s.schedRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	scheduleByItem := make(map[string]*model.ScheduleEntry, len(entries))
	for _, entry := range entries {
		scheduleByItem[entry.ItemID] = entry
	}

	installed, err := s.courseRepo.ListInstalled(ctx, s.db)
	if err != nil {
		return nil, err
	}

	for _, masteryEntry := range mastery {
		for _, marker := range installed {
			course, err := s.loader.Load(ctx, marker.ID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					continue
				}
				return nil, err
			}

			for idx := range course.Items {
				item := &course.Items[idx]
				if queued[item.ID] || !touchesConcept(item, masteryEntry.ConceptID) {
					continue
				}
				schedule, ok := scheduleByItem[item.ID]
				if !ok {
					continue
				}

				queue = append(queue, &model.SessionQueueItem{Schedule: schedule, Item: item, Course: course})
				queued[item.ID] = true
				break
			}

			if len(queue) >= target {
				return queue, nil
			}
		}
	}

	return queue, nil
}

func touchesConcept(item *model.CourseItem, conceptID string) bool {
	for _, id := range item.ConceptIDs {
		if id == conceptID {
			return true
		}
	}
	return false
}

// Evaluate checks a typed answer against an item's accepted answers.
func (s *sessionService) Evaluate(ctx context.Context, req model.EvaluateAnswerRequest) (bool, error) {
	entry, err := s.schedRepo.FindByItemID(ctx, s.db, req.ItemID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, model.NewAppError("ITEM_NOT_FOUND", "No schedule entry for item.", "itemId", model.ErrNotFound)
		}
		return false, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to look up item.", "", err)
	}

	course, err := s.loader.Load(ctx, entry.CourseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, model.NewAppError("ITEM_NOT_FOUND", "Course content for item is gone.", "itemId", model.ErrNotFound)
		}
		return false, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load course content.", "", err)
	}

	item := course.ItemByID(req.ItemID)
	if item == nil {
		return false, model.NewAppError("ITEM_NOT_FOUND", "Item not present in course content.", "itemId", model.ErrNotFound)
	}

	answers := item.Answers()
	if len(answers) == 0 {
		return false, model.NewAppError("UNSUPPORTED_ITEM", "Item has no free-response answers.", "itemId", model.ErrInvalidInput)
	}

	return srs.IsCorrectFreeResponse(req.Input, answers), nil
}
