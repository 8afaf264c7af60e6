package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pocket_study/internal/config"
	"pocket_study/internal/model"
	"pocket_study/internal/repository"
)

// testEnv wires real repositories against an isolated in-memory database.
type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	schedRepo   repository.ScheduleRepository
	masteryRepo repository.MasteryRepository
	attemptRepo repository.AttemptRepository
	courseRepo  repository.CourseRepository
	profileRepo repository.ProfileRepository
	loader      *ContentLoader

	courses  CourseService
	reviews  ReviewService
	sessions SessionService
	profiles ProfileService
	backups  BackupService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db: newTestDB(t),
		cfg: &config.Config{
			App: config.AppConfig{SessionLimit: 20, AdaptiveTarget: 12, DailyGoal: 20},
		},
		schedRepo:   repository.NewGormScheduleRepository(),
		masteryRepo: repository.NewGormMasteryRepository(),
		attemptRepo: repository.NewGormAttemptRepository(),
		courseRepo:  repository.NewGormCourseRepository(),
		profileRepo: repository.NewGormProfileRepository(),
	}
	env.loader = NewContentLoader(env.db, env.courseRepo)
	env.courses = NewCourseService(env.db, env.courseRepo, env.schedRepo, env.masteryRepo, env.loader)
	env.reviews = NewReviewService(env.db, env.schedRepo, env.attemptRepo, env.masteryRepo, env.courseRepo, env.cfg)
	env.sessions = NewSessionService(env.db, env.schedRepo, env.masteryRepo, env.courseRepo, env.loader, env.cfg)
	env.profiles = NewProfileService(env.db, env.profileRepo, env.cfg)
	env.backups = NewBackupService(env.db, env.attemptRepo, env.schedRepo, env.masteryRepo, env.courseRepo, env.profileRepo, env.profiles, env.loader)
	return env
}

// courseDoc builds a minimal card-only course with one item per concept.
// Item ids embed the course id so they stay unique across courses.
func courseDoc(id string, conceptIDs ...string) *model.Course {
	concepts := make([]model.Concept, len(conceptIDs))
	items := make([]model.CourseItem, len(conceptIDs))
	for i, cid := range conceptIDs {
		concepts[i] = model.Concept{ID: cid, Name: cid}
		items[i] = model.CourseItem{
			ItemBase: model.ItemBase{
				ID:         fmt.Sprintf("card.%s.%s.1", id, cid),
				Type:       model.ItemTypeCard,
				ConceptIDs: []string{cid},
			},
			Card: &model.CardItem{Prompt: "prompt " + cid, Answer: "answer " + cid},
		}
	}
	return &model.Course{
		ID:       id,
		Title:    "Course " + id,
		Version:  1,
		Concepts: concepts,
		Items:    items,
	}
}
