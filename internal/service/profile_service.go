package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pocket_study/internal/config"
	"pocket_study/internal/middleware"
	"pocket_study/internal/model"
	"pocket_study/internal/repository"
)

// ProfileService manages the single local learner profile.
type ProfileService interface {
	EnsureDefault(ctx context.Context, now int64) (*model.Profile, error)
	Get(ctx context.Context) (*model.Profile, error)
	Update(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error)
}

type profileService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
	cfg         *config.Config
}

func NewProfileService(db *gorm.DB, profileRepo repository.ProfileRepository, cfg *config.Config) ProfileService {
	return &profileService{db: db, profileRepo: profileRepo, cfg: cfg}
}

// EnsureDefault creates the default profile if it does not exist yet.
func (s *profileService) EnsureDefault(ctx context.Context, now int64) (*model.Profile, error) {
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	existing, err := s.profileRepo.Find(ctx, s.db, model.DefaultProfileID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	settings, err := json.Marshal(map[string]any{"dailyGoal": s.cfg.App.DailyGoal})
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:          model.DefaultProfileID,
		DisplayName: "You",
		CreatedAt:   now,
		Settings:    datatypes.JSON(settings),
	}
	if err := s.profileRepo.Put(ctx, s.db, profile); err != nil {
		return nil, err
	}

	middleware.GetLogger(ctx).Info("Created default profile")
	return profile, nil
}

func (s *profileService) Get(ctx context.Context) (*model.Profile, error) {
	profile, err := s.profileRepo.Find(ctx, s.db, model.DefaultProfileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return s.EnsureDefault(ctx, 0)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to load profile.", "", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = req.DisplayName
	if req.Settings != nil {
		settings, err := json.Marshal(req.Settings)
		if err != nil {
			return nil, model.NewAppError("INVALID_SETTINGS", "Settings must be JSON-serializable.", "settings", model.ErrInvalidInput)
		}
		profile.Settings = datatypes.JSON(settings)
	}

	if err := s.profileRepo.Put(ctx, s.db, profile); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile.", "", err)
	}
	return profile, nil
}
