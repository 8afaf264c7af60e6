package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket_study/internal/model"
)

func TestProfileService_EnsureDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.profiles.EnsureDefault(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProfileID, profile.ID)
	assert.Equal(t, "You", profile.DisplayName)
	assert.Equal(t, int64(1000), profile.CreatedAt)

	var settings map[string]any
	require.NoError(t, json.Unmarshal(profile.Settings, &settings))
	assert.EqualValues(t, 20, settings["dailyGoal"])

	// A second call returns the existing profile untouched.
	again, err := env.profiles.EnsureDefault(ctx, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), again.CreatedAt)
}

func TestProfileService_GetCreatesOnDemand(t *testing.T) {
	env := newTestEnv(t)

	profile, err := env.profiles.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultProfileID, profile.ID)
}

func TestProfileService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.profiles.Update(ctx, model.UpdateProfileRequest{
		DisplayName: "Ada",
		Settings:    map[string]any{"dailyGoal": 35, "theme": "dark"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.DisplayName)

	stored, err := env.profiles.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.DisplayName)

	var settings map[string]any
	require.NoError(t, json.Unmarshal(stored.Settings, &settings))
	assert.EqualValues(t, 35, settings["dailyGoal"])
	assert.Equal(t, "dark", settings["theme"])

	// Omitting settings keeps the stored ones.
	updated, err = env.profiles.Update(ctx, model.UpdateProfileRequest{DisplayName: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.DisplayName)
	require.NoError(t, json.Unmarshal(updated.Settings, &settings))
	assert.Equal(t, "dark", settings["theme"])
}
