package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket_study/internal/model"
)

const testNow = int64(1_700_000_000_000)

func TestCompute_FirstReview(t *testing.T) {
	day := float64(MinIntervalMs)

	tests := []struct {
		name           string
		grade          model.Grade
		wantStability  float64
		wantDifficulty float64
		wantLapses     int
	}{
		{
			name:  "again halves stability but the one-day floor holds",
			grade: model.GradeAgain,
			// 0.5 * 1d clamps back up to 1d.
			wantStability:  day,
			wantDifficulty: 2.7,
			wantLapses:     1,
		},
		{
			name:           "hard shrinks stability to the floor",
			grade:          model.GradeHard,
			wantStability:  day,
			wantDifficulty: 2.6,
		},
		{
			name:  "good grows stability and earns the flat bonus",
			grade: model.GradeGood,
			// 1.7 * 1d + 1d.
			wantStability:  2.7 * day,
			wantDifficulty: 2.5,
		},
		{
			name:           "easy grows fastest and eases difficulty",
			grade:          model.GradeEasy,
			wantStability:  3.2 * day,
			wantDifficulty: 2.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := Compute(nil, tt.grade, UpdateOptions{Now: testNow})
			assert.InDelta(t, tt.wantStability, update.Stability, 1)
			assert.InDelta(t, tt.wantDifficulty, update.Difficulty, 1e-9)
			assert.Equal(t, 1, update.Reps)
			assert.Equal(t, tt.wantLapses, update.Lapses)
			assert.Equal(t, tt.grade, update.LastGrade)
			assert.Equal(t, testNow+int64(update.Stability+0.5), update.DueTs)
			assert.Greater(t, update.DueTs, testNow)
		})
	}
}

func TestCompute_CarriesPreviousState(t *testing.T) {
	previous := &model.ScheduleEntry{
		ItemID:     "card.c-x.1",
		CourseID:   "c1",
		DueTs:      testNow - 3*MinIntervalMs,
		Stability:  5 * float64(MinIntervalMs),
		Difficulty: 2.0,
		Reps:       4,
		Lapses:     1,
	}

	update := Compute(previous, model.GradeGood, UpdateOptions{Now: testNow})
	assert.InDelta(t, 5*1.7*float64(MinIntervalMs)+float64(MinIntervalMs), update.Stability, 1)
	assert.InDelta(t, 2.0, update.Difficulty, 1e-9)
	assert.Equal(t, 5, update.Reps)
	assert.Equal(t, 1, update.Lapses)
	assert.Equal(t, int64(3*MinIntervalMs), update.ElapsedMs)

	update = Compute(previous, model.GradeAgain, UpdateOptions{Now: testNow})
	assert.Equal(t, 5, update.Reps)
	assert.Equal(t, 2, update.Lapses)
	assert.InDelta(t, 2.2, update.Difficulty, 1e-9)
}

func TestCompute_Clamps(t *testing.T) {
	ceiling := &model.ScheduleEntry{
		Stability:  float64(MaxIntervalMs),
		Difficulty: 2.95,
		Reps:       10,
	}
	update := Compute(ceiling, model.GradeAgain, UpdateOptions{Now: testNow})
	assert.InDelta(t, 3.0, update.Difficulty, 1e-9)

	update = Compute(ceiling, model.GradeEasy, UpdateOptions{Now: testNow})
	assert.InDelta(t, float64(MaxIntervalMs), update.Stability, 1)
	assert.Equal(t, testNow+MaxIntervalMs, update.DueTs)

	floor := &model.ScheduleEntry{
		Stability:  float64(MinIntervalMs),
		Difficulty: 1.05,
	}
	update = Compute(floor, model.GradeEasy, UpdateOptions{Now: testNow})
	assert.InDelta(t, 1.0, update.Difficulty, 1e-9)

	update = Compute(floor, model.GradeAgain, UpdateOptions{Now: testNow})
	assert.InDelta(t, float64(MinIntervalMs), update.Stability, 1)
}

func TestCompute_BoundsHoldOverLongSequences(t *testing.T) {
	grades := []model.Grade{
		model.GradeEasy, model.GradeEasy, model.GradeAgain, model.GradeGood,
		model.GradeHard, model.GradeEasy, model.GradeGood, model.GradeAgain,
	}

	entry := &model.ScheduleEntry{
		Stability:  InitialStabilityMs,
		Difficulty: InitialDifficulty,
	}
	wantLapses := 0

	for i := 0; i < 100; i++ {
		grade := grades[i%len(grades)]
		update := Compute(entry, grade, UpdateOptions{Now: testNow})
		if grade == model.GradeAgain {
			wantLapses++
		}

		require.GreaterOrEqual(t, update.Stability, float64(MinIntervalMs))
		require.LessOrEqual(t, update.Stability, float64(MaxIntervalMs))
		require.GreaterOrEqual(t, update.Difficulty, MinDifficulty)
		require.LessOrEqual(t, update.Difficulty, MaxDifficulty)
		require.GreaterOrEqual(t, update.DueTs, testNow+MinIntervalMs)
		require.Equal(t, entry.Reps+1, update.Reps)
		require.Equal(t, wantLapses, update.Lapses)

		entry.Stability = update.Stability
		entry.Difficulty = update.Difficulty
		entry.DueTs = update.DueTs
		entry.Reps = update.Reps
		entry.Lapses = update.Lapses
	}
}

func TestNextMastery(t *testing.T) {
	assert.InDelta(t, 0.3, NextMastery(DefaultMastery, model.GradeGood), 1e-9)
	assert.InDelta(t, 0.3, NextMastery(DefaultMastery, model.GradeEasy), 1e-9)
	assert.InDelta(t, 0.1, NextMastery(DefaultMastery, model.GradeAgain), 1e-9)
	assert.InDelta(t, 0.1, NextMastery(DefaultMastery, model.GradeHard), 1e-9)

	assert.InDelta(t, 0.0, NextMastery(0.05, model.GradeAgain), 1e-9)
	assert.InDelta(t, 1.0, NextMastery(0.95, model.GradeEasy), 1e-9)
}
