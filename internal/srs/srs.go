// Package srs implements the simplified difficulty/stability scheduling
// model. The constants and clamp bounds are load-bearing: review intervals
// and all schedule tests depend on these exact values.
package srs

import (
	"math"
	"time"

	"pocket_study/internal/model"
)

const (
	// MinIntervalMs is one day; the floor for stability and review intervals.
	MinIntervalMs = int64(24 * time.Hour / time.Millisecond)
	// MaxIntervalMs caps stability at one year.
	MaxIntervalMs = 365 * MinIntervalMs

	// InitialStabilityMs and InitialDifficulty describe a never-seen item.
	InitialStabilityMs = float64(MinIntervalMs)
	InitialDifficulty  = 2.5

	MinDifficulty = 1.0
	MaxDifficulty = 3.0
)

// difficultyDelta nudges difficulty per grade: harder recalls push it up,
// easy recalls pull it down.
var difficultyDelta = [4]float64{0.2, 0.1, 0, -0.1}

// stabilityMultiplier scales stability per grade; grades >= Good also earn
// a flat one-day bonus.
var stabilityMultiplier = [4]float64{0.5, 0.8, 1.7, 2.2}

// UpdateOptions override the clock for an Update call.
type UpdateOptions struct {
	Now       int64 // epoch ms; zero means time.Now
	ElapsedMs int64 // informational; zero means derived from the previous due time
}

// Update is the next review state computed for one graded attempt.
type Update struct {
	Stability  float64
	Difficulty float64
	DueTs      int64
	Reps       int
	Lapses     int
	LastGrade  model.Grade
	ElapsedMs  int64
}

// Compute maps a prior schedule state (nil for a never-seen item) and a
// grade to the next state. Pure function; both inputs are left untouched.
func Compute(previous *model.ScheduleEntry, grade model.Grade, opts UpdateOptions) Update {
	now := opts.Now
	if now == 0 {
		now = time.Now().UnixMilli()
	}

	elapsed := opts.ElapsedMs
	if elapsed == 0 {
		if previous != nil {
			elapsed = now - previous.DueTs
			if elapsed < 1 {
				elapsed = 1
			}
		} else {
			elapsed = MinIntervalMs
		}
	}

	prevStability := InitialStabilityMs
	prevDifficulty := InitialDifficulty
	reps := 1
	lapses := 0
	if previous != nil {
		prevStability = previous.Stability
		prevDifficulty = previous.Difficulty
		reps = previous.Reps + 1
		lapses = previous.Lapses
	}
	if grade == model.GradeAgain {
		lapses++
	}

	difficulty := clamp(prevDifficulty+difficultyDelta[grade], MinDifficulty, MaxDifficulty)

	stability := prevStability * stabilityMultiplier[grade]
	if grade >= model.GradeGood {
		stability += float64(MinIntervalMs)
	}
	stability = clamp(stability, float64(MinIntervalMs), float64(MaxIntervalMs))

	interval := int64(math.Round(stability))
	if interval < MinIntervalMs {
		interval = MinIntervalMs
	}

	return Update{
		Stability:  stability,
		Difficulty: difficulty,
		DueTs:      now + interval,
		Reps:       reps,
		Lapses:     lapses,
		LastGrade:  grade,
		ElapsedMs:  elapsed,
	}
}

const (
	// DefaultMastery is the estimate assumed for a concept never reviewed.
	DefaultMastery = 0.2
	// MasteryStep is the fixed adjustment applied per graded attempt.
	MasteryStep = 0.1
)

// NextMastery adjusts a bounded mastery estimate for one graded attempt:
// +step for Good/Easy, -step otherwise, clamped to [0, 1]. Pass
// DefaultMastery as previous for a concept with no entry yet.
func NextMastery(previous float64, grade model.Grade) float64 {
	delta := -MasteryStep
	if grade >= model.GradeGood {
		delta = MasteryStep
	}
	return clamp(previous+delta, 0, 1)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
