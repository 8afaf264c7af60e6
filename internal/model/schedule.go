package model

import "gorm.io/datatypes"

// Grade is the learner-supplied recall-quality signal.
type Grade int

const (
	GradeAgain Grade = 0
	GradeHard  Grade = 1
	GradeGood  Grade = 2
	GradeEasy  Grade = 3
)

func (g Grade) Valid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// ScheduleEntry is the per-item scheduling state. One row per installed
// item; created by seeding, mutated only by review recording, deleted when
// the owning course is removed.
type ScheduleEntry struct {
	ItemID     string  `gorm:"primaryKey" json:"itemId"`
	CourseID   string  `gorm:"not null;index" json:"courseId"`
	DueTs      int64   `gorm:"not null;index" json:"dueTs"`
	Stability  float64 `gorm:"not null" json:"stability"`
	Difficulty float64 `gorm:"not null" json:"difficulty"`
	Reps       int     `gorm:"not null" json:"reps"`
	Lapses     int     `gorm:"not null" json:"lapses"`
	LastGrade  Grade   `gorm:"not null" json:"lastGrade"`
	UpdatedAt  int64   `gorm:"not null" json:"updatedAt"`
}

func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}

// MasteryEntry is the bounded per-concept mastery estimate. Created lazily
// on the first grade touching the concept.
type MasteryEntry struct {
	ConceptID    string  `gorm:"primaryKey" json:"conceptId"`
	Probability  float64 `gorm:"not null" json:"probability"`
	LastUpdateTs int64   `gorm:"not null" json:"lastUpdateTs"`
}

func (MasteryEntry) TableName() string {
	return "mastery_entries"
}

// AttemptLog is append-only review history. Never mutated or deleted
// individually; only bulk-cleared on full reset/import.
type AttemptLog struct {
	ID         uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID     string   `gorm:"not null;index" json:"itemId"`
	Ts         int64    `gorm:"not null;index" json:"ts"`
	Grade      Grade    `gorm:"not null" json:"grade"`
	PromptType ItemType `gorm:"not null" json:"promptType"`
	LatencyMs  *int64   `json:"latencyMs,omitempty"`
}

func (AttemptLog) TableName() string {
	return "attempt_logs"
}

// InstalledCourse is the lightweight membership marker, distinct from the
// full stored content.
type InstalledCourse struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Version     int    `gorm:"not null" json:"version"`
	InstalledTs int64  `gorm:"not null" json:"installedTs"`
	Title       string `gorm:"not null" json:"title"`
}

func (InstalledCourse) TableName() string {
	return "installed_courses"
}

// CourseContent stores the full normalized Course JSON so items resolve
// without re-fetching content.
type CourseContent struct {
	ID      string         `gorm:"primaryKey" json:"id"`
	Content datatypes.JSON `gorm:"not null" json:"content"`
}

func (CourseContent) TableName() string {
	return "course_contents"
}

// DefaultProfileID identifies the single local learner profile.
const DefaultProfileID = "default"

// Profile holds learner identity and settings.
type Profile struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	DisplayName string         `gorm:"not null" json:"displayName"`
	CreatedAt   int64          `gorm:"not null" json:"createdAt"`
	Settings    datatypes.JSON `json:"settings"`
}

func (Profile) TableName() string {
	return "profiles"
}
