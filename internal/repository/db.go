package repository

import (
	"log/slog"
	"strings"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pocket_study/internal/model"
)

// NewDB opens the backing store. A postgres:// URL selects the postgres
// driver; anything else is treated as a sqlite DSN, the default for the
// single-learner local store.
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	gormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithSlowThreshold(500 * time.Millisecond),
	)

	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.Any("error", err))
		return nil, err
	}

	if err := Migrate(db); err != nil {
		appLogger.Error("Failed to migrate database schema", slog.Any("error", err))
		return nil, err
	}

	appLogger.Info("Database connection established")
	return db, nil
}

// Migrate creates or updates the persistent record tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.ScheduleEntry{},
		&model.MasteryEntry{},
		&model.AttemptLog{},
		&model.InstalledCourse{},
		&model.CourseContent{},
		&model.Profile{},
	)
}
