package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"pocket_study/internal/config"
	"pocket_study/internal/handlers"
	"pocket_study/internal/middleware"
	"pocket_study/internal/repository"
	"pocket_study/internal/service"
)

func main() {
	bootstrapLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(bootstrapLogger)

	cfg, err := config.Load("./configs")
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level in config, defaulting to INFO", slog.String("level", cfg.Log.Level))
	}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		}
	}()

	// Dependency injection.
	schedRepo := repository.NewGormScheduleRepository()
	masteryRepo := repository.NewGormMasteryRepository()
	attemptRepo := repository.NewGormAttemptRepository()
	courseRepo := repository.NewGormCourseRepository()
	profileRepo := repository.NewGormProfileRepository()

	loader := service.NewContentLoader(db, courseRepo)

	courseService := service.NewCourseService(db, courseRepo, schedRepo, masteryRepo, loader)
	reviewService := service.NewReviewService(db, schedRepo, attemptRepo, masteryRepo, courseRepo, cfg)
	sessionService := service.NewSessionService(db, schedRepo, masteryRepo, courseRepo, loader, cfg)
	profileService := service.NewProfileService(db, profileRepo, cfg)
	backupService := service.NewBackupService(db, attemptRepo, schedRepo, masteryRepo, courseRepo, profileRepo, profileService, loader)

	if _, err := profileService.EnsureDefault(context.Background(), 0); err != nil {
		slog.Error("Error ensuring default profile", slog.Any("error", err))
		os.Exit(1)
	}

	courseHandler := handlers.NewCourseHandler(courseService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	backupHandler := handlers.NewBackupHandler(backupService)
	profileHandler := handlers.NewProfileHandler(profileService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/courses", func(r chi.Router) {
			r.Post("/compile", courseHandler.Compile)
			r.Post("/", courseHandler.Install)
			r.Get("/", courseHandler.List)
			r.Get("/{course_id}", courseHandler.Get)
			r.Delete("/{course_id}", courseHandler.Remove)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/due", reviewHandler.GetDue)
			r.Post("/{item_id}", reviewHandler.SubmitReview)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/queue", sessionHandler.GetQueue)
			r.Post("/evaluate", sessionHandler.Evaluate)
		})

		r.Get("/backup", backupHandler.Export)
		r.Post("/backup", backupHandler.Import)

		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	slog.Info("Server exiting")
}
