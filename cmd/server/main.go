package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classbridge/classbridge-backend/internal/config"
	"github.com/classbridge/classbridge-backend/internal/database"
	"github.com/classbridge/classbridge-backend/internal/email"
	"github.com/classbridge/classbridge-backend/internal/handler"
	"github.com/classbridge/classbridge-backend/internal/logger"
	"github.com/classbridge/classbridge-backend/internal/repository"
	"github.com/classbridge/classbridge-backend/internal/router"
	"github.com/classbridge/classbridge-backend/internal/service"
	"github.com/classbridge/classbridge-backend/internal/validator"
	"github.com/classbridge/classbridge-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ClassBridge Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classroomRepo := repository.NewClassroomRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo)
	classroomService := service.NewClassroomService(classroomRepo, userRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, classroomRepo)
	gradingService := service.NewGradingService(submissionRepo, assignmentRepo, classroomRepo)
	reminderQueue := service.NewRedisReminderQueue(rdb)
	reminderService := service.NewReminderService(assignmentRepo, submissionRepo, classroomRepo, notificationRepo, reminderQueue)
	attendanceService := service.NewAttendanceService(activityRepo, classroomRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		Classroom:    handler.NewClassroomHandler(classroomService),
		Assignment:   handler.NewAssignmentHandler(assignmentService, reminderService),
		Submission:   handler.NewSubmissionHandler(assignmentService, gradingService),
		Attendance:   handler.NewAttendanceHandler(attendanceService),
		Notification: handler.NewNotificationHandler(notificationService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	sender := email.NewSender(cfg, email.NewConsoleSender(log))
	reminderWorker := worker.NewReminderWorker(rdb, sender, log)
	go reminderWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
