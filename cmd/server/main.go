package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucasmn/memorly/internal/api"
	"github.com/lucasmn/memorly/internal/config"
	"github.com/lucasmn/memorly/internal/db"
	"github.com/lucasmn/memorly/internal/jobs"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/repository/sqlite"
	"github.com/lucasmn/memorly/internal/scheduler"
	"github.com/lucasmn/memorly/internal/services"
	"github.com/lucasmn/memorly/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Memorly Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("word_limit=%d", cfg.WordLimit)
	log.Debug("snapshot_worker_count=%d", cfg.SnapshotWorkerCount)
	log.Debug("snapshot_queue_size=%d", cfg.SnapshotQueueSize)
	log.Debug("snapshot_refresh_hour=%d", cfg.SnapshotRefreshHour)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	practiceRepo := sqlite.NewPracticeRepository(database.DB)
	snapshotRepo := sqlite.NewSnapshotRepository(database.DB)

	// Background snapshot refresh
	snapshotPool := worker.NewPool(cfg.SnapshotWorkerCount, cfg.SnapshotQueueSize)
	progressService := services.NewProgressService(practiceRepo, snapshotRepo)
	queue := jobs.NewWorkerQueue(snapshotPool, progressService)

	// Services
	userService := services.NewUserService(userRepo)
	sessionService := services.NewSessionService(sessionRepo, practiceRepo, cfg.WordLimit)
	practiceService := services.NewPracticeService(sessionRepo, practiceRepo, queue)

	srv := &api.Server{
		DB:              database,
		UserService:     userService,
		SessionService:  sessionService,
		PracticeService: practiceService,
		ProgressService: progressService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	snapshotPool.Start(ctx)

	sched := scheduler.New(userRepo, queue, cfg.SnapshotRefreshHour)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	sched.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	cancel()
	snapshotPool.Stop()

	log.Info("shutdown complete")
}
