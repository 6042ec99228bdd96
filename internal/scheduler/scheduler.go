// Package scheduler runs the nightly progress snapshot refresh so streak and
// trend displays roll over correctly at day boundaries.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lucasmn/memorly/internal/jobs"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/repository"
)

// Scheduler manages time-based background tasks.
type Scheduler struct {
	scheduler *gocron.Scheduler
	userRepo  repository.UserRepository
	queue     jobs.JobQueue
	hour      int
	log       *logger.Logger
}

// New creates a scheduler that refreshes every user's snapshot daily at the
// given local hour.
func New(userRepo repository.UserRepository, queue jobs.JobQueue, refreshHour int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		userRepo:  userRepo,
		queue:     queue,
		hour:      refreshHour,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the nightly job and begins running it in the background.
func (s *Scheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.hour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.refreshAllSnapshots); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Info("nightly snapshot refresh scheduled at %s", at)
	return nil
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) refreshAllSnapshots() {
	ctx := logger.NewContext(context.Background(), s.log)
	s.log.Info("refreshing all progress snapshots")

	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.log.Error("failed to list users: %v", err)
		return
	}

	enqueued := 0
	for _, user := range users {
		if err := s.queue.EnqueueSnapshotRefresh(user.ID); err != nil {
			s.log.Warn("failed to enqueue snapshot refresh for user %d: %v", user.ID, err)
			continue
		}
		enqueued++
	}
	s.log.Info("enqueued %d of %d snapshot refreshes", enqueued, len(users))
}
