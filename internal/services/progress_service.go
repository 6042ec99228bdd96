package services

import (
	"context"
	"database/sql"
	errs "errors"
	"time"

	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/progress"
	"github.com/lucasmn/memorly/internal/repository"
)

// ProgressService derives dashboard metrics from practice history
type ProgressService interface {
	Summary(ctx context.Context, userID int64) (*models.ProgressSummary, error)
	Streak(ctx context.Context, userID int64) (*models.StreakInfo, error)
	Tracker(ctx context.Context, userID int64) (*models.ProgressTracker, error)
	RefreshSnapshot(ctx context.Context, userID int64) error
}

type progressService struct {
	practiceRepo repository.PracticeRepository
	snapshotRepo repository.SnapshotRepository
	now          func() time.Time
}

// NewProgressService creates a new ProgressService
func NewProgressService(practiceRepo repository.PracticeRepository, snapshotRepo repository.SnapshotRepository) ProgressService {
	return &progressService{
		practiceRepo: practiceRepo,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

func (s *progressService) Summary(ctx context.Context, userID int64) (*models.ProgressSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing progress summary: user_id=%d", userID)

	practices, err := s.practiceRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load practice history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	summary := progress.Summary(practices, s.now())
	return &summary, nil
}

func (s *progressService) Streak(ctx context.Context, userID int64) (*models.StreakInfo, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing streak: user_id=%d", userID)

	practices, err := s.practiceRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load practice history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	streak, last := progress.Streak(practices, s.now())
	return &models.StreakInfo{Streak: streak, LastPracticeDate: last}, nil
}

// Tracker serves the cached snapshot when it was computed on the current
// local day, and recomputes from practice history otherwise. Within a day the
// tracker depends only on the practice set, and every saved result enqueues a
// refresh, so a same-day snapshot is current.
func (s *progressService) Tracker(ctx context.Context, userID int64) (*models.ProgressTracker, error) {
	log := logger.FromContext(ctx)

	snapshot, err := s.snapshotRepo.Get(ctx, userID)
	if err == nil && sameDay(snapshot.ComputedAt, s.now()) {
		log.Debug("serving cached tracker: user_id=%d, computed_at=%s", userID, snapshot.ComputedAt.Format(time.RFC3339))
		return &snapshot.Tracker, nil
	}
	if err != nil && !errs.Is(err, sql.ErrNoRows) {
		log.Warn("failed to load snapshot, recomputing: %v", err)
	}

	return s.computeTracker(ctx, userID)
}

func (s *progressService) computeTracker(ctx context.Context, userID int64) (*models.ProgressTracker, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing progress tracker: user_id=%d", userID)

	practices, err := s.practiceRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load practice history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	tracker := progress.Tracker(practices, s.now())
	return &tracker, nil
}

func (s *progressService) RefreshSnapshot(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("refreshing progress snapshot: user_id=%d", userID)

	tracker, err := s.computeTracker(ctx, userID)
	if err != nil {
		return err
	}

	snapshot := models.ProgressSnapshot{
		UserID:     userID,
		Tracker:    *tracker,
		ComputedAt: s.now(),
	}
	if err := s.snapshotRepo.Upsert(ctx, snapshot); err != nil {
		log.Error("failed to store snapshot: %v", err)
		return errors.NewInternalError(err)
	}
	log.Debug("snapshot refreshed: user_id=%d", userID)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
