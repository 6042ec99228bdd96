package services

import (
	"context"
	"database/sql"
	errs "errors"
	"strconv"
	"strings"
	"time"

	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/jobs"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

// PracticeResultInput carries the fields of a completed recall attempt.
// Duration is the raw payload value: plain seconds or an "MM:SS" clock string.
type PracticeResultInput struct {
	Duration       *string
	Accuracy       *float64
	WordsRecalled  *int
	PromptsUsed    *int
	ImprovementTip *string
}

// PracticeService handles the practice write path and per-session history
type PracticeService interface {
	StartPractice(ctx context.Context, userID, sessionID int64) (*models.Session, error)
	SaveResult(ctx context.Context, userID, sessionID int64, input PracticeResultInput) (*models.Practice, error)
	ListForSession(ctx context.Context, userID, sessionID int64, limit, offset int) ([]models.Practice, int, error)
}

type practiceService struct {
	sessionRepo  repository.SessionRepository
	practiceRepo repository.PracticeRepository
	queue        jobs.JobQueue
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(sessionRepo repository.SessionRepository, practiceRepo repository.PracticeRepository, queue jobs.JobQueue) PracticeService {
	return &practiceService{
		sessionRepo:  sessionRepo,
		practiceRepo: practiceRepo,
		queue:        queue,
	}
}

// ParseDuration converts a duration payload into seconds. Accepts a plain
// number of seconds ("90") or a minutes:seconds clock string ("12:30").
func ParseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errs.New("empty duration")
	}

	if !strings.Contains(raw, ":") {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return 0, errs.New("duration must be a non-negative number of seconds")
		}
		return seconds, nil
	}

	parts := strings.SplitN(raw, ":", 2)
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, errs.New("invalid minutes in duration")
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, errs.New("invalid seconds in duration")
	}
	return minutes*60 + seconds, nil
}

func (s *practiceService) StartPractice(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting practice: session_id=%d", sessionID)

	session, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsActive {
		session.IsActive = true
		if err := s.sessionRepo.Update(ctx, *session); err != nil {
			log.Error("failed to activate session: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	log.Info("practice started: session_id=%d", sessionID)
	return session, nil
}

func (s *practiceService) SaveResult(ctx context.Context, userID, sessionID int64, input PracticeResultInput) (*models.Practice, error) {
	log := logger.FromContext(ctx)
	log.Debug("saving practice result: session_id=%d", sessionID)

	if _, err := s.getOwned(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	practice := models.Practice{
		SessionID:      sessionID,
		UserID:         userID,
		Accuracy:       input.Accuracy,
		WordsRecalled:  input.WordsRecalled,
		PromptsUsed:    input.PromptsUsed,
		ImprovementTip: input.ImprovementTip,
		CreatedAt:      time.Now(),
	}

	if input.Duration != nil {
		seconds, err := ParseDuration(*input.Duration)
		if err != nil {
			return nil, errors.NewValidationError("duration", err.Error())
		}
		practice.DurationSeconds = &seconds
	}
	if input.Accuracy != nil && (*input.Accuracy < 0 || *input.Accuracy > 100) {
		return nil, errors.NewValidationError("accuracy", "must be between 0 and 100")
	}
	if input.WordsRecalled != nil && *input.WordsRecalled < 0 {
		return nil, errors.NewValidationError("words_recalled", "must not be negative")
	}
	if input.PromptsUsed != nil && *input.PromptsUsed < 0 {
		return nil, errors.NewValidationError("prompts_used", "must not be negative")
	}

	id, err := s.practiceRepo.Insert(ctx, practice)
	if err != nil {
		log.Error("failed to insert practice: %v", err)
		return nil, errors.NewInternalError(err)
	}
	practice.ID = id

	if s.queue != nil {
		if err := s.queue.EnqueueSnapshotRefresh(userID); err != nil {
			// The nightly refresh will catch up; the saved result is not
			// affected.
			log.Warn("failed to enqueue snapshot refresh: %v", err)
		}
	}

	log.Info("practice result saved: id=%d, session_id=%d", id, sessionID)
	return &practice, nil
}

func (s *practiceService) ListForSession(ctx context.Context, userID, sessionID int64, limit, offset int) ([]models.Practice, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing practice history: session_id=%d", sessionID)

	if _, err := s.getOwned(ctx, userID, sessionID); err != nil {
		return nil, 0, err
	}

	practices, err := s.practiceRepo.ListForSession(ctx, sessionID, limit, offset)
	if err != nil {
		log.Error("failed to list practices: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.practiceRepo.CountForSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to count practices: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return practices, total, nil
}

func (s *practiceService) getOwned(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errs.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("session", sessionID)
		}
		logger.FromContext(ctx).Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session.UserID != userID {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}
