package services

import (
	"context"
	"database/sql"
	errs "errors"
	"strings"
	"time"

	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

const contentPreviewLen = 100

// CreateSessionInput carries the fields accepted when creating a session.
type CreateSessionInput struct {
	Title       string
	Content     string
	Purpose     string
	InputMethod string
}

// UpdateSessionInput carries the optional fields of a session update. Nil
// fields are left unchanged.
type UpdateSessionInput struct {
	Title       *string
	Content     *string
	Purpose     *string
	InputMethod *string
}

// SessionService handles memorization session business logic
type SessionService interface {
	Create(ctx context.Context, userID int64, input CreateSessionInput) (*models.Session, error)
	List(ctx context.Context, userID int64, filter models.SessionFilter) ([]models.SessionListItem, int, error)
	Get(ctx context.Context, userID, sessionID int64) (*models.SessionDetail, error)
	Update(ctx context.Context, userID, sessionID int64, input UpdateSessionInput) (*models.Session, error)
	Delete(ctx context.Context, userID, sessionID int64) error
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	practiceRepo repository.PracticeRepository
	wordLimit    int
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repository.SessionRepository, practiceRepo repository.PracticeRepository, wordLimit int) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		practiceRepo: practiceRepo,
		wordLimit:    wordLimit,
	}
}

// countWords counts whitespace-separated tokens.
func countWords(content string) int {
	return len(strings.Fields(content))
}

func (s *sessionService) Create(ctx context.Context, userID int64, input CreateSessionInput) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating session: user_id=%d", userID)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}

	words := countWords(input.Content)
	if words == 0 {
		return nil, errors.NewValidationError("content", "must contain at least one word")
	}
	if words > s.wordLimit {
		return nil, errors.NewValidationError("content", "exceeds the word limit")
	}

	inputMethod := input.InputMethod
	switch inputMethod {
	case "":
		inputMethod = models.InputMethodTypePaste
	case models.InputMethodTypePaste, models.InputMethodUpload:
	default:
		return nil, errors.NewValidationError("input_method", "must be TYPE_PASTE or UPLOAD")
	}

	session := models.Session{
		UserID:      userID,
		Title:       title,
		Content:     input.Content,
		Purpose:     strings.TrimSpace(input.Purpose),
		InputMethod: inputMethod,
		WordCount:   words,
	}

	id, err := s.sessionRepo.Insert(ctx, session)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	created, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to load created session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("session created: id=%d, words=%d", id, words)
	return created, nil
}

func (s *sessionService) List(ctx context.Context, userID int64, filter models.SessionFilter) ([]models.SessionListItem, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sessions: user_id=%d, search=%q", userID, filter.Search)

	filter.UserID = userID
	items, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.sessionRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count sessions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	for i := range items {
		items[i].Content = preview(items[i].Content)
	}
	return items, total, nil
}

// preview truncates content to a short list-view excerpt.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= contentPreviewLen {
		return content
	}
	return string(runes[:contentPreviewLen]) + "..."
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID int64) (*models.SessionDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting session: id=%d", sessionID)

	session, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	detail := models.SessionDetail{Session: *session}

	latest, err := s.sessionRepo.LatestPractice(ctx, sessionID)
	if err != nil {
		log.Error("failed to load latest practice: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if latest != nil {
		detail.LastPractice = &latest.CreatedAt
		detail.Accuracy = latest.Accuracy
		detail.Duration = latest.DurationSeconds
		detail.WordsRecalled = latest.WordsRecalled
		detail.PromptsUsed = latest.PromptsUsed
		detail.ImprovementTip = latest.ImprovementTip
	}

	count, err := s.sessionRepo.CountPractices(ctx, sessionID)
	if err != nil {
		log.Error("failed to count practices: %v", err)
		return nil, errors.NewInternalError(err)
	}
	detail.PracticesCount = count

	start := midnight(time.Now())
	todayWords, err := s.practiceRepo.SumWordsInRange(ctx, sessionID, start, start.AddDate(0, 0, 1))
	if err != nil {
		log.Error("failed to sum today's words: %v", err)
		return nil, errors.NewInternalError(err)
	}
	detail.TodayWords = todayWords

	return &detail, nil
}

func (s *sessionService) Update(ctx context.Context, userID, sessionID int64, input UpdateSessionInput) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating session: id=%d", sessionID)

	session, err := s.getOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewValidationError("title", "must not be empty")
		}
		session.Title = title
	}
	if input.Content != nil {
		words := countWords(*input.Content)
		if words == 0 {
			return nil, errors.NewValidationError("content", "must contain at least one word")
		}
		if words > s.wordLimit {
			return nil, errors.NewValidationError("content", "exceeds the word limit")
		}
		session.Content = *input.Content
		session.WordCount = words
	}
	if input.Purpose != nil {
		session.Purpose = strings.TrimSpace(*input.Purpose)
	}
	if input.InputMethod != nil {
		switch *input.InputMethod {
		case models.InputMethodTypePaste, models.InputMethodUpload:
			session.InputMethod = *input.InputMethod
		default:
			return nil, errors.NewValidationError("input_method", "must be TYPE_PASTE or UPLOAD")
		}
	}

	if err := s.sessionRepo.Update(ctx, *session); err != nil {
		log.Error("failed to update session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	updated, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to load updated session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return updated, nil
}

func (s *sessionService) Delete(ctx context.Context, userID, sessionID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting session: id=%d", sessionID)

	if _, err := s.getOwned(ctx, userID, sessionID); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		log.Error("failed to delete session: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("session deleted: id=%d", sessionID)
	return nil
}

// getOwned loads a session and verifies ownership. A session belonging to
// another user reads as not found so ids are not probeable.
func (s *sessionService) getOwned(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
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

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
