package services_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/services"
	"github.com/lucasmn/memorly/internal/testutil/mocks"
)

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestSessionCreate_CountsWords(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	practiceRepo := new(mocks.MockPracticeRepository)
	svc := services.NewSessionService(sessionRepo, practiceRepo, 500)

	sessionRepo.On("Insert", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.WordCount == 6 && s.InputMethod == models.InputMethodTypePaste
	})).Return(int64(1), nil)
	sessionRepo.On("Get", mock.Anything, int64(1)).Return(&models.Session{ID: 1, UserID: 9, WordCount: 6}, nil)

	created, err := svc.Create(context.Background(), 9, services.CreateSessionInput{
		Title:   "Hamlet",
		Content: "To be   or not\nto be",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	sessionRepo.AssertExpectations(t)
}

func TestSessionCreate_RejectsEmptyContent(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 500)

	_, err := svc.Create(context.Background(), 9, services.CreateSessionInput{
		Title:   "Empty",
		Content: "   \n\t ",
	})
	assertAppError(t, err, apperrors.ErrCodeValidation)
	sessionRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSessionCreate_RejectsOverWordLimit(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 5)

	_, err := svc.Create(context.Background(), 9, services.CreateSessionInput{
		Title:   "Long",
		Content: "one two three four five six",
	})
	assertAppError(t, err, apperrors.ErrCodeValidation)
	sessionRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSessionCreate_RejectsUnknownInputMethod(t *testing.T) {
	svc := services.NewSessionService(new(mocks.MockSessionRepository), new(mocks.MockPracticeRepository), 500)

	_, err := svc.Create(context.Background(), 9, services.CreateSessionInput{
		Title:       "Hamlet",
		Content:     "To be",
		InputMethod: "CARRIER_PIGEON",
	})
	assertAppError(t, err, apperrors.ErrCodeValidation)
}

func TestSessionList_TruncatesPreview(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 500)

	long := strings.Repeat("word ", 40) // 200 chars
	sessionRepo.On("List", mock.Anything, mock.Anything).Return([]models.SessionListItem{
		{ID: 1, Title: "Long", Content: long},
		{ID: 2, Title: "Short", Content: "tiny"},
	}, nil)
	sessionRepo.On("Count", mock.Anything, mock.Anything).Return(2, nil)

	items, total, err := svc.List(context.Background(), 9, models.SessionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, long[:100]+"...", items[0].Content)
	assert.Equal(t, "tiny", items[1].Content)
}

func TestSessionGet_OtherUsersSessionReadsAsNotFound(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 500)

	sessionRepo.On("Get", mock.Anything, int64(5)).Return(&models.Session{ID: 5, UserID: 2}, nil)

	_, err := svc.Get(context.Background(), 1, 5)
	assertAppError(t, err, apperrors.ErrCodeNotFound)
}

func TestSessionGet_MissingSession(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 500)

	sessionRepo.On("Get", mock.Anything, int64(5)).Return(nil, sql.ErrNoRows)

	_, err := svc.Get(context.Background(), 1, 5)
	assertAppError(t, err, apperrors.ErrCodeNotFound)
}

func TestSessionUpdate_RecountsWordsOnContentChange(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 500)

	existing := &models.Session{ID: 5, UserID: 1, Title: "Hamlet", Content: "To be", WordCount: 2}
	sessionRepo.On("Get", mock.Anything, int64(5)).Return(existing, nil)
	sessionRepo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.WordCount == 4 && s.Content == "To be or not"
	})).Return(nil)

	content := "To be or not"
	_, err := svc.Update(context.Background(), 1, 5, services.UpdateSessionInput{Content: &content})
	require.NoError(t, err)
	sessionRepo.AssertExpectations(t)
}

func TestSessionDelete_OwnershipEnforced(t *testing.T) {
	sessionRepo := new(mocks.MockSessionRepository)
	svc := services.NewSessionService(sessionRepo, new(mocks.MockPracticeRepository), 500)

	sessionRepo.On("Get", mock.Anything, int64(5)).Return(&models.Session{ID: 5, UserID: 2}, nil)

	err := svc.Delete(context.Background(), 1, 5)
	assertAppError(t, err, apperrors.ErrCodeNotFound)
	sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
