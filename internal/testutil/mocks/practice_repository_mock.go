package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lucasmn/memorly/internal/models"
)

// MockPracticeRepository is a mock implementation of repository.PracticeRepository
type MockPracticeRepository struct {
	mock.Mock
}

func (m *MockPracticeRepository) Insert(ctx context.Context, practice models.Practice) (int64, error) {
	args := m.Called(ctx, practice)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPracticeRepository) ListForUser(ctx context.Context, userID int64) ([]models.Practice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Practice), args.Error(1)
}

func (m *MockPracticeRepository) ListForSession(ctx context.Context, sessionID int64, limit, offset int) ([]models.Practice, error) {
	args := m.Called(ctx, sessionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Practice), args.Error(1)
}

func (m *MockPracticeRepository) CountForSession(ctx context.Context, sessionID int64) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockPracticeRepository) SumWordsInRange(ctx context.Context, sessionID int64, from, to time.Time) (int, error) {
	args := m.Called(ctx, sessionID, from, to)
	return args.Int(0), args.Error(1)
}
