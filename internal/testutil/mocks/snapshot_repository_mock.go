package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lucasmn/memorly/internal/models"
)

// MockSnapshotRepository is a mock implementation of repository.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snapshot models.ProgressSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Get(ctx context.Context, userID int64) (*models.ProgressSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressSnapshot), args.Error(1)
}
