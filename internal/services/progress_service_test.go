package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/services"
	"github.com/lucasmn/memorly/internal/testutil/mocks"
)

func practiceAt(created time.Time, words int, accuracy float64) models.Practice {
	return models.Practice{
		UserID:        1,
		CreatedAt:     created,
		WordsRecalled: intPtr(words),
		Accuracy:      floatPtr(accuracy),
	}
}

func TestProgressSummary_EmptyHistory(t *testing.T) {
	practiceRepo := new(mocks.MockPracticeRepository)
	svc := services.NewProgressService(practiceRepo, new(mocks.MockSnapshotRepository))

	practiceRepo.On("ListForUser", mock.Anything, int64(1)).Return([]models.Practice{}, nil)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Streak)
	assert.Nil(t, summary.RecentScore)
	assert.Equal(t, 0, summary.TodayWords)
	assert.Nil(t, summary.LastPracticeDate)
}

func TestProgressSummary_PracticedToday(t *testing.T) {
	practiceRepo := new(mocks.MockPracticeRepository)
	svc := services.NewProgressService(practiceRepo, new(mocks.MockSnapshotRepository))

	practiceRepo.On("ListForUser", mock.Anything, int64(1)).Return([]models.Practice{
		practiceAt(time.Now().Add(-time.Minute), 25, 88),
	}, nil)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Streak)
	require.NotNil(t, summary.RecentScore)
	assert.Equal(t, 88.0, *summary.RecentScore)
	assert.Equal(t, 25, summary.TodayWords)
}

func TestProgressTracker_FullPayload(t *testing.T) {
	practiceRepo := new(mocks.MockPracticeRepository)
	snapshotRepo := new(mocks.MockSnapshotRepository)
	svc := services.NewProgressService(practiceRepo, snapshotRepo)

	snapshotRepo.On("Get", mock.Anything, int64(1)).Return(nil, sql.ErrNoRows)
	practiceRepo.On("ListForUser", mock.Anything, int64(1)).Return([]models.Practice{
		practiceAt(time.Now().Add(-time.Minute), 25, 88),
		practiceAt(time.Now().AddDate(0, 0, -1), 10, 70),
	}, nil)

	tracker, err := svc.Tracker(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, tracker.Streak)
	assert.Len(t, tracker.AccuracyTrend.Days, 7)
	assert.Len(t, tracker.ActivityHeatmap, 7)
	require.NotNil(t, tracker.AccuracyTrend.BestDay)
}

func TestProgressTracker_ServesSameDaySnapshot(t *testing.T) {
	practiceRepo := new(mocks.MockPracticeRepository)
	snapshotRepo := new(mocks.MockSnapshotRepository)
	svc := services.NewProgressService(practiceRepo, snapshotRepo)

	snapshotRepo.On("Get", mock.Anything, int64(1)).Return(&models.ProgressSnapshot{
		UserID:     1,
		Tracker:    models.ProgressTracker{Streak: 3, TodayWords: 42},
		ComputedAt: time.Now(),
	}, nil)

	tracker, err := svc.Tracker(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, tracker.Streak)
	assert.Equal(t, 42, tracker.TodayWords)
	practiceRepo.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
}

func TestProgressTracker_RecomputesStaleSnapshot(t *testing.T) {
	practiceRepo := new(mocks.MockPracticeRepository)
	snapshotRepo := new(mocks.MockSnapshotRepository)
	svc := services.NewProgressService(practiceRepo, snapshotRepo)

	snapshotRepo.On("Get", mock.Anything, int64(1)).Return(&models.ProgressSnapshot{
		UserID:     1,
		Tracker:    models.ProgressTracker{Streak: 3},
		ComputedAt: time.Now().AddDate(0, 0, -2),
	}, nil)
	practiceRepo.On("ListForUser", mock.Anything, int64(1)).Return([]models.Practice{
		practiceAt(time.Now().Add(-time.Minute), 25, 88),
	}, nil)

	tracker, err := svc.Tracker(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.Streak)
	assert.Equal(t, 25, tracker.TodayWords)
	practiceRepo.AssertExpectations(t)
}

func TestRefreshSnapshot_StoresComputedTracker(t *testing.T) {
	practiceRepo := new(mocks.MockPracticeRepository)
	snapshotRepo := new(mocks.MockSnapshotRepository)
	svc := services.NewProgressService(practiceRepo, snapshotRepo)

	practiceRepo.On("ListForUser", mock.Anything, int64(1)).Return([]models.Practice{
		practiceAt(time.Now().Add(-time.Minute), 25, 88),
	}, nil)
	snapshotRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s models.ProgressSnapshot) bool {
		return s.UserID == 1 && s.Tracker.Streak == 1 && !s.ComputedAt.IsZero()
	})).Return(nil)

	require.NoError(t, svc.RefreshSnapshot(context.Background(), 1))
	snapshotRepo.AssertExpectations(t)
}
