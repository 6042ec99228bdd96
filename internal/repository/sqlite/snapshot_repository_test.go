package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
	"github.com/lucasmn/memorly/internal/repository/sqlite"
	"github.com/lucasmn/memorly/internal/testutil"
)

type SnapshotRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	repo   repository.SnapshotRepository
	userID int64
}

func (s *SnapshotRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSnapshotRepository(s.db)

	res, err := s.db.ExecContext(context.Background(), `INSERT INTO users (email) VALUES (?)`, "test@example.com")
	s.Require().NoError(err)
	s.userID, err = res.LastInsertId()
	s.Require().NoError(err)
}

func (s *SnapshotRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SnapshotRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	score := 85.5

	snapshot := models.ProgressSnapshot{
		UserID: s.userID,
		Tracker: models.ProgressTracker{
			Streak:             3,
			RecentScore:        &score,
			TodayWords:         42,
			AvgPractice:        12.5,
			RecallBeforePrompt: 4.2,
		},
		ComputedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.Require().NoError(s.repo.Upsert(ctx, snapshot))

	got, err := s.repo.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(3, got.Tracker.Streak)
	s.Require().NotNil(got.Tracker.RecentScore)
	s.Assert().Equal(85.5, *got.Tracker.RecentScore)
	s.Assert().Equal(42, got.Tracker.TodayWords)
	s.Assert().True(got.ComputedAt.Equal(snapshot.ComputedAt))
}

func (s *SnapshotRepositorySuite) TestUpsert_ReplacesExisting() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Upsert(ctx, models.ProgressSnapshot{
		UserID:     s.userID,
		Tracker:    models.ProgressTracker{Streak: 1},
		ComputedAt: time.Now().UTC(),
	}))
	s.Require().NoError(s.repo.Upsert(ctx, models.ProgressSnapshot{
		UserID:     s.userID,
		Tracker:    models.ProgressTracker{Streak: 2},
		ComputedAt: time.Now().UTC(),
	}))

	got, err := s.repo.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(2, got.Tracker.Streak)
}

func (s *SnapshotRepositorySuite) TestGet_NotFound() {
	snapshot, err := s.repo.Get(context.Background(), 99999)
	s.Assert().ErrorIs(err, sql.ErrNoRows)
	s.Assert().Nil(snapshot)
}

func TestSnapshotRepositorySuite(t *testing.T) {
	suite.Run(t, new(SnapshotRepositorySuite))
}
