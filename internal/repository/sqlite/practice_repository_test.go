package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/progress"
	"github.com/lucasmn/memorly/internal/repository"
	"github.com/lucasmn/memorly/internal/repository/sqlite"
	"github.com/lucasmn/memorly/internal/testutil"
)

type PracticeRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.PracticeRepository

	userID    int64
	sessionID int64
}

func (s *PracticeRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPracticeRepository(s.db)

	ctx := context.Background()
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (email) VALUES (?)`, "test@example.com")
	s.Require().NoError(err)
	s.userID, err = res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (user_id, title, content, word_count) VALUES (?, ?, ?, ?)
`, s.userID, "Hamlet", "To be or not to be", 6)
	s.Require().NoError(err)
	s.sessionID, err = res.LastInsertId()
	s.Require().NoError(err)
}

func (s *PracticeRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func intPtr(v int) *int       { return &v }
func fPtr(v float64) *float64 { return &v }

func (s *PracticeRepositorySuite) TestInsert() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Practice{
		SessionID:       s.sessionID,
		UserID:          s.userID,
		DurationSeconds: intPtr(300),
		Accuracy:        fPtr(85.5),
		WordsRecalled:   intPtr(12),
		PromptsUsed:     intPtr(2),
	})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	practices, err := s.repo.ListForUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(practices, 1)
	s.Assert().Equal(id, practices[0].ID)
	s.Require().NotNil(practices[0].Accuracy)
	s.Assert().Equal(85.5, *practices[0].Accuracy)
	s.Assert().False(practices[0].CreatedAt.IsZero())
}

func (s *PracticeRepositorySuite) TestInsert_RepeatAppendsRows() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.repo.Insert(ctx, models.Practice{
			SessionID:     s.sessionID,
			UserID:        s.userID,
			WordsRecalled: intPtr(i + 1),
		})
		s.Require().NoError(err)
	}

	count, err := s.repo.CountForSession(ctx, s.sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(3, count)
}

func (s *PracticeRepositorySuite) TestInsert_NilOptionalFields() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Practice{
		SessionID: s.sessionID,
		UserID:    s.userID,
	})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	practices, err := s.repo.ListForUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(practices, 1)
	s.Assert().Nil(practices[0].DurationSeconds)
	s.Assert().Nil(practices[0].Accuracy)
	s.Assert().Nil(practices[0].WordsRecalled)
}

func (s *PracticeRepositorySuite) TestListForSession_Pagination() {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.repo.Insert(ctx, models.Practice{
			SessionID:     s.sessionID,
			UserID:        s.userID,
			WordsRecalled: intPtr(i),
		})
		s.Require().NoError(err)
	}

	page, err := s.repo.ListForSession(ctx, s.sessionID, 2, 0)
	s.Require().NoError(err)
	s.Assert().Len(page, 2)

	rest, err := s.repo.ListForSession(ctx, s.sessionID, 10, 2)
	s.Require().NoError(err)
	s.Assert().Len(rest, 3)
}

func (s *PracticeRepositorySuite) TestListForSession_NewestFirst() {
	ctx := context.Background()

	first, err := s.repo.Insert(ctx, models.Practice{SessionID: s.sessionID, UserID: s.userID})
	s.Require().NoError(err)
	second, err := s.repo.Insert(ctx, models.Practice{SessionID: s.sessionID, UserID: s.userID})
	s.Require().NoError(err)

	practices, err := s.repo.ListForSession(ctx, s.sessionID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(practices, 2)
	s.Assert().Equal(second, practices[0].ID)
	s.Assert().Equal(first, practices[1].ID)
}

func (s *PracticeRepositorySuite) TestListForUser_SpansSessions() {
	ctx := context.Background()

	res, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (user_id, title, content, word_count) VALUES (?, ?, ?, ?)
`, s.userID, "Other", "more text", 2)
	s.Require().NoError(err)
	otherSession, err := res.LastInsertId()
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, models.Practice{SessionID: s.sessionID, UserID: s.userID})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.Practice{SessionID: otherSession, UserID: s.userID})
	s.Require().NoError(err)

	practices, err := s.repo.ListForUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Len(practices, 2)
}

func (s *PracticeRepositorySuite) TestSumWordsInRange() {
	ctx := context.Background()

	_, err := s.repo.Insert(ctx, models.Practice{
		SessionID:     s.sessionID,
		UserID:        s.userID,
		WordsRecalled: intPtr(10),
	})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.Practice{
		SessionID:     s.sessionID,
		UserID:        s.userID,
		WordsRecalled: intPtr(7),
	})
	s.Require().NoError(err)

	now := time.Now().UTC()
	total, err := s.repo.SumWordsInRange(ctx, s.sessionID, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(17, total)

	total, err = s.repo.SumWordsInRange(ctx, s.sessionID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(0, total)
}

// A practice saved "right now" must land on today's local calendar day even
// far from UTC, or streak and today-words counts drift around midnight.
func (s *PracticeRepositorySuite) TestCreatedAtKeepsTheLocalDay() {
	oldLocal := time.Local
	time.Local = time.FixedZone("UTC+14", 14*60*60)
	defer func() { time.Local = oldLocal }()

	ctx := context.Background()
	saved := time.Now()
	_, err := s.repo.Insert(ctx, models.Practice{
		SessionID:     s.sessionID,
		UserID:        s.userID,
		WordsRecalled: intPtr(5),
		CreatedAt:     saved,
	})
	s.Require().NoError(err)

	practices, err := s.repo.ListForUser(ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(practices, 1)

	got := practices[0].CreatedAt
	s.Assert().True(got.Equal(saved), "expected %s to round-trip, got %s", saved, got)
	s.Assert().Equal(saved.Format("2006-01-02"), got.Format("2006-01-02"))

	streak, _ := progress.Streak(practices, time.Now())
	s.Assert().Equal(1, streak)

	midnight := time.Date(saved.Year(), saved.Month(), saved.Day(), 0, 0, 0, 0, time.Local)
	total, err := s.repo.SumWordsInRange(ctx, s.sessionID, midnight, midnight.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Assert().Equal(5, total)
}

func TestPracticeRepositorySuite(t *testing.T) {
	suite.Run(t, new(PracticeRepositorySuite))
}
