package repository

import (
	"context"
	"time"

	"github.com/lucasmn/memorly/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user models.User) (int64, error)
	List(ctx context.Context) ([]models.User, error)
}

// SessionRepository handles memorization session data access
type SessionRepository interface {
	Get(ctx context.Context, id int64) (*models.Session, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionListItem, error)
	Count(ctx context.Context, filter models.SessionFilter) (int, error)
	Insert(ctx context.Context, session models.Session) (int64, error)
	Update(ctx context.Context, session models.Session) error
	Delete(ctx context.Context, id int64) error
	CountPractices(ctx context.Context, sessionID int64) (int, error)
	LatestPractice(ctx context.Context, sessionID int64) (*models.Practice, error)
}

// PracticeRepository handles practice history data access
type PracticeRepository interface {
	Insert(ctx context.Context, practice models.Practice) (int64, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Practice, error)
	ListForSession(ctx context.Context, sessionID int64, limit, offset int) ([]models.Practice, error)
	CountForSession(ctx context.Context, sessionID int64) (int, error)
	SumWordsInRange(ctx context.Context, sessionID int64, from, to time.Time) (int, error)
}

// SnapshotRepository handles cached progress trackers
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot models.ProgressSnapshot) error
	Get(ctx context.Context, userID int64) (*models.ProgressSnapshot, error)
}
