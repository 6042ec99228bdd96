package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository implementation
func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Upsert(ctx context.Context, snapshot models.ProgressSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("upserting snapshot: user_id=%d", snapshot.UserID)

	tracker, err := json.Marshal(snapshot.Tracker)
	if err != nil {
		log.Error("failed to marshal tracker: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO progress_snapshots (user_id, tracker, computed_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    tracker = excluded.tracker,
    computed_at = excluded.computed_at
`, snapshot.UserID, string(tracker), snapshot.ComputedAt)
	if err != nil {
		log.Error("failed to upsert snapshot: %v", err)
	}
	return err
}

func (r *snapshotRepository) Get(ctx context.Context, userID int64) (*models.ProgressSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("getting snapshot: user_id=%d", userID)

	var (
		snapshot models.ProgressSnapshot
		tracker  string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, tracker, computed_at
FROM progress_snapshots
WHERE user_id = ?
`, userID).Scan(&snapshot.UserID, &tracker, &snapshot.ComputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("snapshot not found: user_id=%d", userID)
		} else {
			log.Error("failed to get snapshot: %v", err)
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(tracker), &snapshot.Tracker); err != nil {
		log.Error("failed to unmarshal tracker: %v", err)
		return nil, err
	}
	// Freshness is judged against the local calendar day.
	snapshot.ComputedAt = snapshot.ComputedAt.In(time.Local)
	return &snapshot, nil
}
