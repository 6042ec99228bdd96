package worker

import (
	"context"
	"fmt"
)

// SnapshotRefresher recomputes and stores a user's cached progress tracker.
// Implemented by the progress service; declared here so jobs do not depend on
// the service package.
type SnapshotRefresher interface {
	RefreshSnapshot(ctx context.Context, userID int64) error
}

// SnapshotJob refreshes one user's progress snapshot.
type SnapshotJob struct {
	Refresher SnapshotRefresher
	UserID    int64
}

func (j *SnapshotJob) Name() string {
	return fmt.Sprintf("snapshot-refresh(user=%d)", j.UserID)
}

func (j *SnapshotJob) Run(ctx context.Context) error {
	return j.Refresher.RefreshSnapshot(ctx, j.UserID)
}
