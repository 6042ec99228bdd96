package jobs

import (
	"github.com/lucasmn/memorly/internal/worker"
)

// WorkerQueue implements JobQueue on top of a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	refresher worker.SnapshotRefresher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, refresher worker.SnapshotRefresher) JobQueue {
	return &WorkerQueue{pool: pool, refresher: refresher}
}

func (q *WorkerQueue) EnqueueSnapshotRefresh(userID int64) error {
	return q.pool.Submit(&worker.SnapshotJob{
		Refresher: q.refresher,
		UserID:    userID,
	})
}
