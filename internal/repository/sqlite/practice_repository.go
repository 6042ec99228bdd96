package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

type practiceRepository struct {
	db *sql.DB
}

// NewPracticeRepository creates a new PracticeRepository implementation
func NewPracticeRepository(db *sql.DB) repository.PracticeRepository {
	return &practiceRepository{db: db}
}

func (r *practiceRepository) Insert(ctx context.Context, p models.Practice) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("inserting practice: session_id=%d, user_id=%d", p.SessionID, p.UserID)

	// created_at is bound from the app clock, with its UTC offset, so the
	// stored row and the returned model carry the same instant.
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	// History is append-only; the session's updated_at moves with it so list
	// views sort recent activity first.
	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO practices (session_id, user_id, duration_seconds, accuracy, words_recalled, prompts_used, improvement_tip, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, p.SessionID, p.UserID, p.DurationSeconds, p.Accuracy, p.WordsRecalled, p.PromptsUsed, p.ImprovementTip, p.CreatedAt)
		if err != nil {
			log.Error("failed to insert practice: %v", err)
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE sessions SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, p.SessionID)
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Debug("practice inserted: id=%d", id)
	return id, nil
}

func (r *practiceRepository) ListForUser(ctx context.Context, userID int64) ([]models.Practice, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("listing practices: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, user_id, duration_seconds, accuracy, words_recalled, prompts_used, improvement_tip, created_at
FROM practices
WHERE user_id = ?
ORDER BY created_at ASC, id ASC
`, userID)
	if err != nil {
		log.Error("failed to list practices: %v", err)
		return nil, err
	}
	defer rows.Close()

	practices, err := scanPractices(rows)
	if err != nil {
		log.Error("failed to scan practice row: %v", err)
		return nil, err
	}
	log.Debug("found %d practices", len(practices))
	return practices, rows.Err()
}

func (r *practiceRepository) ListForSession(ctx context.Context, sessionID int64, limit, offset int) ([]models.Practice, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("listing practices: session_id=%d, limit=%d, offset=%d", sessionID, limit, offset)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, user_id, duration_seconds, accuracy, words_recalled, prompts_used, improvement_tip, created_at
FROM practices
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`, sessionID, limit, offset)
	if err != nil {
		log.Error("failed to list practices: %v", err)
		return nil, err
	}
	defer rows.Close()

	practices, err := scanPractices(rows)
	if err != nil {
		log.Error("failed to scan practice row: %v", err)
		return nil, err
	}
	return practices, rows.Err()
}

func (r *practiceRepository) CountForSession(ctx context.Context, sessionID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM practices WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		log.Error("failed to count practices: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *practiceRepository) SumWordsInRange(ctx context.Context, sessionID int64, from, to time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("summing words: session_id=%d, from=%s, to=%s", sessionID, from.Format(time.RFC3339), to.Format(time.RFC3339))

	// datetime() normalizes stored offsets to UTC so the range compares
	// instants, not strings.
	var total int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(words_recalled), 0)
FROM practices
WHERE session_id = ? AND datetime(created_at) >= datetime(?) AND datetime(created_at) < datetime(?)
`, sessionID, from, to).Scan(&total)
	if err != nil {
		log.Error("failed to sum words: %v", err)
		return 0, err
	}
	return total, nil
}

// scanPractices reads practice rows. The driver hands timestamps back in UTC;
// day and slot bucketing works on local calendar days, so created_at is
// converted before anything downstream sees it.
func scanPractices(rows *sql.Rows) ([]models.Practice, error) {
	var practices []models.Practice
	for rows.Next() {
		var p models.Practice
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.DurationSeconds, &p.Accuracy, &p.WordsRecalled, &p.PromptsUsed, &p.ImprovementTip, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.In(time.Local)
		practices = append(practices, p)
	}
	return practices, nil
}
