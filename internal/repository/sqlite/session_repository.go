package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	var s models.Session
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, content, purpose, input_method, word_count, is_active, created_at, updated_at
FROM sessions
WHERE id = ?
`, id).Scan(&s.ID, &s.UserID, &s.Title, &s.Content, &s.Purpose, &s.InputMethod, &s.WordCount, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found: id=%d", id)
		} else {
			log.Error("failed to get session: %v", err)
		}
		return nil, err
	}
	return &s, nil
}

// listFilter applies the WHERE clauses shared by List and Count.
func listFilter(query squirrel.SelectBuilder, filter models.SessionFilter) squirrel.SelectBuilder {
	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"s.user_id": filter.UserID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"s.title": pattern},
			squirrel.Like{"s.content": pattern},
		})
	}
	return query
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionListItem, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: user_id=%d, search=%q, sort_by=%s", filter.UserID, filter.Search, filter.SortBy)

	query := sqlBuilder.Select(
		"s.id", "s.title", "s.content", "s.purpose", "s.input_method",
		"s.word_count", "s.created_at", "s.updated_at",
		"lp.created_at", "lp.accuracy", "lp.duration_seconds", "lp.words_recalled", "lp.prompts_used",
		"COALESCE(pc.n, 0)",
	).From("sessions s").
		LeftJoin(`(
    SELECT p.session_id, p.created_at, p.accuracy, p.duration_seconds, p.words_recalled, p.prompts_used
    FROM practices p
    JOIN (SELECT session_id, MAX(id) AS latest_id FROM practices GROUP BY session_id) latest
      ON latest.latest_id = p.id
) lp ON lp.session_id = s.id`).
		LeftJoin(`(SELECT session_id, COUNT(*) AS n FROM practices GROUP BY session_id) pc ON pc.session_id = s.id`)

	query = listFilter(query, filter)

	// Safe ORDER BY with validation
	switch filter.SortBy {
	case "title":
		query = query.OrderBy("s.title COLLATE NOCASE ASC")
	case "word_count":
		query = query.OrderBy("s.word_count DESC")
	default:
		query = query.OrderBy("s.created_at DESC")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var items []models.SessionListItem
	for rows.Next() {
		var item models.SessionListItem
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Content, &item.Purpose, &item.InputMethod,
			&item.WordCount, &item.CreatedAt, &item.UpdatedAt,
			&item.LastPractice, &item.Accuracy, &item.Duration, &item.WordsRecalled, &item.PromptsUsed,
			&item.PracticesCount,
		); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		if item.LastPractice != nil {
			local := item.LastPractice.In(time.Local)
			item.LastPractice = &local
		}
		items = append(items, item)
	}
	log.Debug("found %d sessions", len(items))
	return items, rows.Err()
}

func (r *sessionRepository) Count(ctx context.Context, filter models.SessionFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("counting sessions: user_id=%d, search=%q", filter.UserID, filter.Search)

	query := listFilter(sqlBuilder.Select("COUNT(*)").From("sessions s"), filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count sessions: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) Insert(ctx context.Context, s models.Session) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: user_id=%d, words=%d", s.UserID, s.WordCount)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (user_id, title, content, purpose, input_method, word_count, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.Title, s.Content, s.Purpose, s.InputMethod, s.WordCount, s.IsActive)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) Update(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session: id=%d", s.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET title = ?, content = ?, purpose = ?, input_method = ?, word_count = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, s.Title, s.Content, s.Purpose, s.InputMethod, s.WordCount, s.IsActive, s.ID)
	if err != nil {
		log.Error("failed to update session: %v", err)
	}
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("deleting session: id=%d", id)

	// Practices cascade via foreign key.
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete session: %v", err)
	}
	return err
}

func (r *sessionRepository) CountPractices(ctx context.Context, sessionID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM practices WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		log.Error("failed to count practices: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) LatestPractice(ctx context.Context, sessionID int64) (*models.Practice, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting latest practice: session_id=%d", sessionID)

	var p models.Practice
	err := r.db.QueryRowContext(ctx, `
SELECT id, session_id, user_id, duration_seconds, accuracy, words_recalled, prompts_used, improvement_tip, created_at
FROM practices
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1
`, sessionID).Scan(&p.ID, &p.SessionID, &p.UserID, &p.DurationSeconds, &p.Accuracy, &p.WordsRecalled, &p.PromptsUsed, &p.ImprovementTip, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error("failed to get latest practice: %v", err)
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.In(time.Local)
	return &p, nil
}
