package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, display_name, created_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found: id=%d", id)
		} else {
			log.Error("failed to get user: %v", err)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by email")

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, email, display_name, created_at
FROM users
WHERE email = ?
`, email).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get user by email: %v", err)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Insert(ctx context.Context, u models.User) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (email, display_name) VALUES (?, ?)
`, u.Email, u.DisplayName)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get user id: %v", err)
		return 0, err
	}
	log.Debug("user inserted: id=%d", id)
	return id, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, email, display_name, created_at
FROM users
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	log.Debug("found %d users", len(users))
	return users, rows.Err()
}
