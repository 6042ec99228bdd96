package services

import (
	"context"
	"database/sql"
	errs "errors"
	"strings"

	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/repository"
)

// UserService handles the minimal identity surface
type UserService interface {
	Create(ctx context.Context, email, displayName string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, email, displayName string) (*models.User, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.NewValidationError("email", "must be a valid email address")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.NewBadRequestError("email already registered")
	} else if !errs.Is(err, sql.ErrNoRows) {
		log.Error("failed to check existing user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user := models.User{Email: email, DisplayName: strings.TrimSpace(displayName)}
	id, err := s.userRepo.Insert(ctx, user)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	created, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to load created user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user created: id=%d", id)
	return created, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if errs.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user", id)
		}
		logger.FromContext(ctx).Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}
