package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"techevents/internal/domain"
)

const msgUserFieldsRequired = "Name and email are required"

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewUserService creates a UserService backed by userRepo.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser stores a new user after checking no user already has the email.
// The check and the insert are separate statements; users.email carries no
// unique constraint.
func (s *userService) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	var errs []string
	if name == "" {
		errs = append(errs, "name is required")
	}
	if email == "" {
		errs = append(errs, "email is required")
	}
	if len(errs) > 0 {
		return nil, &domain.FieldValidationError{Entity: "user", Summary: msgUserFieldsRequired, Violations: errs}
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{Entity: "user", Message: "user with this email already exists"}
	}

	now := time.Now()
	user := domain.NewUser(name, email, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
