package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/classbridge/classbridge-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ErrDuplicateEmail is surfaced when an account email is already taken.
var ErrDuplicateEmail = errors.New("email already in use")

// UserService handles account lookup and creation.
type UserService struct {
	users accountStore
}

// NewUserService creates a new UserService.
func NewUserService(users accountStore) *UserService {
	return &UserService{users: users}
}

// GetByID retrieves a user.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email for login.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// Create inserts a new account with a pre-hashed password. The role is
// fixed at creation; there is no promotion flow.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest, passwordHash string) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, ErrRoleMismatch
	}
	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces a user's password hash.
func (s *UserService) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if err := s.users.UpdatePassword(ctx, id, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
