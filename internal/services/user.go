package services

import (
	"errors"
	"fmt"
	"strings"

	"themepark-ticketing-platform/internal/models"
	"themepark-ticketing-platform/internal/utils"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(email, name, passwordHash string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// UserService handles registration and credential checks. It supplies the
// identity that scopes carts and orders; roles and token issuance are out of
// scope.
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new account with an argon2id password hash
func (s *UserService) Register(email, name, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Create(email, name, hash)
}

// Authenticate verifies credentials and returns the matching user
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
