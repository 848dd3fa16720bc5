package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "calcapi/internal/errors"
	"calcapi/internal/model"
	"calcapi/internal/repository"
)

// ErrSamePassword is returned when a password change reuses the current one.
var ErrSamePassword = errors.New("New password cannot match current password")

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
}

// UserService exposes profile lifecycle operations for the authenticated user.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, bcryptCost int) UserService {
	return &userService{users: users, bcryptCost: bcryptCost}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile edits name, email, and username. Uniqueness still holds:
// a duplicate-key failure on save maps to the generic already-exists error.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Email = update.Email
	user.Username = update.Username

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if next == current {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the user; the foreign key cascades to owned calculations.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
