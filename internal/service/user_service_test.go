package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "calcapi/internal/errors"
	"calcapi/internal/model"
)

func storedUserWithPassword(t *testing.T, id uuid.UUID, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), testBcryptCost)
	assert.NoError(t, err)
	return &model.User{
		ID:           id,
		Username:     "janedoe",
		Email:        "jane.doe@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("updates fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(storedUserWithPassword(t, userID, "SecurePass123"), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(mockRepo, testBcryptCost)
		user, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{
			FirstName: "Janet",
			LastName:  "Doe",
			Email:     "janet.doe@example.com",
			Username:  "janetdoe",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Janet", user.FirstName)
		assert.Equal(t, "janetdoe", user.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate key on save", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(storedUserWithPassword(t, userID, "SecurePass123"), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		svc := NewUserService(mockRepo, testBcryptCost)
		_, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "taken@example.com",
			Username:  "janedoe",
		})

		assert.Equal(t, ErrUserAlreadyExists, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockRepo, testBcryptCost)
		_, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{})

		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		current       string
		next          string
		expectedError error
	}{
		{"success", "SecurePass123", "NewSecret456", nil},
		{"wrong current password", "WrongPass999", "NewSecret456", ErrInvalidCredentials},
		{"new password too short", "SecurePass123", "tiny", ErrPasswordTooShort},
		{"new password equals current", "SecurePass123", "SecurePass123", ErrSamePassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockRepo.On("FindByID", mock.Anything, userID).Return(storedUserWithPassword(t, userID, "SecurePass123"), nil)
			if tt.expectedError == nil {
				mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			}

			svc := NewUserService(mockRepo, testBcryptCost)
			err := svc.ChangePassword(context.Background(), userID, tt.current, tt.next)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
				mockRepo.AssertExpectations(t)
			}
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(storedUserWithPassword(t, userID, "SecurePass123"), nil)
	mockRepo.On("Delete", mock.Anything, userID).Return(nil)

	svc := NewUserService(mockRepo, testBcryptCost)
	assert.NoError(t, svc.Delete(context.Background(), userID))
	mockRepo.AssertExpectations(t)
}
