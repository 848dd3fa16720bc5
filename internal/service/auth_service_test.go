package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"calcapi/internal/auth"
	"calcapi/internal/config"
	"calcapi/internal/model"
)

const testBcryptCost = bcrypt.MinCost

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testTokenService() *auth.TokenService {
	return auth.NewTokenService(&config.Config{
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTokenTTL:   30 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	})
}

func validInput() RegisterInput {
	return RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Username:  "janedoe",
		Password:  "SecurePass123",
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         func() RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: validInput,
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsernameOrEmail", mock.Anything, "janedoe", "jane.doe@example.com").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "password too short",
			input: func() RegisterInput {
				in := validInput()
				in.Password = "tiny"
				return in
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: ErrPasswordTooShort,
		},
		{
			name:  "username or email taken",
			input: validInput,
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsernameOrEmail", mock.Anything, "janedoe", "jane.doe@example.com").Return(true, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
		{
			name:  "duplicate key at insert after pre-check passes",
			input: validInput,
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByUsernameOrEmail", mock.Anything, "janedoe", "jane.doe@example.com").Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, testTokenService(), testBcryptCost)
			user, err := svc.Register(context.Background(), tt.input())

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, "janedoe", user.Username)
				assert.True(t, user.IsActive)
				assert.False(t, user.IsVerified)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "SecurePass123", user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("SecurePass123"), testBcryptCost)
	storedUser := func() *model.User {
		return &model.User{
			ID:           uuid.New(),
			Username:     "janedoe",
			Email:        "jane.doe@example.com",
			PasswordHash: string(hashed),
			IsActive:     true,
		}
	}

	tests := []struct {
		name          string
		login         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login by username",
			login:    "janedoe",
			password: "SecurePass123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "janedoe").Return(storedUser(), nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "successful login by email",
			login:    "jane.doe@example.com",
			password: "SecurePass123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "jane.doe@example.com").Return(storedUser(), nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown user",
			login:    "nobody",
			password: "SecurePass123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			login:    "janedoe",
			password: "WrongPass999",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByLogin", mock.Anything, "janedoe").Return(storedUser(), nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, testTokenService(), testBcryptCost)
			token, err := svc.Login(context.Background(), tt.login, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token.AccessToken)
				assert.NotEmpty(t, token.RefreshToken)
				assert.Equal(t, "bearer", token.TokenType)
				assert.True(t, token.ExpiresAt.After(time.Now()))
				assert.NotNil(t, token.User)
				assert.NotNil(t, token.User.LastLogin)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// Unknown user and wrong password must be indistinguishable to the caller.
func TestAuthService_Login_NoEnumerationSignal(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("SecurePass123"), testBcryptCost)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByLogin", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByLogin", mock.Anything, "janedoe").Return(&model.User{
		ID:           uuid.New(),
		Username:     "janedoe",
		PasswordHash: string(hashed),
		IsActive:     true,
	}, nil)

	svc := NewAuthService(mockRepo, testTokenService(), testBcryptCost)

	_, errUnknown := svc.Login(context.Background(), "ghost", "whatever1")
	_, errWrongPass := svc.Login(context.Background(), "janedoe", "whatever1")

	assert.Equal(t, errUnknown, errWrongPass)
}

func TestAuthService_Refresh(t *testing.T) {
	tokens := testTokenService()
	userID := uuid.New()

	refreshToken, err := tokens.MintRefreshToken(userID)
	assert.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, IsActive: true}, nil)

		svc := NewAuthService(mockRepo, tokens, testBcryptCost)
		accessToken, err := svc.Refresh(context.Background(), refreshToken)

		assert.NoError(t, err)
		got, err := tokens.VerifyAccessToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		accessToken, _ := tokens.MintAccessToken(userID)

		svc := NewAuthService(new(MockUserRepository), tokens, testBcryptCost)
		_, err := svc.Refresh(context.Background(), accessToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})

	t.Run("inactive user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, IsActive: false}, nil)

		svc := NewAuthService(mockRepo, tokens, testBcryptCost)
		_, err := svc.Refresh(context.Background(), refreshToken)
		assert.Equal(t, ErrInvalidRefreshToken, err)
	})
}
