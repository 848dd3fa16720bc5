package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"calcapi/internal/auth"
	"calcapi/internal/model"
	"calcapi/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for a failed login. Unknown user and
	// wrong password produce the same error so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("Invalid username or password")
	// ErrUserAlreadyExists is returned when username or email is taken. The
	// message does not say which field collided.
	ErrUserAlreadyExists = errors.New("Username or email already exists")
	// ErrPasswordTooShort is returned for passwords under six characters.
	ErrPasswordTooShort = errors.New("Password must contain at least six characters")
	// ErrInvalidRefreshToken is returned when a refresh token fails
	// verification or its subject no longer resolves to an active user.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

const minPasswordLen = 6

// RegisterInput carries the validated registration form fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// AuthToken is the transient result of a successful authentication. It is
// never persisted; token validity is entirely signature plus embedded expiry.
type AuthToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	User         *model.User
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, login, password string) (*AuthToken, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
}

type authService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user with a hashed password. The username/email
// collision query is only a friendlier early rejection; the database unique
// constraints decide under concurrent submissions, and a duplicate-key
// failure at insert maps to the same generic error.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if len(input.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if taken {
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates by username or email and returns a fresh token pair
// with a sanitized user snapshot. It also touches the last-login timestamp.
func (s *authService) Login(ctx context.Context, login, password string) (*AuthToken, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	accessToken, err := s.tokens.MintAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}
	refreshToken, err := s.tokens.MintRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	return &AuthToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    now.Add(s.tokens.AccessTTL()),
		User:         user,
	}, nil
}

// Refresh trades a valid refresh token for a new access token. The subject
// must still resolve to an active user.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.MintAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("mint access token: %w", err)
	}
	return accessToken, nil
}
