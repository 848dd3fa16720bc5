package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"calcapi/internal/config"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or missing its subject claim. Callers
// must treat it as an authentication failure; no other detail is exposed.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService mints and verifies JWT access and refresh tokens. The two
// token classes are signed with independent secrets so leaking one secret
// does not compromise the other class.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService builds a token service from configuration.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// MintAccessToken signs a short-lived access token for the given user.
// The payload carries only the subject id and expiry, no authorization
// claims; revocation relies on the user's active flag and the TTL.
func (s *TokenService) MintAccessToken(userID uuid.UUID) (string, error) {
	return s.mint(userID, s.accessSecret, s.accessTTL)
}

// MintRefreshToken signs a longer-lived refresh token for the given user.
func (s *TokenService) MintRefreshToken(userID uuid.UUID) (string, error) {
	return s.mint(userID, s.refreshSecret, s.refreshTTL)
}

// VerifyAccessToken validates signature and expiry against the access secret
// and returns the subject id, or ErrInvalidToken.
func (s *TokenService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefreshToken validates signature and expiry against the refresh
// secret and returns the subject id, or ErrInvalidToken.
func (s *TokenService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) mint(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
