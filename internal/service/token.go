package service

import (
	"github.com/forgo/fetch/api/pkg/jwt"
)

// TokenService handles access token operations. Identity is established
// upstream; this service only signs and validates the bearer tokens the
// API consumes.
type TokenService struct {
	jwtService *jwt.Service
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	JWTService *jwt.Service
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	return &TokenService{
		jwtService: cfg.JWTService,
	}
}

// IssueAccessToken signs an access token for a user
func (s *TokenService) IssueAccessToken(userID, email string) (string, error) {
	claims := jwt.Claims{
		Subject: userID,
		UserID:  userID,
		Email:   email,
	}
	return s.jwtService.Sign(claims)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *TokenService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}
