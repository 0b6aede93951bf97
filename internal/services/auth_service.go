// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

// AuthService issues and verifies access tokens. Users sign in with an
// external identity provider; a token is only issued for an email that has
// been registered through POST /users.
type AuthService struct {
	store store.Store
	ttl   time.Duration
}

type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"` // in seconds
}

func NewAuthService(s store.Store, ttl time.Duration) *AuthService {
	return &AuthService{
		store: s,
		ttl:   ttl,
	}
}

func (s *AuthService) IssueToken(ctx context.Context, req *TokenRequest) (*TokenResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	if _, err := s.store.Users().FindByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logrus.WithField("email", email).Warn("Token requested for unknown user")
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token, err := utils.GenerateJWT(email, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}

// VerifyToken returns the email bound to a valid token.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims.Email, nil
}

func validateRequest(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
