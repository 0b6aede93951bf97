// internal/services/user_service.go
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

// RoleGuest is reported for emails without an account.
const RoleGuest models.Role = "guest"

type UserService struct {
	store store.Store
}

type CreateUserRequest struct {
	Name        string     `json:"name" validate:"max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Image       string     `json:"image,omitempty" validate:"omitempty,url"`
	Role        string     `json:"role" validate:"required,role"`
	CompanyName string     `json:"companyName,omitempty" validate:"max=200"`
	CompanyLogo string     `json:"companyLogo,omitempty" validate:"omitempty,url"`
	DateOfBirth *time.Time `json:"dob,omitempty"`
}

type UpdateUserProfileRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=100"`
	Image       *string    `json:"image,omitempty" validate:"omitempty,url"`
	DateOfBirth *time.Time `json:"dob,omitempty"`
	Position    *string    `json:"position,omitempty" validate:"omitempty,max=100"`
	CompanyName *string    `json:"companyName,omitempty" validate:"omitempty,max=200"`
	CompanyLogo *string    `json:"companyLogo,omitempty" validate:"omitempty,url"`
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// CreateUser registers a user with the defaults of their role.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:        utils.SanitizeText(req.Name),
		Email:       models.NormalizeEmail(req.Email),
		Image:       req.Image,
		Role:        models.Role(req.Role),
		DateOfBirth: req.DateOfBirth,
		CompanyName: utils.SanitizeText(req.CompanyName),
		CompanyLogo: req.CompanyLogo,
	}
	user.ApplyRoleDefaults()

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"email": user.Email,
		"role":  user.Role,
	}).Info("User registered")
	return user, nil
}

// GetRole reports the stored role, or RoleGuest when the email is unknown.
func (s *UserService) GetRole(ctx context.Context, email string) (models.Role, error) {
	user, err := s.store.Users().FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return RoleGuest, nil
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	return user.Role, nil
}

func (s *UserService) GetUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, email string, req *UpdateUserProfileRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	email = models.NormalizeEmail(email)
	update := models.UserUpdate{
		Name:        utils.SanitizeOptional(req.Name),
		Image:       req.Image,
		DateOfBirth: req.DateOfBirth,
		Position:    utils.SanitizeOptional(req.Position),
		CompanyName: utils.SanitizeOptional(req.CompanyName),
		CompanyLogo: req.CompanyLogo,
	}

	if err := s.store.Users().Update(ctx, email, update); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.GetUser(ctx, email)
}
