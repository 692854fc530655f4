package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"uttianguis/internal/auth"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

// RegisterInput carries a new account's data.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Token           string `json:"token"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// AuthService handles registration, login and key revocation.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RevokeKey(ctx context.Context, actor auth.Identity) error
}

type authService struct {
	users     repository.UserRepository
	keys      repository.APIKeyRepository
	validator *ListingValidator
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, keys repository.APIKeyRepository, validator *ListingValidator) AuthService {
	return &authService{
		users:     users,
		keys:      keys,
		validator: validator,
	}
}

// Register creates an active User account with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = s.validator.NormalizePhone(in.PhoneNumber)

	if in.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if err := s.validator.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.PhoneNumber != "" {
		if err := s.validator.ValidatePhone("phoneNumber", in.PhoneNumber); err != nil {
			return nil, err
		}
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win the race past FindByEmail.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies the password and mints a new API key carrying a snapshot of
// the user's id, name, email and role.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrSuspendedAccount
	}

	token, err := auth.GenerateKey()
	if err != nil {
		return nil, err
	}
	key := &model.APIKey{
		Key:         token,
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Description: "API Key for " + user.Name,
		IsActive:    true,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("store api key: %w", err)
	}

	return &LoginResult{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		Token:           token,
		ProfileImageURL: user.ProfileImageURL(),
	}, nil
}

// RevokeKey deactivates the key the caller authenticated with.
func (s *authService) RevokeKey(ctx context.Context, actor auth.Identity) error {
	if err := s.keys.Deactivate(ctx, actor.KeyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("api key")
		}
		return fmt.Errorf("deactivate api key: %w", err)
	}
	return nil
}
