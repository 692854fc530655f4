package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"uttianguis/internal/auth"
	"uttianguis/internal/cache"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/repository"
	"uttianguis/internal/storage"
)

const profileCacheTTL = 5 * time.Minute

// Profile is a user's public card.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	Bio             string    `json:"bio"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	AverageRating   float64   `json:"averageRating"`
	RatingCount     int64     `json:"ratingCount"`
	ActiveListings  int64     `json:"activeListings"`
	Sales           int64     `json:"sales"`
}

// ProfilePatch holds the editable profile fields. Nil or blank fields are kept.
type ProfilePatch struct {
	Name        *string
	PhoneNumber *string
	Bio         *string
}

// UserService exposes profile operations.
type UserService interface {
	Profile(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, actor auth.Identity, patch ProfilePatch) (*Profile, error)
	ChangePassword(ctx context.Context, actor auth.Identity, current, next string) error
	UploadProfileImage(ctx context.Context, actor auth.Identity, data []byte) (*Profile, error)
}

type userService struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	ratings   repository.RatingRepository
	store     storage.Store
	cache     *cache.Client
	validator *ListingValidator
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(
	users repository.UserRepository,
	products repository.ProductRepository,
	ratings repository.RatingRepository,
	store storage.Store,
	cache *cache.Client,
	validator *ListingValidator,
) UserService {
	return &userService{
		users:     users,
		products:  products,
		ratings:   ratings,
		store:     store,
		cache:     cache,
		validator: validator,
	}
}

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("profile:%s", id)
}

// Profile returns the public card of a user. Only the user row is cached;
// rating and listing figures are read on every call.
func (s *userService) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	profile, err := s.profileCard(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.ratings.Summary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("summarize ratings: %w", err)
	}
	listings, err := s.products.CountBySeller(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	sales, err := s.products.CountBySeller(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("count sales: %w", err)
	}

	profile.AverageRating = summary.Average
	profile.RatingCount = summary.Count
	profile.ActiveListings = listings
	profile.Sales = sales
	return profile, nil
}

func (s *userService) profileCard(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var cached Profile
	if s.cache.GetJSON(ctx, profileCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	card := &Profile{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		PhoneNumber:     user.PhoneNumber,
		Bio:             user.Bio,
		ProfileImageURL: user.ProfileImageURL(),
		Role:            user.Role,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
	}
	s.cache.SetJSON(ctx, profileCacheKey(id), card, profileCacheTTL)
	return card, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor auth.Identity, patch ProfilePatch) (*Profile, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	if v := nonEmpty(patch.Name); v != nil {
		user.Name = strings.TrimSpace(*v)
	}
	if v := nonEmpty(patch.PhoneNumber); v != nil {
		phone := s.validator.NormalizePhone(*v)
		if err := s.validator.ValidatePhone("phoneNumber", phone); err != nil {
			return nil, err
		}
		user.PhoneNumber = phone
	}
	if v := nonEmpty(patch.Bio); v != nil {
		if err := s.validator.ValidateReason("bio", *v); err != nil {
			return nil, err
		}
		user.Bio = strings.TrimSpace(*v)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(user.ID))
	return s.Profile(ctx, user.ID)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *userService) ChangePassword(ctx context.Context, actor auth.Identity, current, next string) error {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return notFoundOr(err, "user")
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperrors.Validation("current password is incorrect")
	}
	if err := s.validator.ValidatePassword(next); err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *userService) UploadProfileImage(ctx context.Context, actor auth.Identity, data []byte) (*Profile, error) {
	obj, err := storage.NewImageObject(storage.FolderProfiles, data)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	url, err := s.store.Save(ctx, obj)
	if err != nil {
		return nil, fmt.Errorf("store profile image: %w", err)
	}

	previous := user.ProfileImage
	user.ProfileImage = url
	if err := s.users.Update(ctx, user); err != nil {
		_ = s.store.Delete(ctx, url)
		return nil, fmt.Errorf("update user: %w", err)
	}
	if previous != "" {
		if err := s.store.Delete(ctx, previous); err != nil {
			log.WithError(err).WithField("url", previous).Warn("failed to remove previous profile image")
		}
	}
	_ = s.cache.Delete(ctx, profileCacheKey(user.ID))
	return s.Profile(ctx, user.ID)
}
