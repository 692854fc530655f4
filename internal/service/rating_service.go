package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

const maxRatingComment = 500

// RatingInput is a score given by the caller to another user.
type RatingInput struct {
	RatedUserID uuid.UUID
	Value       int
	Comment     string
}

// UserRatings lists the ratings a user received with their aggregate.
type UserRatings struct {
	Ratings []model.Rating `json:"ratings"`
	Average float64        `json:"average"`
	Count   int64          `json:"count"`
}

// RatingService manages user ratings.
type RatingService interface {
	Rate(ctx context.Context, actor auth.Identity, in RatingInput) (*model.Rating, error)
	ForUser(ctx context.Context, userID uuid.UUID) (*UserRatings, error)
}

type ratingService struct {
	ratings repository.RatingRepository
	users   repository.UserRepository
}

// NewRatingService builds a RatingService.
func NewRatingService(ratings repository.RatingRepository, users repository.UserRepository) RatingService {
	return &ratingService{ratings: ratings, users: users}
}

// Rate stores the rating, replacing the caller's previous rating of the same user.
func (s *ratingService) Rate(ctx context.Context, actor auth.Identity, in RatingInput) (*model.Rating, error) {
	if in.Value < 1 || in.Value > 5 {
		return nil, apperrors.Validation("value must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > maxRatingComment {
		return nil, apperrors.Validation(fmt.Sprintf("comment must be at most %d characters", maxRatingComment))
	}
	if in.RatedUserID == actor.UserID {
		return nil, apperrors.Validation("you cannot rate yourself")
	}
	if _, err := s.users.FindByID(ctx, in.RatedUserID); err != nil {
		return nil, notFoundOr(err, "user")
	}

	existing, err := s.ratings.Find(ctx, actor.UserID, in.RatedUserID)
	switch {
	case err == nil:
		existing.Value = in.Value
		existing.Comment = comment
		if err := s.ratings.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update rating: %w", err)
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating := &model.Rating{
			RaterID:     actor.UserID,
			RatedUserID: in.RatedUserID,
			Value:       in.Value,
			Comment:     comment,
		}
		if err := s.ratings.Create(ctx, rating); err != nil {
			return nil, fmt.Errorf("create rating: %w", err)
		}
		return rating, nil
	default:
		return nil, fmt.Errorf("find rating: %w", err)
	}
}

func (s *ratingService) ForUser(ctx context.Context, userID uuid.UUID) (*UserRatings, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	ratings, err := s.ratings.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	summary, err := s.ratings.Summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summarize ratings: %w", err)
	}
	return &UserRatings{Ratings: ratings, Average: summary.Average, Count: summary.Count}, nil
}
