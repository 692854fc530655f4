package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// RatingSummary aggregates the ratings a user received.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RatingRepository stores user ratings.
type RatingRepository interface {
	Find(ctx context.Context, raterID, ratedUserID uuid.UUID) (*model.Rating, error)
	Create(ctx context.Context, rating *model.Rating) error
	Update(ctx context.Context, rating *model.Rating) error
	ListForUser(ctx context.Context, ratedUserID uuid.UUID) ([]model.Rating, error)
	Summary(ctx context.Context, ratedUserID uuid.UUID) (RatingSummary, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository builds a GORM-backed repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Find(ctx context.Context, raterID, ratedUserID uuid.UUID) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("rater_id = ? AND rated_user_id = ?", raterID, ratedUserID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Omit("Rater").Create(rating).Error
}

func (r *ratingRepository) Update(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Omit("Rater").Save(rating).Error
}

func (r *ratingRepository) ListForUser(ctx context.Context, ratedUserID uuid.UUID) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Preload("Rater").
		Where("rated_user_id = ?", ratedUserID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) Summary(ctx context.Context, ratedUserID uuid.UUID) (RatingSummary, error) {
	var row struct {
		Average *float64
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("AVG(value) AS average, COUNT(*) AS total").
		Where("rated_user_id = ?", ratedUserID).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, err
	}
	summary := RatingSummary{Count: row.Total}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}
