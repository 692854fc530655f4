package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// FavoriteRepository stores user bookmarks.
type FavoriteRepository interface {
	Find(ctx context.Context, userID, productID uuid.UUID) (*model.Favorite, error)
	Create(ctx context.Context, fav *model.Favorite) error
	Delete(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	// ListListable returns the user's favorites whose product is still listable.
	ListListable(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository builds a GORM-backed repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Find(ctx context.Context, userID, productID uuid.UUID) (*model.Favorite, error) {
	var fav model.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteRepository) Create(ctx context.Context, fav *model.Favorite) error {
	return r.db.WithContext(ctx).Omit("Product").Create(fav).Error
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *favoriteRepository) ListListable(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := r.db.WithContext(ctx).
		Select("favorites.*").
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ?", userID).
		Where("products.is_active = ? AND products.is_approved = ? AND products.is_sold = ?", true, true, false).
		Preload("Product").
		Preload("Product.Category").
		Preload("Product.Images").
		Order("favorites.created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	for i := range favs {
		if favs[i].Product != nil {
			favs[i].Product.ResolveMainImage()
		}
	}
	return favs, nil
}
