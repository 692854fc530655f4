package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

// FavoriteService manages the caller's bookmarked products.
type FavoriteService interface {
	List(ctx context.Context, actor auth.Identity) ([]model.Product, error)
	Add(ctx context.Context, actor auth.Identity, productID uuid.UUID) error
	Remove(ctx context.Context, actor auth.Identity, productID uuid.UUID) error
	Check(ctx context.Context, actor auth.Identity, productID uuid.UUID) (bool, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
}

// NewFavoriteService builds a FavoriteService.
func NewFavoriteService(favorites repository.FavoriteRepository, products repository.ProductRepository) FavoriteService {
	return &favoriteService{favorites: favorites, products: products}
}

// List returns favorited products that are still listable.
func (s *favoriteService) List(ctx context.Context, actor auth.Identity) ([]model.Product, error) {
	favs, err := s.favorites.ListListable(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	products := make([]model.Product, 0, len(favs))
	for _, f := range favs {
		if f.Product == nil {
			continue
		}
		f.Product.ResolveMainImage()
		products = append(products, *f.Product)
	}
	return products, nil
}

// Add is idempotent. Only active, approved products can be favorited.
func (s *favoriteService) Add(ctx context.Context, actor auth.Identity, productID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return notFoundOr(err, "product")
	}
	if !product.IsActive || !product.IsApproved {
		return apperrors.NotFound("product")
	}

	if _, err := s.favorites.Find(ctx, actor.UserID, productID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find favorite: %w", err)
	}

	if err := s.favorites.Create(ctx, &model.Favorite{UserID: actor.UserID, ProductID: productID}); err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, actor auth.Identity, productID uuid.UUID) error {
	removed, err := s.favorites.Delete(ctx, actor.UserID, productID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if !removed {
		return apperrors.NotFound("favorite")
	}
	return nil
}

func (s *favoriteService) Check(ctx context.Context, actor auth.Identity, productID uuid.UUID) (bool, error) {
	_, err := s.favorites.Find(ctx, actor.UserID, productID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("find favorite: %w", err)
}
