package service

import (
	"context"
	"fmt"
	"time"

	"uttianguis/internal/cache"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = time.Hour
)

// CategoryService lists the catalog categories.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	if s.cache.GetJSON(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.cache.SetJSON(ctx, categoriesCacheKey, categories, categoriesCacheTTL)
	return categories, nil
}
