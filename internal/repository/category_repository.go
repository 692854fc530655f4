package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// CategoryRepository reads and seeds the product catalog.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// EnsureByName inserts the category unless one with the same name exists.
	EnsureByName(ctx context.Context, category *model.Category) (created bool, err error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) EnsureByName(ctx context.Context, category *model.Category) (bool, error) {
	var existing model.Category
	err := r.db.WithContext(ctx).Where("name = ?", category.Name).First(&existing).Error
	if err == nil {
		*category = existing
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return false, err
	}
	return true, nil
}
