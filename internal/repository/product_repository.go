package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uttianguis/internal/model"
)

// ProductFilter narrows the public listing. Zero values mean "no filter".
type ProductFilter struct {
	Category  string
	Search    string
	Condition string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Page      int
	PageSize  int
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// ListPublic returns listable products (active, approved, not sold), newest first.
	ListPublic(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)
	// ListPending returns the review queue: active, unapproved, never rejected.
	ListPending(ctx context.Context) ([]model.Product, error)
	ListApprovedBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Product, error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID, sold bool) (int64, error)
	CountImages(ctx context.Context, productID uuid.UUID) (int64, error)
	// AddImages stores images; when one of them is main the existing main flag is cleared.
	AddImages(ctx context.Context, productID uuid.UUID, images []model.ProductImage) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Update saves every column of the product but never touches its associations.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("products.id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	product.ResolveMainImage()
	return &product, nil
}

func (r *productRepository) ListPublic(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	base := func() *gorm.DB {
		q := r.listable(r.db.WithContext(ctx).Model(&model.Product{}))
		if filter.Category != "" {
			q = q.Joins("JOIN categories ON categories.id = products.category_id").
				Where("LOWER(categories.name) = ?", strings.ToLower(filter.Category))
		}
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("(LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
		}
		if filter.Condition != "" {
			q = q.Where("products.item_condition = ?", filter.Condition)
		}
		if filter.MinPrice != nil {
			q = q.Where("products.price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			q = q.Where("products.price <= ?", *filter.MaxPrice)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.withDetails(base().Select("products.*")).Order("products.created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var products []model.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	resolveMainImages(products)
	return products, total, nil
}

func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.withDetails(r.listable(r.db.WithContext(ctx))).
		Order("products.created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	resolveMainImages(products)
	return products, nil
}

func (r *productRepository) ListPending(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("products.is_active = ? AND products.is_approved = ? AND products.rejected_at IS NULL", true, false).
		Order("products.created_at ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	resolveMainImages(products)
	return products, nil
}

func (r *productRepository) ListApprovedBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("products.seller_id = ? AND products.is_active = ? AND products.is_approved = ?", sellerID, true, true).
		Order("products.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	resolveMainImages(products)
	return products, nil
}

// CountBySeller counts approved products of a seller that are sold (sold=true)
// or still on sale (sold=false).
func (r *productRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID, sold bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("seller_id = ? AND is_approved = ? AND is_sold = ?", sellerID, true, sold)
	if !sold {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepository) CountImages(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) AddImages(ctx context.Context, productID uuid.UUID, images []model.ProductImage) error {
	newMain := false
	for i := range images {
		images[i].ProductID = productID
		if images[i].IsMain {
			newMain = true
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newMain {
			if err := tx.Model(&model.ProductImage{}).
				Where("product_id = ? AND is_main = ?", productID, true).
				Update("is_main", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&images).Error
	})
}

func (r *productRepository) listable(q *gorm.DB) *gorm.DB {
	return q.Where("products.is_active = ? AND products.is_approved = ? AND products.is_sold = ?", true, true, false)
}

func (r *productRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Category").
		Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func resolveMainImages(products []model.Product) {
	for i := range products {
		products[i].ResolveMainImage()
	}
}
