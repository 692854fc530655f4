package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	"uttianguis/internal/config"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
	"uttianguis/internal/storage"
	"uttianguis/internal/telemetry"
)

const featuredLimit = 8

// ProductInput is a new listing as submitted by a seller.
type ProductInput struct {
	Title           string
	Description     string
	Price           decimal.Decimal
	CategoryID      uuid.UUID
	Condition       string
	MeetingPoint    string
	ContactWhatsapp string
}

// ProductPatch holds the fields of a partial update. Nil fields, and empty
// strings, leave the stored value untouched.
type ProductPatch struct {
	Title           *string
	Description     *string
	Price           *decimal.Decimal
	CategoryID      *uuid.UUID
	Condition       *string
	MeetingPoint    *string
	ContactWhatsapp *string
	IsSold          *bool
}

// ProductPage is one page of the public listing.
type ProductPage struct {
	Items    []model.Product `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// ProductService implements the product side of the moderation workflow.
type ProductService interface {
	Create(ctx context.Context, actor auth.Identity, in ProductInput) (*model.Product, error)
	Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error)
	Featured(ctx context.Context) ([]model.Product, error)
	Pending(ctx context.Context) ([]model.Product, error)
	BySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error
	AddImages(ctx context.Context, actor auth.Identity, id uuid.UUID, images [][]byte, mainIndex int) (*model.Product, error)
	Approve(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Product, error)
	Reject(ctx context.Context, actor auth.Identity, id uuid.UUID, reason string) (*model.Product, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	store      storage.Store
	notifier   Notifier
	validator  *ListingValidator
	policy     config.Policy
	now        func() time.Time
}

// NewProductService builds a ProductService.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	store storage.Store,
	notifier Notifier,
	validator *ListingValidator,
	policy config.Policy,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		store:      store,
		notifier:   notifier,
		validator:  validator,
		policy:     policy,
		now:        time.Now,
	}
}

// Create stores a listing in the pending-approval state.
func (s *productService) Create(ctx context.Context, actor auth.Identity, in ProductInput) (*model.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ContactWhatsapp = s.validator.NormalizePhone(in.ContactWhatsapp)
	if err := s.validator.ValidateProduct(in); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Title:           in.Title,
		Description:     strings.TrimSpace(in.Description),
		Price:           in.Price,
		CategoryID:      in.CategoryID,
		Condition:       in.Condition,
		MeetingPoint:    strings.TrimSpace(in.MeetingPoint),
		ContactWhatsapp: in.ContactWhatsapp,
		SellerID:        actor.UserID,
		IsActive:        true,
		IsApproved:      false,
		IsSold:          false,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	log.WithFields(log.Fields{"product_id": product.ID, "seller_id": actor.UserID}).Info("product submitted for review")
	return s.load(ctx, product.ID)
}

// Get returns listable products to anyone. Anything else is only visible to
// its seller and to admins.
func (s *productService) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Listable() && !actor.CanManage(product.SellerID) {
		return nil, apperrors.NotFound("product")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error) {
	if filter.Condition != "" {
		if err := s.validator.ValidateCondition(filter.Condition); err != nil {
			return nil, err
		}
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, apperrors.Validation("minPrice must not exceed maxPrice")
	}
	items, total, err := s.products.ListPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ProductPage{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (s *productService) Featured(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return products, nil
}

func (s *productService) Pending(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending products: %w", err)
	}
	return products, nil
}

func (s *productService) BySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Product, error) {
	products, err := s.products.ListApprovedBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return products, nil
}

// Update applies a partial patch. The seller or an admin may edit. An approved
// product keeps its approval unless the review-on-edit policy is set and the
// listing content changed.
func (s *productService) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch ProductPatch) (*model.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(product.SellerID) {
		return nil, apperrors.ErrNotOwner
	}

	contentChanged := false
	if v := nonEmpty(patch.Title); v != nil {
		if err := s.validator.ValidateTitle(*v); err != nil {
			return nil, err
		}
		product.Title = strings.TrimSpace(*v)
		contentChanged = true
	}
	if v := nonEmpty(patch.Description); v != nil {
		product.Description = strings.TrimSpace(*v)
		contentChanged = true
	}
	if patch.Price != nil {
		if err := s.validator.ValidatePrice(*patch.Price); err != nil {
			return nil, err
		}
		product.Price = *patch.Price
		contentChanged = true
	}
	if patch.CategoryID != nil && *patch.CategoryID != uuid.Nil {
		if err := s.ensureCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *patch.CategoryID
		product.Category = nil
		contentChanged = true
	}
	if v := nonEmpty(patch.Condition); v != nil {
		if err := s.validator.ValidateCondition(*v); err != nil {
			return nil, err
		}
		product.Condition = *v
		contentChanged = true
	}
	if v := nonEmpty(patch.MeetingPoint); v != nil {
		product.MeetingPoint = strings.TrimSpace(*v)
	}
	if v := nonEmpty(patch.ContactWhatsapp); v != nil {
		phone := s.validator.NormalizePhone(*v)
		if err := s.validator.ValidatePhone("contactWhatsapp", phone); err != nil {
			return nil, err
		}
		product.ContactWhatsapp = phone
	}
	if patch.IsSold != nil {
		product.IsSold = *patch.IsSold
	}

	if s.policy.ReviewOnEdit && contentChanged && product.IsApproved {
		product.ReturnToReview()
		telemetry.ModerationTransitionsTotal.WithLabelValues("product", "return_to_review").Inc()
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.load(ctx, id)
}

// Delete soft-deletes the product. Favorites and images are kept.
func (s *productService) Delete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	product, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(product.SellerID) {
		return apperrors.ErrNotOwner
	}
	product.IsActive = false
	if err := s.products.Update(ctx, product); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// AddImages stores up to MaxProductImages pictures. The image at mainIndex
// becomes main; when the product had none, the first new image does.
func (s *productService) AddImages(ctx context.Context, actor auth.Identity, id uuid.UUID, images [][]byte, mainIndex int) (*model.Product, error) {
	if len(images) == 0 {
		return nil, apperrors.Validation("at least one image is required")
	}
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(product.SellerID) {
		return nil, apperrors.ErrNotOwner
	}

	existing, err := s.products.CountImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count product images: %w", err)
	}
	if int(existing)+len(images) > model.MaxProductImages {
		return nil, apperrors.Validation(fmt.Sprintf("a product can have at most %d images", model.MaxProductImages))
	}

	objects := make([]storage.Object, 0, len(images))
	for _, data := range images {
		obj, err := storage.NewImageObject(storage.FolderProducts, data)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	if mainIndex < 0 || mainIndex >= len(images) {
		mainIndex = -1
		if existing == 0 {
			mainIndex = 0
		}
	}

	rows := make([]model.ProductImage, 0, len(objects))
	for i, obj := range objects {
		url, err := s.store.Save(ctx, obj)
		if err != nil {
			s.discard(ctx, rows)
			return nil, fmt.Errorf("store product image: %w", err)
		}
		rows = append(rows, model.ProductImage{URL: url, IsMain: i == mainIndex})
	}

	if err := s.products.AddImages(ctx, id, rows); err != nil {
		s.discard(ctx, rows)
		return nil, fmt.Errorf("save product images: %w", err)
	}
	return s.load(ctx, id)
}

// Approve makes a product visible and tells the seller.
func (s *productService) Approve(ctx context.Context, actor auth.Identity, id uuid.UUID) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientRole
	}
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Approve(actor.UserID, s.now(), s.policy.StrictTransitions); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("approve product: %w", err)
	}
	telemetry.ModerationTransitionsTotal.WithLabelValues("product", "approve").Inc()
	log.WithFields(log.Fields{"product_id": id, "admin_id": actor.UserID}).Info("product approved")

	s.notifier.Notify(ctx, product.SellerID, model.NotificationSystem,
		fmt.Sprintf("Tu producto '%s' ha sido aprobado", product.Title), &product.ID)
	return product, nil
}

// Reject unapproves and soft-deletes the product in one step and tells the seller.
func (s *productService) Reject(ctx context.Context, actor auth.Identity, id uuid.UUID, reason string) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientRole
	}
	if err := s.validator.ValidateReason("reason", reason); err != nil {
		return nil, err
	}
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Reject(actor.UserID, s.now(), strings.TrimSpace(reason), s.policy.StrictTransitions); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("reject product: %w", err)
	}
	telemetry.ModerationTransitionsTotal.WithLabelValues("product", "reject").Inc()
	log.WithFields(log.Fields{"product_id": id, "admin_id": actor.UserID}).Info("product rejected")

	s.notifier.Notify(ctx, product.SellerID, model.NotificationSystem,
		fmt.Sprintf("Tu producto '%s' ha sido rechazado: %s", product.Title, product.RejectionReason), &product.ID)
	return product, nil
}

func (s *productService) load(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	return product, nil
}

func (s *productService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.Validation("categoryId is required")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation("category does not exist")
		}
		return fmt.Errorf("load category: %w", err)
	}
	return nil
}

func (s *productService) discard(ctx context.Context, rows []model.ProductImage) {
	for _, row := range rows {
		if err := s.store.Delete(ctx, row.URL); err != nil {
			log.WithError(err).WithField("url", row.URL).Warn("failed to remove orphaned image")
		}
	}
}

func nonEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
