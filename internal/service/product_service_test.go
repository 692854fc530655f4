package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	"uttianguis/internal/config"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
	"uttianguis/internal/storage"
)

var pngImage = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type productFixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	store      *MockStore
	notifier   *MockNotifier
	svc        *productService
}

func newProductFixture(policy config.Policy) *productFixture {
	f := &productFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		store:      new(MockStore),
		notifier:   new(MockNotifier),
	}
	f.svc = NewProductService(f.products, f.categories, f.store, f.notifier, NewListingValidator("uttn.mx"), policy).(*productService)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func pendingProduct(sellerID uuid.UUID) *model.Product {
	return &model.Product{
		ID:         uuid.New(),
		Title:      "Bicicleta",
		Price:      decimal.NewFromInt(1500),
		SellerID:   sellerID,
		Condition:  model.ConditionGood,
		IsActive:   true,
		IsApproved: false,
	}
}

func TestProductService_Create(t *testing.T) {
	seller := auth.Identity{UserID: uuid.New(), Role: model.RoleUser}
	in := validProduct()

	f := newProductFixture(config.Policy{})
	f.categories.On("FindByID", mock.Anything, in.CategoryID).Return(&model.Category{ID: in.CategoryID}, nil)
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.SellerID == seller.UserID && p.IsActive && !p.IsApproved && !p.IsSold
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Product).ID = uuid.New()
	}).Return(nil)
	f.products.On("FindByID", mock.Anything, mock.Anything).Return(&model.Product{SellerID: seller.UserID, IsActive: true}, nil)

	product, err := f.svc.Create(context.Background(), seller, in)
	require.NoError(t, err)
	assert.Equal(t, model.ProductPendingApproval, product.State())
	f.products.AssertExpectations(t)
}

func TestProductService_CreateUnknownCategory(t *testing.T) {
	in := validProduct()
	f := newProductFixture(config.Policy{})
	f.categories.On("FindByID", mock.Anything, in.CategoryID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Create(context.Background(), auth.Identity{UserID: uuid.New()}, in)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_GetVisibility(t *testing.T) {
	sellerID := uuid.New()
	pending := pendingProduct(sellerID)

	tests := []struct {
		name    string
		actor   auth.Identity
		wantErr bool
	}{
		{name: "seller sees own pending product", actor: auth.Identity{UserID: sellerID, Role: model.RoleUser}},
		{name: "admin sees pending product", actor: auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}},
		{name: "stranger gets not found", actor: auth.Identity{UserID: uuid.New(), Role: model.RoleUser}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture(config.Policy{})
			f.products.On("FindByID", mock.Anything, pending.ID).Return(pending, nil)

			product, err := f.svc.Get(context.Background(), tt.actor, pending.ID)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrNotFound))
				assert.Nil(t, product)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, pending.ID, product.ID)
			}
		})
	}
}

func TestProductService_Approve(t *testing.T) {
	admin := auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	sellerID := uuid.New()

	tests := []struct {
		name          string
		strict        bool
		product       func() *model.Product
		actor         auth.Identity
		expectedError error
	}{
		{
			name:    "pending product is approved",
			strict:  true,
			product: func() *model.Product { return pendingProduct(sellerID) },
			actor:   admin,
		},
		{
			name:   "double approve conflicts when strict",
			strict: true,
			product: func() *model.Product {
				p := pendingProduct(sellerID)
				p.IsApproved = true
				return p
			},
			actor:         admin,
			expectedError: apperrors.ErrConflict,
		},
		{
			name:   "double approve accepted when lenient",
			strict: false,
			product: func() *model.Product {
				p := pendingProduct(sellerID)
				p.IsApproved = true
				return p
			},
			actor: admin,
		},
		{
			name:          "non admin is forbidden",
			strict:        true,
			product:       func() *model.Product { return pendingProduct(sellerID) },
			actor:         auth.Identity{UserID: sellerID, Role: model.RoleUser},
			expectedError: apperrors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture(config.Policy{StrictTransitions: tt.strict})
			p := tt.product()
			f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil).Maybe()
			f.products.On("Update", mock.Anything, p).Return(nil).Maybe()
			f.notifier.On("Notify", mock.Anything, sellerID, model.NotificationSystem, mock.Anything, &p.ID).Maybe()

			approved, err := f.svc.Approve(context.Background(), tt.actor, p.ID)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
				assert.Nil(t, approved)
				f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, approved.IsApproved)
			assert.Equal(t, admin.UserID, *approved.ApprovedByID)
			assert.NotNil(t, approved.ApprovedAt)
			f.notifier.AssertNumberOfCalls(t, "Notify", 1)
		})
	}
}

func TestProductService_Reject(t *testing.T) {
	admin := auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	sellerID := uuid.New()
	p := pendingProduct(sellerID)

	f := newProductFixture(config.Policy{StrictTransitions: true})
	f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.products.On("Update", mock.Anything, p).Return(nil)
	f.notifier.On("Notify", mock.Anything, sellerID, model.NotificationSystem,
		"Tu producto 'Bicicleta' ha sido rechazado: fotos falsas", &p.ID).Return()

	rejected, err := f.svc.Reject(context.Background(), admin, p.ID, " fotos falsas ")
	require.NoError(t, err)
	assert.False(t, rejected.IsApproved)
	assert.False(t, rejected.IsActive)
	assert.Equal(t, "fotos falsas", rejected.RejectionReason)
	assert.Equal(t, model.ProductRejected, rejected.State())
	f.notifier.AssertExpectations(t)

	_, err = f.svc.Reject(context.Background(), admin, p.ID, "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestProductService_Update(t *testing.T) {
	sellerID := uuid.New()
	title := "Bicicleta de montaña"
	blank := ""
	sold := true

	tests := []struct {
		name          string
		policy        config.Policy
		actor         auth.Identity
		patch         ProductPatch
		wantApproved  bool
		wantTitle     string
		wantSold      bool
		expectedError error
	}{
		{
			name:         "content edit keeps approval by default",
			actor:        auth.Identity{UserID: sellerID},
			patch:        ProductPatch{Title: &title},
			wantApproved: true,
			wantTitle:    title,
		},
		{
			name:         "content edit returns to review when configured",
			policy:       config.Policy{ReviewOnEdit: true},
			actor:        auth.Identity{UserID: sellerID},
			patch:        ProductPatch{Title: &title},
			wantApproved: false,
			wantTitle:    title,
		},
		{
			name:         "marking sold is not a content edit",
			policy:       config.Policy{ReviewOnEdit: true},
			actor:        auth.Identity{UserID: sellerID},
			patch:        ProductPatch{IsSold: &sold},
			wantApproved: true,
			wantTitle:    "Bicicleta",
			wantSold:     true,
		},
		{
			name:         "blank fields are ignored",
			actor:        auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin},
			patch:        ProductPatch{Title: &blank},
			wantApproved: true,
			wantTitle:    "Bicicleta",
		},
		{
			name:          "stranger cannot edit",
			actor:         auth.Identity{UserID: uuid.New(), Role: model.RoleUser},
			patch:         ProductPatch{Title: &title},
			expectedError: apperrors.ErrNotOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture(tt.policy)
			p := pendingProduct(sellerID)
			p.IsApproved = true
			f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
			f.products.On("Update", mock.Anything, p).Return(nil).Maybe()

			updated, err := f.svc.Update(context.Background(), tt.actor, p.ID, tt.patch)
			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantApproved, updated.IsApproved)
			assert.Equal(t, tt.wantTitle, updated.Title)
			assert.Equal(t, tt.wantSold, updated.IsSold)
		})
	}
}

func TestProductService_Delete(t *testing.T) {
	sellerID := uuid.New()
	p := pendingProduct(sellerID)

	f := newProductFixture(config.Policy{})
	f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.products.On("Update", mock.Anything, p).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), auth.Identity{UserID: sellerID}, p.ID))
	assert.False(t, p.IsActive)
}

func TestProductService_AddImages(t *testing.T) {
	sellerID := uuid.New()
	seller := auth.Identity{UserID: sellerID}

	t.Run("first upload makes the first image main", func(t *testing.T) {
		f := newProductFixture(config.Policy{})
		p := pendingProduct(sellerID)
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.products.On("CountImages", mock.Anything, p.ID).Return(int64(0), nil)
		f.store.On("Save", mock.Anything, mock.MatchedBy(func(obj storage.Object) bool {
			return obj.ContentType == "image/png"
		})).Return("/uploads/products/a.png", nil).Twice()
		f.products.On("AddImages", mock.Anything, p.ID, mock.MatchedBy(func(rows []model.ProductImage) bool {
			return len(rows) == 2 && rows[0].IsMain && !rows[1].IsMain
		})).Return(nil)

		_, err := f.svc.AddImages(context.Background(), seller, p.ID, [][]byte{pngImage, pngImage}, -1)
		require.NoError(t, err)
		f.products.AssertExpectations(t)
		f.store.AssertExpectations(t)
	})

	t.Run("limit of five images", func(t *testing.T) {
		f := newProductFixture(config.Policy{})
		p := pendingProduct(sellerID)
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.products.On("CountImages", mock.Anything, p.ID).Return(int64(4), nil)

		_, err := f.svc.AddImages(context.Background(), seller, p.ID, [][]byte{pngImage, pngImage}, 0)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("non image is rejected before storing", func(t *testing.T) {
		f := newProductFixture(config.Policy{})
		p := pendingProduct(sellerID)
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.products.On("CountImages", mock.Anything, p.ID).Return(int64(0), nil)

		_, err := f.svc.AddImages(context.Background(), seller, p.ID, [][]byte{[]byte("hello world, not an image")}, 0)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failed insert removes stored files", func(t *testing.T) {
		f := newProductFixture(config.Policy{})
		p := pendingProduct(sellerID)
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.products.On("CountImages", mock.Anything, p.ID).Return(int64(1), nil)
		f.store.On("Save", mock.Anything, mock.Anything).Return("/uploads/products/b.png", nil)
		f.products.On("AddImages", mock.Anything, p.ID, mock.Anything).Return(errors.New("disk full"))
		f.store.On("Delete", mock.Anything, "/uploads/products/b.png").Return(nil)

		_, err := f.svc.AddImages(context.Background(), seller, p.ID, [][]byte{pngImage}, -1)
		assert.Error(t, err)
		f.store.AssertExpectations(t)
	})
}
