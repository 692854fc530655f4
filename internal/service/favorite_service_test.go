package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
)

func TestFavoriteService_Add(t *testing.T) {
	actor := auth.Identity{UserID: uuid.New()}
	productID := uuid.New()

	tests := []struct {
		name          string
		product       *model.Product
		existing      bool
		expectCreate  bool
		expectedError error
	}{
		{
			name:         "approved product",
			product:      &model.Product{ID: productID, IsActive: true, IsApproved: true},
			expectCreate: true,
		},
		{
			name:     "already a favorite",
			product:  &model.Product{ID: productID, IsActive: true, IsApproved: true},
			existing: true,
		},
		{
			name:          "pending product",
			product:       &model.Product{ID: productID, IsActive: true},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name:          "removed product",
			product:       &model.Product{ID: productID, IsApproved: true},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			favorites := new(MockFavoriteRepository)
			products := new(MockProductRepository)
			products.On("FindByID", mock.Anything, productID).Return(tt.product, nil)
			if tt.existing {
				favorites.On("Find", mock.Anything, actor.UserID, productID).Return(&model.Favorite{}, nil)
			} else {
				favorites.On("Find", mock.Anything, actor.UserID, productID).Return(nil, gorm.ErrRecordNotFound).Maybe()
			}
			if tt.expectCreate {
				favorites.On("Create", mock.Anything, mock.MatchedBy(func(f *model.Favorite) bool {
					return f.UserID == actor.UserID && f.ProductID == productID
				})).Return(nil)
			}

			err := NewFavoriteService(favorites, products).Add(context.Background(), actor, productID)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			if !tt.expectCreate {
				favorites.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			favorites.AssertExpectations(t)
		})
	}
}

func TestFavoriteService_RemoveAndCheck(t *testing.T) {
	actor := auth.Identity{UserID: uuid.New()}
	productID := uuid.New()
	favorites := new(MockFavoriteRepository)
	favorites.On("Delete", mock.Anything, actor.UserID, productID).Return(true, nil).Once()
	favorites.On("Delete", mock.Anything, actor.UserID, productID).Return(false, nil).Once()
	favorites.On("Find", mock.Anything, actor.UserID, productID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewFavoriteService(favorites, new(MockProductRepository))
	assert.NoError(t, svc.Remove(context.Background(), actor, productID))
	assert.True(t, errors.Is(svc.Remove(context.Background(), actor, productID), apperrors.ErrNotFound))

	ok, err := svc.Check(context.Background(), actor, productID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoriteService_ListResolvesMainImage(t *testing.T) {
	actor := auth.Identity{UserID: uuid.New()}
	favorites := new(MockFavoriteRepository)
	favorites.On("ListListable", mock.Anything, actor.UserID).Return([]model.Favorite{
		{Product: &model.Product{Title: "Libro"}},
		{Product: nil},
	}, nil)

	products, err := NewFavoriteService(favorites, new(MockProductRepository)).List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, model.DefaultProductImage, products[0].MainImage)
}
