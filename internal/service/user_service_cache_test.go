package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uttianguis/internal/auth"
	"uttianguis/internal/cache"
	"uttianguis/internal/db"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

func TestUserService_ProfileFiguresStayFreshWithCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cacheClient := cache.NewFromRedis(rdb)

	gormDB, err := db.NewSQLite(fmt.Sprintf("file:profile_%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	users := repository.NewUserRepository(gormDB)
	products := repository.NewProductRepository(gormDB)
	ratings := repository.NewRatingRepository(gormDB)
	categories := repository.NewCategoryRepository(gormDB)
	validator := NewListingValidator("uttn.mx")

	seller := &model.User{Name: "Vendedor", Email: "vendedor@uttn.mx", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	buyer := &model.User{Name: "Comprador", Email: "comprador@uttn.mx", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, users.Create(ctx, seller))
	require.NoError(t, users.Create(ctx, buyer))

	svc := NewUserService(users, products, ratings, nil, cacheClient, validator)
	rater := NewRatingService(ratings, users)

	profile, err := svc.Profile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.RatingCount)
	assert.True(t, mr.Exists(profileCacheKey(seller.ID)))

	_, err = rater.Rate(ctx, auth.Identity{UserID: buyer.ID, Role: model.RoleUser}, RatingInput{RatedUserID: seller.ID, Value: 5})
	require.NoError(t, err)

	profile, err = svc.Profile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.RatingCount)
	assert.Equal(t, 5.0, profile.AverageRating)

	cat := &model.Category{Name: "Libros"}
	_, err = categories.EnsureByName(ctx, cat)
	require.NoError(t, err)
	require.NoError(t, products.Create(ctx, &model.Product{
		Title:           "Libro de física",
		Description:     "Edición reciente, sin subrayados.",
		Price:           decimal.RequireFromString("200.00"),
		CategoryID:      cat.ID,
		Condition:       model.ConditionGood,
		ContactWhatsapp: "6561234567",
		SellerID:        seller.ID,
		IsActive:        true,
		IsApproved:      true,
		IsSold:          true,
	}))

	profile, err = svc.Profile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Sales)
	assert.Equal(t, int64(0), profile.ActiveListings)

	// The user row itself is served from the cache until a profile write clears it.
	seller.Name = "Nombre directo"
	require.NoError(t, users.Update(ctx, seller))
	profile, err = svc.Profile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vendedor", profile.Name)

	name := "Vendedora"
	profile, err = svc.UpdateProfile(ctx, auth.Identity{UserID: seller.ID, Role: model.RoleUser}, ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Vendedora", profile.Name)
	assert.Equal(t, int64(1), profile.RatingCount)
}
