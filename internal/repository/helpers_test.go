package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"uttianguis/internal/db"
	"uttianguis/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func seedUser(t *testing.T, gormDB *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Alumno", Email: email, PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, NewUserRepository(gormDB).Create(context.Background(), u))
	return u
}

func seedCategory(t *testing.T, gormDB *gorm.DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	_, err := NewCategoryRepository(gormDB).EnsureByName(context.Background(), c)
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, gormDB *gorm.DB, seller *model.User, cat *model.Category, title string, mutate func(p *model.Product)) *model.Product {
	t.Helper()
	p := &model.Product{
		Title:           title,
		Description:     "Producto en buen estado, se entrega en la cafetería del edificio principal.",
		Price:           decimal.RequireFromString("150.00"),
		CategoryID:      cat.ID,
		Condition:       model.ConditionGood,
		ContactWhatsapp: "6561234567",
		SellerID:        seller.ID,
		IsActive:        true,
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, NewProductRepository(gormDB).Create(context.Background(), p))
	return p
}
