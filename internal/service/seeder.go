package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"uttianguis/internal/auth"
	"uttianguis/internal/cache"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
)

// AdminAccount describes the administrator created at first start.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// Seeder loads the category catalog and the administrator account. Running it
// again is harmless.
type Seeder struct {
	categories repository.CategoryRepository
	users      repository.UserRepository
	cache      *cache.Client
}

// NewSeeder builds a Seeder.
func NewSeeder(categories repository.CategoryRepository, users repository.UserRepository, cache *cache.Client) *Seeder {
	return &Seeder{categories: categories, users: users, cache: cache}
}

// Seed inserts missing categories and, when admin has a password, the admin account.
func (s *Seeder) Seed(ctx context.Context, admin AdminAccount) error {
	if _, err := s.SeedCategories(ctx, model.DefaultCategories); err != nil {
		return err
	}
	if admin.Password == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}
	return s.seedAdmin(ctx, admin)
}

// SeedCategories inserts the categories whose name is not taken yet and
// returns how many were created.
func (s *Seeder) SeedCategories(ctx context.Context, categories []model.Category) (int, error) {
	created := 0
	for _, c := range categories {
		category := c
		ok, err := s.categories.EnsureByName(ctx, &category)
		if err != nil {
			return created, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		_ = s.cache.Delete(ctx, categoriesCacheKey)
	}
	log.WithField("created", created).Info("categories seeded")
	return created, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, admin AdminAccount) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		log.WithField("email", email).Info("admin account already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	user := &model.User{
		Name:         admin.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.WithField("email", email).Info("admin account created")
	return nil
}
