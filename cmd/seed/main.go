package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"uttianguis/internal/config"
	"uttianguis/internal/db"
	"uttianguis/internal/logging"
	"uttianguis/internal/model"
	"uttianguis/internal/repository"
	"uttianguis/internal/service"
)

// SeedCategoryData is one entry of an extra category catalog.
type SeedCategoryData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func main() {
	cfg := config.Load()
	logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	log.Info("starting seed")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	ctx := context.Background()
	seeder := service.NewSeeder(repository.NewCategoryRepository(gormDB), repository.NewUserRepository(gormDB), nil)

	if err := seeder.Seed(ctx, service.AdminAccount{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		log.WithError(err).Fatal("seed failed")
	}

	// SEED_CATEGORIES_SOURCE points at an extra catalog, as a file path or an http(s) URL.
	if source := os.Getenv("SEED_CATEGORIES_SOURCE"); source != "" {
		extra, err := loadCategories(source)
		if err != nil {
			log.WithError(err).WithField("source", source).Fatal("failed to load categories")
		}
		created, err := seeder.SeedCategories(ctx, extra)
		if err != nil {
			log.WithError(err).Fatal("failed to seed extra categories")
		}
		log.WithFields(log.Fields{"source": source, "read": len(extra), "created": created}).Info("extra categories seeded")
	}

	log.Info("seed completed")
}

// loadCategories reads a JSON array of categories from a file or URL.
func loadCategories(source string) ([]model.Category, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var items []SeedCategoryData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	categories := make([]model.Category, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			log.Warn("skipping category without a name")
			continue
		}
		categories = append(categories, model.Category{Name: name, Description: item.Description, Icon: item.Icon})
	}
	return categories, nil
}

func fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("categories source returned status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
