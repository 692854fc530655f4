package db

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.APIKey{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
		&model.Report{},
		&model.Notification{},
		&model.Favorite{},
		&model.Rating{},
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table in reverse dependency order.
func Reset(gormDB *gorm.DB) {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(models[i]); err != nil {
			log.WithError(err).Warn("drop table failed (may not exist)")
		}
	}
}
