package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"uttianguis/internal/model"
)

// APIKeyRepository stores issued API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *model.APIKey) error
	// FindActiveByKey returns the active key whose value equals key.
	FindActiveByKey(ctx context.Context, key string) (*model.APIKey, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository builds a GORM-backed repository.
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *model.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepository) FindActiveByKey(ctx context.Context, key string) (*model.APIKey, error) {
	var rec model.APIKey
	err := r.db.WithContext(ctx).
		Where("api_key = ? AND is_active = ?", key, true).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *apiKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.APIKey{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
