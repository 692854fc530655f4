package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey is a long-lived bearer credential minted at login. Name, Email and Role
// are copied from the user when the key is issued.
type APIKey struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Key         string     `json:"-" gorm:"column:api_key;size:64;uniqueIndex;not null"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:char(36);not null;index"`
	Name        string     `json:"name" gorm:"size:100"`
	Email       string     `json:"email" gorm:"size:100"`
	Role        string     `json:"role" gorm:"size:20;not null"`
	Description string     `json:"description" gorm:"size:200"`
	IsActive    bool       `json:"isActive" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// BeforeCreate sets UUID before creating the record.
func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the key has an expiry that lies before now.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}
