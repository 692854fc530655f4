package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationReportUpdate  = "report_update"
	NotificationSystem        = "system"
	NotificationProductUpdate = "product_update"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:char(36);not null;index"`
	Type      string     `json:"type" gorm:"size:30;not null"`
	Content   string     `json:"content" gorm:"size:1000;not null"`
	RelatedID *uuid.UUID `json:"relatedId,omitempty" gorm:"type:char(36)"`
	IsRead    bool       `json:"isRead" gorm:"not null;index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
