package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a complaint against exactly one user or one product.
type Report struct {
	ID                uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	ReporterID        uuid.UUID    `json:"reporterId" gorm:"type:char(36);not null;index"`
	ReportedUserID    *uuid.UUID   `json:"reportedUserId,omitempty" gorm:"type:char(36);index"`
	ReportedProductID *uuid.UUID   `json:"reportedProductId,omitempty" gorm:"type:char(36);index"`
	Subject           string       `json:"subject" gorm:"size:100;not null;index"`
	Description       string       `json:"description" gorm:"type:text"`
	ScreenshotURL     string       `json:"screenshotUrl" gorm:"size:500;not null"`
	Status            ReportStatus `json:"status" gorm:"size:20;not null;index"`
	AdminResponse     string       `json:"adminResponse,omitempty" gorm:"size:1000"`
	ResolvedAt        *time.Time   `json:"resolvedAt,omitempty"`
	ResolvedByID      *uuid.UUID   `json:"resolvedById,omitempty" gorm:"type:char(36)"`
	CreatedAt         time.Time    `json:"createdAt" gorm:"index"`

	Reporter        *User    `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	ReportedUser    *User    `json:"reportedUser,omitempty" gorm:"foreignKey:ReportedUserID"`
	ReportedProduct *Product `json:"reportedProduct,omitempty" gorm:"foreignKey:ReportedProductID"`
}

// BeforeCreate sets UUID and the initial status.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportPending
	}
	return nil
}
