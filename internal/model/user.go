package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles carried by users and snapshotted onto API keys.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// DefaultProfileImage is shown until a user uploads a picture.
const DefaultProfileImage = "/images/default-profile.png"

// User is a marketplace account. IsActive is the suspend toggle; suspension
// never deletes the row.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	PhoneNumber  string    `json:"phoneNumber" gorm:"size:20"`
	Bio          string    `json:"bio" gorm:"size:500"`
	ProfileImage string    `json:"profileImage" gorm:"size:500"`
	Role         string    `json:"role" gorm:"size:20;not null;index"`
	IsActive     bool      `json:"isActive" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the account holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileImageURL returns the uploaded picture or the default placeholder.
func (u *User) ProfileImageURL() string {
	if u.ProfileImage == "" {
		return DefaultProfileImage
	}
	return u.ProfileImage
}
