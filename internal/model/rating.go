package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's score of another. A rater holds at most one rating per rated user.
type Rating struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	RaterID     uuid.UUID `json:"raterId" gorm:"type:char(36);not null;uniqueIndex:idx_rating_pair"`
	RatedUserID uuid.UUID `json:"ratedUserId" gorm:"type:char(36);not null;uniqueIndex:idx_rating_pair;index"`
	Value       int       `json:"value" gorm:"not null"`
	Comment     string    `json:"comment" gorm:"size:500"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Rater *User `json:"rater,omitempty" gorm:"foreignKey:RaterID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
