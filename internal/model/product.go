package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product conditions accepted on listings.
const (
	ConditionNew        = "nuevo"
	ConditionLikeNew    = "como_nuevo"
	ConditionGood       = "buen_estado"
	ConditionUsed       = "con_uso"
	ConditionForRepairs = "para_reparar"
)

// Conditions lists every valid condition tag.
var Conditions = []string{ConditionNew, ConditionLikeNew, ConditionGood, ConditionUsed, ConditionForRepairs}

// DefaultProductImage is exposed for products that have no uploaded images.
const DefaultProductImage = "/images/default-product.jpg"

// MaxProductImages caps the number of images attached to a product.
const MaxProductImages = 5

// Product is a marketplace listing. Visibility is governed by three
// independent flags; see Listable.
type Product struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title           string          `json:"title" gorm:"size:100;not null"`
	Description     string          `json:"description" gorm:"type:text"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID      uuid.UUID       `json:"categoryId" gorm:"type:char(36);not null;index"`
	Condition       string          `json:"condition" gorm:"column:item_condition;size:20;not null"`
	MeetingPoint    string          `json:"meetingPoint" gorm:"size:200"`
	ContactWhatsapp string          `json:"contactWhatsapp" gorm:"size:10"`
	SellerID        uuid.UUID       `json:"sellerId" gorm:"type:char(36);not null;index"`

	IsActive   bool `json:"isActive" gorm:"not null;index"`
	IsApproved bool `json:"isApproved" gorm:"not null;index"`
	IsSold     bool `json:"isSold" gorm:"not null;index"`

	ApprovedByID    *uuid.UUID `json:"approvedById,omitempty" gorm:"type:char(36)"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedByID    *uuid.UUID `json:"rejectedById,omitempty" gorm:"type:char(36)"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty" gorm:"index"`
	RejectionReason string     `json:"rejectionReason,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	Category  *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Seller    *User          `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Images    []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	MainImage string         `json:"mainImage" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Listable reports whether buyers may see the product in public listings.
func (p *Product) Listable() bool {
	return p.IsActive && p.IsApproved && !p.IsSold
}

// ResolveMainImage fills MainImage from the loaded images.
func (p *Product) ResolveMainImage() {
	p.MainImage = DefaultProductImage
	for i := range p.Images {
		if p.Images[i].IsMain {
			p.MainImage = p.Images[i].URL
			return
		}
	}
	if len(p.Images) > 0 {
		p.MainImage = p.Images[0].URL
	}
}

// ProductImage is an uploaded picture of a product. At most one per product is main.
type ProductImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID uuid.UUID `json:"productId" gorm:"type:char(36);not null;index"`
	URL       string    `json:"url" gorm:"size:500;not null"`
	IsMain    bool      `json:"isMain" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
