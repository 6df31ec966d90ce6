package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
	ProductExpired  ProductStatus = "expired"
	ProductHidden   ProductStatus = "hidden"
)

type ProductCondition string

const (
	ConditionNew  ProductCondition = "new"
	ConditionUsed ProductCondition = "used"
)

type Product struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	UserID          uint             `json:"user_id" gorm:"not null"`
	User            *User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CategoryID      uint             `json:"category_id" gorm:"not null"`
	Category        *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	BrandID         uint             `json:"brand_id" gorm:"not null"`
	Brand           *Brand           `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Title           string           `json:"title" gorm:"not null"`
	Description     string           `json:"description" gorm:"type:text"`
	Price           decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	Images          []string         `json:"images" gorm:"type:json;serializer:json"`
	Condition       ProductCondition `json:"condition" gorm:"type:varchar(8);not null"`
	Address         string           `json:"address"`
	UsageTime       string           `json:"usage_time"`
	Quantity        int              `json:"quantity" gorm:"default:1"`
	Status          ProductStatus    `json:"status" gorm:"type:varchar(16);default:'pending'"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	IsPremium       bool             `json:"is_premium" gorm:"default:false"`
	IsBoosted       bool             `json:"is_boosted" gorm:"default:false"`
	BoostExpiryDate *time.Time       `json:"boost_expiry_date"`
	ExpiryDate      time.Time        `json:"expiry_date"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type CreateProductRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Price       decimal.Decimal  `json:"price" validate:"required"`
	Images      []string         `json:"images" validate:"required,min=1"`
	Condition   ProductCondition `json:"condition" validate:"required,oneof=new used"`
	CategoryID  uint             `json:"category_id" validate:"required"`
	BrandID     uint             `json:"brand_id" validate:"required"`
	Address     string           `json:"address"`
	UsageTime   string           `json:"usage_time"`
	Quantity    int              `json:"quantity"`
	IsPremium   bool             `json:"is_premium"`
}

// UpdateProductRequest uses pointers so the service can tell "not sent"
// apart from a zero value. Title/description/price/images/condition changes
// put the listing back through moderation.
type UpdateProductRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Price       *decimal.Decimal  `json:"price"`
	Images      []string          `json:"images"`
	Condition   *ProductCondition `json:"condition" validate:"omitempty,oneof=new used"`
	Address     *string           `json:"address"`
	UsageTime   *string           `json:"usage_time"`
	Quantity    *int              `json:"quantity"`
}

type ModerateProductRequest struct {
	Status          ProductStatus `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string        `json:"rejection_reason"`
}

type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_favorite_user_product"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
}
