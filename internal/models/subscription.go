package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionPackage struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	DurationDays int             `json:"duration_days" gorm:"not null"`
	BoostSlots   int             `json:"boost_slots" gorm:"default:0"`
	IsPremium    bool            `json:"is_premium" gorm:"default:false"`
	IsActive     bool            `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type UserSubscription struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	UserID          uint                 `json:"user_id" gorm:"not null"`
	User            *User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PackageID       uint                 `json:"package_id" gorm:"not null"`
	Package         *SubscriptionPackage `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	StartDate       time.Time            `json:"start_date"`
	ExpiryDate      time.Time            `json:"expiry_date"`
	RemainingBoosts int                  `json:"remaining_boosts" gorm:"default:0"`
	TotalBoostsUsed int                  `json:"total_boosts_used" gorm:"default:0"`
	IsActive        bool                 `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type ProductBoost struct {
	ID                 uint              `json:"id" gorm:"primaryKey"`
	ProductID          uint              `json:"product_id" gorm:"not null"`
	Product            *Product          `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	UserID             uint              `json:"user_id" gorm:"not null"`
	UserSubscriptionID *uint             `json:"user_subscription_id"`
	UserSubscription   *UserSubscription `json:"user_subscription,omitempty" gorm:"foreignKey:UserSubscriptionID"`
	BoostDate          time.Time         `json:"boost_date"`
	ExpiryDate         time.Time         `json:"expiry_date"`
	IsActive           bool              `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type PurchaseSubscriptionRequest struct {
	PackageID uint `json:"package_id" validate:"required"`
}

type BoostProductRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

type UpgradeToPremiumRequest struct {
	Months int `json:"months" validate:"required,min=1,max=12"`
}

type CreatePackageRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	DurationDays int             `json:"duration_days" validate:"required,min=1"`
	BoostSlots   int             `json:"boost_slots" validate:"min=0"`
	IsPremium    bool            `json:"is_premium"`
}

type UpdatePackageRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	DurationDays *int             `json:"duration_days" validate:"omitempty,min=1"`
	BoostSlots   *int             `json:"boost_slots" validate:"omitempty,min=0"`
	IsPremium    *bool            `json:"is_premium"`
	IsActive     *bool            `json:"is_active"`
}

type ActiveSubscriptionInfo struct {
	PackageName     string    `json:"package_name"`
	ExpiryDate      time.Time `json:"expiry_date"`
	RemainingBoosts int       `json:"remaining_boosts"`
	TotalBoostsUsed int       `json:"total_boosts_used"`
}

type SubscriptionDetails struct {
	UserID             uint                     `json:"user_id"`
	Name               string                   `json:"name"`
	SubscriptionType   SubscriptionTier         `json:"subscription_type"`
	SubscriptionExpiry *time.Time               `json:"subscription_expiry"`
	IsActive           bool                     `json:"is_active"`
	Balance            decimal.Decimal          `json:"balance"`
	Subscriptions      []ActiveSubscriptionInfo `json:"subscriptions"`
}
