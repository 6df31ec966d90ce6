package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountPending  AccountStatus = "pending"
)

type SubscriptionTier string

const (
	TierStandard SubscriptionTier = "standard"
	TierPremium  SubscriptionTier = "premium"
	TierPro      SubscriptionTier = "pro"
)

type User struct {
	ID                 uint             `json:"id" gorm:"primaryKey"`
	Name               string           `json:"name" gorm:"not null"`
	PhoneNumber        string           `json:"phone_number" gorm:"unique;not null"`
	Email              string           `json:"email" gorm:"not null"`
	Password           string           `json:"-" gorm:"not null"`
	Role               Role             `json:"role" gorm:"type:varchar(16);default:'user'"`
	Status             AccountStatus    `json:"status" gorm:"type:varchar(16);default:'pending'"`
	AvatarURL          string           `json:"avatar_url"`
	Balance            decimal.Decimal  `json:"balance" gorm:"type:decimal(10,2);default:0"`
	SubscriptionType   SubscriptionTier `json:"subscription_type" gorm:"type:varchar(16);default:'standard'"`
	SubscriptionExpiry *time.Time       `json:"subscription_expiry"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// HasPremiumTier reports whether the account currently sits on a paid tier.
func (u *User) HasPremiumTier() bool {
	return u.SubscriptionType == TierPremium || u.SubscriptionType == TierPro
}

// PublicUser is a User stripped of credentials and billing state, safe to
// embed in listings and chat payloads.
type PublicUser struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=7"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"current_password"`
}

type UpdateUserStatusRoleRequest struct {
	Status *AccountStatus `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Role   *Role          `json:"role" validate:"omitempty,oneof=user moderator admin"`
}
