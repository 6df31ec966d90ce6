package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionNotPaid  TransactionStatus = "not_paid"
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionRejected TransactionStatus = "rejected"
)

// Transaction is a wallet deposit. It starts as not_paid, moves to pending
// once the checkout payment clears, and only credits the balance when an
// admin approves it.
type Transaction struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	UserID          uint              `json:"user_id" gorm:"not null"`
	User            *User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Amount          decimal.Decimal   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status          TransactionStatus `json:"status" gorm:"type:varchar(16);default:'not_paid'"`
	PaymentMethod   string            `json:"payment_method"`
	PaymentDetails  string            `json:"payment_details"`
	StripeSessionID string            `json:"stripe_session_id,omitempty" gorm:"index"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type CreateTransactionRequest struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod  string          `json:"payment_method" validate:"required"`
	PaymentDetails string          `json:"payment_details"`
	Notes          string          `json:"notes"`
}

type ReviewTransactionRequest struct {
	Status          TransactionStatus `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string            `json:"rejection_reason"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
