package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription tier identifiers.
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierClassic = "classic"
	TierPremium = "premium"
)

// Subscription status values.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
	SubscriptionPending   = "pending"
)

// Payment method identifiers.
const (
	PaymentMethodBTC        = "btc"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodPayPal     = "paypal"
)

// Subscription represents a paid tier purchase for a user.
type Subscription struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Subscribing user ID.
	User   *User  `gorm:"foreignKey:UserID"` // Subscribing user.

	Tier   string `gorm:"type:varchar(50);not null"`                  // Subscription tier.
	Status string `gorm:"type:varchar(50);not null;default:'active'"` // Lifecycle status.

	Price    float64 `gorm:"type:decimal(10,2);not null;default:0"`   // Monthly price paid.
	Currency string  `gorm:"type:varchar(10);not null;default:'USD'"` // Price currency.

	PaymentMethod    string `gorm:"type:varchar(50);not null;default:'btc'"` // How the purchase was paid.
	PaymentReference string `gorm:"type:varchar(255)"`                       // Gateway payment reference.
	BTCTransactionID string `gorm:"type:varchar(255)"`                       // Bitcoin transaction ID when paid in BTC.

	Features datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Tier feature list.

	StartDate time.Time  `gorm:"not null"` // Billing period start.
	EndDate   *time.Time                   // Billing period end, nil for open-ended.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// IsActive reports whether the subscription is active and unexpired at t.
func (s *Subscription) IsActive(t time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	return s.EndDate == nil || s.EndDate.After(t)
}
