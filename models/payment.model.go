package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentStatus defines the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// CoinPackage is a purchasable bundle of coins
type CoinPackage struct {
	gorm.Model
	Name       string `gorm:"size:100;not null" json:"name"`
	CoinAmount uint   `gorm:"not null" json:"coinAmount"`
	Price      uint   `gorm:"not null" json:"price"` // VND
	IsActive   bool   `gorm:"default:true" json:"isActive"`
}

// Payment tracks one order against the payment gateway. Coins are credited
// exactly once, on the first transition into PAID.
type Payment struct {
	gorm.Model
	UserID           uint           `gorm:"index;not null" json:"userId"`
	PackageID        uint           `gorm:"not null" json:"packageId"`
	OrderCode        int64          `gorm:"uniqueIndex;not null" json:"orderCode"`
	Amount           uint           `gorm:"not null" json:"amount"`
	Status           PaymentStatus  `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	TransactionCode  string         `gorm:"size:100" json:"transactionCode"`
	PaymentLinkID    string         `gorm:"size:100" json:"paymentLinkId"`
	CheckoutURL      string         `gorm:"size:500" json:"checkoutUrl"`
	PaidAt           *time.Time     `json:"paidAt"`
	ProviderResponse datatypes.JSON `json:"-"`

	User    User        `gorm:"foreignKey:UserID" json:"-"`
	Package CoinPackage `gorm:"foreignKey:PackageID" json:"-"`
}
