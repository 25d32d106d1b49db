package models

import "time"

// Revenue status values.
const (
	RevenueStatusPending = "PENDING"
	RevenueStatusOverdue = "OVERDUE"
	RevenueStatusPaid    = "PAID"
)

// Revenue represents an expected revenue entry for a client engagement.
type Revenue struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Amount float64 `gorm:"type:decimal(20,2);not null"` // Expected amount.
	Status string  `gorm:"type:varchar(32);not null;default:'PENDING';index"` // Payment status.

	DueDate *time.Time `gorm:"index"` // Expected payment date.

	ClientID *uint64 `gorm:"index"` // Related client.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Payment status values.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// Payment represents a recorded payment against a client invoice.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Amount float64 `gorm:"type:decimal(20,2);not null"` // Paid amount.
	Status string  `gorm:"type:varchar(32);not null;default:'PENDING';index"` // Payment status.

	DueDate *time.Time `gorm:"index"` // Invoice due date.
	PaidAt  *time.Time // Settlement timestamp.

	ClientID *uint64 `gorm:"index"` // Related client.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
