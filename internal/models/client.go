package models

import "time"

// Client status values.
const (
	ClientStatusActive   = "ACTIVE"
	ClientStatusInactive = "INACTIVE"
)

// Client represents a converted customer account.
type Client struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name    string `gorm:"type:text;not null"`     // Client name.
	Company string `gorm:"type:text"`              // Company name.
	Email   string `gorm:"type:text;index"`        // Contact email.
	Phone   string `gorm:"type:varchar(64)"`       // Contact phone.
	Status  string `gorm:"type:varchar(32);not null;default:'ACTIVE';index"` // Client status.

	AssignedUserID *uint64 `gorm:"index"`                     // Owning user ID.
	AssignedUser   *User   `gorm:"foreignKey:AssignedUserID"` // Owning user relation.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
