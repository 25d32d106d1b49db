package models

import "time"

// Activity represents a logged action or note attached to a lead or client.
type Activity struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Type        string `gorm:"type:varchar(64);not null;index"` // Activity category.
	Title       string `gorm:"type:text;not null"`              // Short summary.
	Description string `gorm:"type:text"`                       // Detailed description.

	AssignedUserID uint64 `gorm:"not null;index"`            // User the activity belongs to.
	AssignedUser   *User  `gorm:"foreignKey:AssignedUserID"` // User relation.

	LeadID   *uint64 `gorm:"index"` // Linked lead, if any.
	ClientID *uint64 `gorm:"index"` // Linked client, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
}
