package models

import "time"

// Notification represents an in-app notification delivered to a user.
type Notification struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`         // Recipient user ID.
	User   *User  `gorm:"foreignKey:UserID"`      // Recipient relation.

	Type    string `gorm:"type:varchar(64);not null;index"` // Notification category.
	Channel string `gorm:"type:varchar(32);not null"`       // Delivery channel.
	Title   string `gorm:"type:text;not null"`              // Title line.
	Message string `gorm:"type:text"`                       // Body text.

	ReadAt *time.Time // When the user read it, if ever.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
}
