package models

import "time"

// FollowUp represents a scheduled follow-up task on a lead or client.
type FollowUp struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title         string    `gorm:"type:text;not null"`       // Task title.
	ScheduledDate time.Time `gorm:"not null;index"`           // Due date.
	Notes         string    `gorm:"type:text"`                // Free-form notes.
	Completed     bool      `gorm:"not null;default:false;index"` // Completion flag.

	AssignedUserID uint64 `gorm:"not null;index"`            // Owning user ID.
	AssignedUser   *User  `gorm:"foreignKey:AssignedUserID"` // Owning user relation.

	LeadID   *uint64 `gorm:"index"` // Linked lead, if any.
	ClientID *uint64 `gorm:"index"` // Linked client, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
