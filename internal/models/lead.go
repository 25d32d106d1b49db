package models

import "time"

// Lead status values.
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusConverted = "CONVERTED"
	LeadStatusLost      = "LOST"
)

// Lead represents a recruitment lead.
type Lead struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name   string `gorm:"type:text;not null"`      // Lead name.
	Email  string `gorm:"type:text;index"`         // Contact email.
	Phone  string `gorm:"type:varchar(64)"`        // Contact phone.
	Source string `gorm:"type:varchar(64);index"`  // Acquisition channel.
	Status string `gorm:"type:varchar(32);not null;default:'NEW';index"` // Lead status.

	AssignedUserID *uint64 `gorm:"index"`                        // Owning user ID.
	AssignedUser   *User   `gorm:"foreignKey:AssignedUserID"`    // Owning user relation.

	LastContactedAt *time.Time // Most recent outreach timestamp.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
