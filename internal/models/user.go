package models

import "time"

// User roles recognized by the automation engine.
const (
	// RoleAdmin grants full administrative access.
	RoleAdmin = "ADMIN"
	// RoleManager supervises employees and receives escalations.
	RoleManager = "MANAGER"
	// RoleEmployee handles assigned leads and clients.
	RoleEmployee = "EMPLOYEE"
)

// User represents a CRM user account.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name  string `gorm:"type:text;not null"`             // Display name.
	Email string `gorm:"type:text;not null;uniqueIndex"` // Unique email address.
	Role  string `gorm:"type:varchar(32);not null;index"` // ADMIN, MANAGER or EMPLOYEE.

	Active bool `gorm:"not null;default:true"` // Whether the account is active.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
