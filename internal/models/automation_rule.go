package models

import (
	"time"

	"gorm.io/datatypes"
)

// AutomationRule defines a persisted automation policy: a set of conditions
// evaluated against records of one entity type, and the actions fired when
// all conditions hold. Condition and action lists are stored as JSON blobs
// and decoded by the rule store.
type AutomationRule struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null"` // Rule name.
	Description string `gorm:"type:text"`          // Operator-facing description.

	Entity  string `gorm:"type:varchar(32);not null;index"` // Target entity type.
	Enabled bool   `gorm:"not null;default:true;index"`     // Whether the rule is evaluated.

	Priority int `gorm:"not null;default:0;index"` // Higher runs first.

	Conditions datatypes.JSON `gorm:"not null"` // Serialized condition list.
	Actions    datatypes.JSON `gorm:"not null"` // Serialized action list.

	LastRunAt *time.Time `gorm:"index"`              // Last matching evaluation.
	RunCount  int64      `gorm:"not null;default:0"` // Number of matching evaluations.

	CreatedBy *uint64 `gorm:"index"` // Operator who created the rule.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
