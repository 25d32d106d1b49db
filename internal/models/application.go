package models

import "time"

// Application stage values.
const (
	ApplicationStageSubmitted = "SUBMITTED"
	ApplicationStageInReview  = "IN_REVIEW"
	ApplicationStageInterview = "INTERVIEW"
	ApplicationStageOffer     = "OFFER"
	ApplicationStageClosed    = "CLOSED"
)

// Application represents a candidate application processed for a client.
type Application struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	CandidateName string `gorm:"type:text;not null"` // Candidate name.
	Position      string `gorm:"type:text"`          // Applied position.
	Stage         string `gorm:"type:varchar(32);not null;default:'SUBMITTED';index"` // Pipeline stage.

	ClientID *uint64 `gorm:"index"` // Client the application belongs to.

	AssignedUserID *uint64 `gorm:"index"`                     // Owning user ID.
	AssignedUser   *User   `gorm:"foreignKey:AssignedUserID"` // Owning user relation.

	SubmittedAt *time.Time `gorm:"index"` // Submission timestamp.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
