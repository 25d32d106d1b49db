package db

import (
	"fmt"

	"github.com/nextinvision/recruitment-os-sub001/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all CRM and automation tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Client{},
		&models.FollowUp{},
		&models.Application{},
		&models.Revenue{},
		&models.Payment{},
		&models.Activity{},
		&models.Notification{},
		&models.AutomationRule{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}
