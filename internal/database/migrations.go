package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Request{},
		&models.AssignedAsset{},
		&models.Affiliation{},
		&models.Package{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	// One active affiliation per employee and HR. Partial indexes work on
	// both PostgreSQL and SQLite.
	required := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_affiliations_active_pair ON affiliations(employee_email, hr_email) WHERE status = 'active'",
	}
	for _, index := range required {
		if err := db.Exec(index).Error; err != nil {
			return err
		}
	}

	optional := []string{
		"CREATE INDEX IF NOT EXISTS idx_assets_hr_date ON assets(hr_email, date_added DESC)",
		"CREATE INDEX IF NOT EXISTS idx_requests_hr_date ON requests(hr_email, request_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_assigned_employee_hr_status ON assigned_assets(employee_email, hr_email, status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_hr_date ON payments(hr_email, payment_date DESC)",
	}
	for _, index := range optional {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
	return nil
}
