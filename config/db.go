package config

import (
	"fmt"

	"github.com/dmarins/bingo-live/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase connects to Postgres and runs migrations.
func SetupDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Round{},
		&models.PlayerCardSet{},
		&models.RoundHistory{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
