package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Provider{},
		&models.Service{},
		&models.AvailabilityRule{},
		&models.BlockedInterval{},
		&models.Appointment{},
		&models.AdditionalServiceItem{},
		&models.ModificationRecord{},
	); err != nil {
		return nil, fmt.Errorf("db: migrate: %w", err)
	}

	// Two live appointments of a provider never share a start.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_start
		ON appointments (provider_id, start_time)
		WHERE status <> 'cancelled'
	`).Error; err != nil {
		return nil, fmt.Errorf("db: live start index: %w", err)
	}

	return db, nil
}
