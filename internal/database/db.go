package database

import (
	"warehouse-backend/internal/config"
	"warehouse-backend/internal/logger"
	"warehouse-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and runs schema migration.
func Init(cfg *config.Config) *gorm.DB {
	log := logger.Sugar()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.Product{},
		&models.InventoryTransaction{},
		&models.WeighingRecord{},
		&models.StockSummary{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	log.Info("database connected, migration complete")
	return db
}
