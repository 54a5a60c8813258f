package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/francoluca35/comandas-multiples-sub008/internal/config"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/entity"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Order lifecycle
		&entity.Order{},
		&entity.OrderItem{},
		&entity.KitchenTicket{},

		// Money
		&entity.LedgerEntry{},
		&entity.LedgerCheckpoint{},
		&entity.SalesCounter{},

		// Fan-out
		&entity.NotificationEvent{},
		&entity.NotificationAck{},

		// Staff
		&entity.Employee{},
		&entity.EmployeeSession{},

		// System
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedCheckpoints makes sure both ledgers have a checkpoint row so derived
// balances always have an anchor, starting at zero.
func SeedCheckpoints(db *gorm.DB) error {
	for _, ledger := range []enum.Ledger{enum.LedgerCash, enum.LedgerVirtual} {
		var existing entity.LedgerCheckpoint
		if err := db.Where("ledger = ?", ledger).First(&existing).Error; err != nil {
			checkpoint := entity.LedgerCheckpoint{
				Ledger:     ledger,
				BaseAmount: 0,
				ResetAt:    time.Now(),
				ResetBy:    "bootstrap",
			}
			if err := db.Create(&checkpoint).Error; err != nil {
				return fmt.Errorf("failed to seed %s checkpoint: %w", ledger, err)
			}
			log.Printf("Seeded %s ledger checkpoint", ledger)
		}
	}
	return nil
}
