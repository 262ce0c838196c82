package database

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/billing-api/internal/config"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/infrastructure/fixtures"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all persisted billing entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Directory entities
		&entity.Staff{},
		&entity.Customer{},
		&entity.CatalogItem{},

		// Billing entities
		&entity.CreditNote{},
		&entity.SavedCart{},
		&entity.Invoice{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData seeds an empty database with the demo store fixtures.
// Rows that already exist are left alone.
func SeedDefaultData(db *gorm.DB, storeID string, log *zap.Logger) error {
	now := time.Now()

	for _, seed := range fixtures.Staff() {
		var existing entity.Staff
		err := db.First(&existing, "id = ?", seed.Staff.ID).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.PIN), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash PIN for %s: %w", seed.Staff.ID, err)
		}
		staff := seed.Staff
		staff.PinHash = string(hash)
		if err := db.Create(&staff).Error; err != nil {
			log.Warn("failed to seed staff", zap.String("staff_id", staff.ID), zap.Error(err))
		}
	}

	seedMissing(db, log, "customers", fixtures.Customers())
	seedMissing(db, log, "catalog items", fixtures.Catalog())
	seedMissing(db, log, "credit notes", fixtures.CreditNotes(now))
	seedMissing(db, log, "saved carts", fixtures.SavedCarts(now, storeID))

	log.Info("default data seeding completed")
	return nil
}

// seedMissing fills a table from fixtures only when it is empty
func seedMissing[T any](db *gorm.DB, log *zap.Logger, name string, rows []T) {
	var model T
	var count int64
	if err := db.Model(&model).Count(&count).Error; err != nil {
		log.Warn("failed to count seed table", zap.String("table", name), zap.Error(err))
		return
	}
	if count > 0 {
		return
	}
	if err := db.Create(&rows).Error; err != nil {
		log.Warn("failed to seed table", zap.String("table", name), zap.Error(err))
		return
	}
	log.Info("seeded table", zap.String("table", name), zap.Int("rows", len(rows)))
}
