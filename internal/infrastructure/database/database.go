package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/brewpos-api/internal/config"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the database selected by cfg.Driver: postgres for shared
// deployments, sqlite for a single till running on its own.
func New(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case "postgres":
		return NewPostgresDB(cfg, gormCfg)
	case "sqlite", "":
		return NewSQLiteDB(cfg.SQLitePath, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	zap.L().Info("connected to database", zap.String("driver", "postgres"), zap.String("host", cfg.Host))
	return db, nil
}

// NewSQLiteDB opens (or creates) a SQLite database file. Pass
// "file::memory:" style DSNs for throwaway databases.
func NewSQLiteDB(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	zap.L().Info("connected to database", zap.String("driver", "sqlite"), zap.String("path", path))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Store{},
		&entity.Staff{},

		// Catalog
		&entity.Category{},
		&entity.CatalogItem{},

		// Ledger
		&entity.Sale{},
		&entity.SaleLine{},

		// Time tracking and personnel
		&entity.PresenceEntry{},
		&entity.StaffPayment{},

		// Configuration and system
		&entity.POSConfiguration{},
		&entity.GlobalConfiguration{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("database migrations completed")
	return nil
}
