// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/gearguard-backend/internal/config"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/store/gormstore"
	"github.com/javajoker/gearguard-backend/internal/store/mongostore"
)

// Open connects the configured backend, prepares its schema and returns the
// persistence gateway. The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, mongostore.Options{
			URI:          cfg.MongoURI,
			Database:     cfg.MongoDatabase,
			Transactions: cfg.MongoTransactions,
		})
		if err != nil {
			return nil, err
		}
		logrus.WithField("database", cfg.MongoDatabase).Info("MongoDB connection established successfully")
		return s, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := Initialize(cfg)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db); err != nil {
			closeSQL(db)
			return nil, err
		}
		return gormstore.New(db), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Initialize opens a GORM connection for the postgres or sqlite driver.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY inside transactions.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", cfg.Driver).Info("Database connection established successfully")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func closeSQL(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	}
}

// Close releases the store, logging rather than returning failures.
func Close(ctx context.Context, s store.Store) {
	if err := s.Close(ctx); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
		return
	}
	logrus.Info("Database connection closed successfully")
}
