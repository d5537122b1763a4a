// Package repo implements the data persistence layer for flashcards, backed
// by GORM. This file contains database bootstrapping helpers for SQLite
// (pure Go driver) and PostgreSQL, pool tuning, tracing, and migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/hristiyandudev55/flipcards-learner/internal/config"
	"github.com/hristiyandudev55/flipcards-learner/internal/domain"
)

// gormConfig is shared by both dialects. TranslateError lets unique-constraint
// violations surface as gorm.ErrDuplicatedKey where the driver supports it.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Open dispatches to the configured driver and applies pool limits.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = OpenPostgres(cfg.DSN())
	case config.DriverSQLite, "":
		db, err = OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.PoolSize > 0 {
		tunePool(db, cfg.MaxOpenConns(), cfg.PoolSize)
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	tunePool(db, 15, 5)
	return db, nil
}

// OpenPostgres connects to PostgreSQL using a URL or key/value DSN.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

func tunePool(db *gorm.DB, maxOpen, maxIdle int) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxIdle)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
}

// Instrument installs the OpenTelemetry GORM plugin so every statement gets a
// child span of the request that issued it. Metrics stay with Prometheus.
func Instrument(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate creates the flipcards table with its unique and check constraints.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Card{})
}
