package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// DefaultMigrationsDir is where the catalog schema migrations live,
// relative to the working directory of the api binary.
const DefaultMigrationsDir = "migrations"

// RunMigrations brings the catalog schema up to date, applying any goose
// migrations not yet recorded. Safe to run on every startup.
func RunMigrations(db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		logger.Error("Catalog schema migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}

	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if after == before {
		logger.Info("Catalog schema up to date", zap.Int64("version", after))
	} else {
		logger.Info("Catalog schema migrated",
			zap.Int64("from", before),
			zap.Int64("to", after),
		)
	}
	return nil
}

// GetMigrationStatus prints the applied/pending state of every migration
func GetMigrationStatus(db *sql.DB, migrationsDir string) error {
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.Status(db, migrationsDir)
}
