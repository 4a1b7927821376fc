package db

import (
	"context"
	"database/sql"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/migrations"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/observability/metrics"
)

// gooseUp is replaced in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// RunMigrations applies the embedded schema migrations against databaseURL.
func RunMigrations(ctx context.Context, log *logger.Logger, databaseURL string) error {
	connConfig, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database url: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := gooseUp(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		log.Warnf("failed to read schema version: %v", err)
		return nil
	}

	metrics.DBMigrationsApplied.Set(float64(version))
	log.Infof("database schema at version %d", version)
	return nil
}
