package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"maths-quest/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    NUMBER(19) PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL
)`

// MigrationSource opens the embedded migration files.
func MigrationSource() (source.Driver, error) {
	return iofs.New(migrationFiles, "migrations")
}

// RunMigrations applies every up migration from src that is not yet
// recorded in schema_migrations, in version order. Each file holds one
// statement; Oracle commits DDL implicitly, so there is no transaction.
func RunMigrations(ctx context.Context, db *sqlx.DB, src source.Driver) (int, error) {
	log := logger.Get()

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return 0, fmt.Errorf("could not create schema_migrations: %w", err)
	}

	var versions []int64
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("could not read applied migrations: %w", err)
	}
	applied := make(map[uint]bool, len(versions))
	for _, v := range versions {
		applied[uint(v)] = true
	}

	count := 0
	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if applied[version] {
			continue
		}
		body, identifier, readErr := readUp(src, version)
		if errors.Is(readErr, fs.ErrNotExist) {
			continue
		}
		if readErr != nil {
			return count, fmt.Errorf("could not read migration %d: %w", version, readErr)
		}

		if _, execErr := db.ExecContext(ctx, body); execErr != nil {
			return count, fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, execErr)
		}
		if _, execErr := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`,
			int64(version), time.Now()); execErr != nil {
			return count, fmt.Errorf("could not record migration %d: %w", version, execErr)
		}
		count++
		log.Info("Executed migration", zap.Uint("version", version), zap.String("name", identifier))
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return count, fmt.Errorf("could not list migrations: %w", err)
	}

	log.Info("Migrations completed successfully", zap.Int("applied", count))
	return count, nil
}

func readUp(src source.Driver, version uint) (string, string, error) {
	r, identifier, err := src.ReadUp(version)
	if err != nil {
		return "", "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	return string(b), identifier, nil
}
