package main

import (
	"context"
	"log"
	"time"

	"maths-quest/internal/config"
	"maths-quest/internal/database"
	"maths-quest/internal/logger"

	"go.uber.org/zap"
)

const migrateTimeout = 5 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	src, err := database.MigrationSource()
	if err != nil {
		l.Fatal("Failed to open migration source", zap.Error(err))
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	applied, err := database.RunMigrations(ctx, db, src)
	if err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err), zap.Int("applied", applied))
	}
}
