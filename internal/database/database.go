package database

import (
	"fmt"

	"maths-quest/internal/logger"

	_ "github.com/godror/godror" // Oracle driver (OCI), registered as "godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go), registered as "oracle"
	"go.uber.org/zap"
)

// NewSQLXOracleDB connects with the given driver name ("oracle" or
// "godror") and pings the server.
func NewSQLXOracleDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = "oracle"
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Oracle database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Successfully connected to Oracle database", zap.String("driver", driver))
	return db, nil
}
