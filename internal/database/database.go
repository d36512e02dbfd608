// Package database stores pages in PostgreSQL.
package database

import (
	"database/sql"
	"fmt"

	infracontext "github.com/jonesrussell/pagestats/infrastructure/context"
	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/internal/config"
)

const driverName = "postgres"

// New opens a pool, applies the pool limits and pings once.
func New(cfg *config.DatabaseConfig, log infralogger.Logger) (*sql.DB, error) {
	db, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := infracontext.WithPingTimeout()
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		infralogger.String("host", cfg.Host),
		infralogger.Int("port", cfg.Port),
		infralogger.String("dbname", cfg.Database),
	)

	return db, nil
}
