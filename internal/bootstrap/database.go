package bootstrap

import (
	"database/sql"
	"fmt"

	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/internal/config"
	"github.com/jonesrussell/pagestats/internal/database"
)

// SetupDatabase creates a database connection from config.
func SetupDatabase(cfg *config.Config, log infralogger.Logger) (*sql.DB, error) {
	db, connErr := database.New(&cfg.Database, log)
	if connErr != nil {
		return nil, fmt.Errorf("database connection: %w", connErr)
	}
	return db, nil
}
