package dbclient

import (
	"fmt"

	"academy/internal/config"

	_ "github.com/lib/pq"
)

// buildPostgresDSN constructs a Postgres connection string from the storage settings.
func buildPostgresDSN(cfg config.Storage) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Database, sslMode,
	)
}
