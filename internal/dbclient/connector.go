package dbclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"academy/internal/config"
	"academy/internal/domain"
	"academy/internal/log"
	"academy/internal/storage"
)

// Connector is a topic block backend: the store the autosave bridge writes to
// plus the lifecycle the CLI needs around it.
type Connector interface {
	domain.BlockStore

	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Close releases the connection. Closing a connector that borrowed the
	// local database leaves that database open.
	Close() error
}

// Open creates a Connector for the configured storage driver. A sqlite driver
// with no DSN uses the local database, which must be non-nil in that case.
func Open(ctx context.Context, cfg config.Storage, local *storage.DB) (Connector, error) {
	log.Get().Debug("opening block store", zap.String("driver", cfg.Driver))

	switch cfg.Driver {
	case "", "sqlite":
		if cfg.DSN == "" {
			if local == nil {
				return nil, fmt.Errorf("sqlite store: no local database")
			}
			return &sqlConnector{TopicBlockStore: local.Blocks(), ping: local.Conn().PingContext}, nil
		}
		return openSQLite(ctx, cfg.DSN)
	case "mysql":
		return openSQL(ctx, "mysql", buildMySQLDSN(cfg), storage.MySQL)
	case "postgres":
		return openSQL(ctx, "postgres", buildPostgresDSN(cfg), storage.Postgres)
	case "mongodb":
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("open %q: %w", cfg.Driver, domain.ErrUnsupportedDriver)
	}
}
