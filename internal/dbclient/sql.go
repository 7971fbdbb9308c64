package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"academy/internal/storage"
)

// sqlConnector serves topic blocks from any database/sql backend.
type sqlConnector struct {
	*storage.TopicBlockStore
	ping func(ctx context.Context) error
	db   *sql.DB // nil when borrowed
}

func openSQL(ctx context.Context, driver, dsn string, d storage.Dialect) (*sqlConnector, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if err := storage.Migrate(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", driver, err)
	}
	return &sqlConnector{TopicBlockStore: storage.NewTopicBlockStore(db, d), ping: db.PingContext, db: db}, nil
}

func (c *sqlConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.ping(ctx)
}

func (c *sqlConnector) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
