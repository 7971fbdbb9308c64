package dbclient

import (
	"context"

	"academy/internal/storage"

	_ "modernc.org/sqlite"
)

// openSQLite opens a SQLite file other than the local database, in WAL mode
// with a busy timeout so an editor and a watcher can share it.
func openSQLite(ctx context.Context, path string) (*sqlConnector, error) {
	return openSQL(ctx, "sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", storage.SQLite)
}
