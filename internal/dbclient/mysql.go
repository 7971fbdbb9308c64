package dbclient

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"academy/internal/config"
)

// buildMySQLDSN constructs a MySQL DSN from the storage settings.
// clientFoundRows makes an UPDATE that changes nothing still report its row.
// A supplied DSN keeps its settings but always gets parseTime and
// clientFoundRows, which scanning and updates depend on.
func buildMySQLDSN(cfg config.Storage) string {
	if cfg.DSN != "" {
		parsed, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			// sql.Open reports the malformed DSN
			return cfg.DSN
		}
		parsed.ParseTime = true
		parsed.ClientFoundRows = true
		return parsed.FormatDSN()
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database,
	)
	if cfg.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}
