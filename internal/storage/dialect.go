package storage

import "fmt"

// Dialect captures the differences between the SQL backends that can hold
// topic blocks.
type Dialect struct {
	Name   string
	Schema []string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: questionMark,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS topic_blocks (
			id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'text',
			content TEXT NOT NULL DEFAULT '',
			metadata_json TEXT NOT NULL DEFAULT '{}',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topic_blocks_topic ON topic_blocks(topic_id, sort_order)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		)`,
	},
}

var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: dollar,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS topic_blocks (
			id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'text',
			content TEXT NOT NULL DEFAULT '',
			metadata_json TEXT NOT NULL DEFAULT '{}',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topic_blocks_topic ON topic_blocks(topic_id, sort_order)`,
	},
}

var MySQL = Dialect{
	Name:        "mysql",
	Placeholder: questionMark,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS topic_blocks (
			id VARCHAR(64) PRIMARY KEY,
			topic_id VARCHAR(191) NOT NULL,
			type VARCHAR(32) NOT NULL DEFAULT 'text',
			content LONGTEXT NOT NULL,
			metadata_json LONGTEXT NOT NULL,
			sort_order INT NOT NULL DEFAULT 0,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			INDEX idx_topic_blocks_topic (topic_id, sort_order)
		) DEFAULT CHARSET=utf8mb4`,
	},
}

// bind rewrites a query written with ? markers into the dialect's markers.
func (d Dialect) bind(query string) string {
	if d.Placeholder == nil {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, d.Placeholder(n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
