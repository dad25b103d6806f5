package storage

import "fmt"

// Dialect selects placeholder style and DDL flavour.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Timestamps are stored as unix seconds so both dialects share one schema.
func schemaStatements(d Dialect) []string {
	id := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if d == DialectPostgres {
		id = "id BIGSERIAL PRIMARY KEY"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS papers (
	%s,
	paper_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	title_localized TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	submitted TEXT NOT NULL DEFAULT '',
	impact_score INTEGER NOT NULL DEFAULT 5,
	core_principle TEXT NOT NULL DEFAULT '',
	bottom_logic TEXT NOT NULL DEFAULT '',
	product_imagination TEXT NOT NULL DEFAULT '',
	published_at BIGINT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`, id),
		`CREATE INDEX IF NOT EXISTS papers_published_at_idx ON papers (published_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS news_items (
	%s,
	news_id TEXT NOT NULL UNIQUE,
	headline TEXT NOT NULL,
	headline_localized TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	display_time TEXT NOT NULL DEFAULT '',
	urgency TEXT NOT NULL DEFAULT 'medium',
	summary TEXT NOT NULL DEFAULT '',
	business_insight TEXT NOT NULL DEFAULT '',
	case_study TEXT NOT NULL DEFAULT '',
	published_at BIGINT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`, id),
		`CREATE INDEX IF NOT EXISTS news_items_published_at_idx ON news_items (published_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
	%s,
	product_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	tagline TEXT NOT NULL DEFAULT '',
	tag TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	upvotes INTEGER,
	verdict TEXT NOT NULL DEFAULT 'watch',
	pain_point_analysis TEXT NOT NULL DEFAULT '',
	business_model TEXT NOT NULL DEFAULT '',
	published_at BIGINT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`, id),
		`CREATE INDEX IF NOT EXISTS products_published_at_idx ON products (published_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS insights (
	%s,
	headline TEXT NOT NULL,
	subheadline TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	urgency TEXT NOT NULL DEFAULT '',
	published_at BIGINT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`, id),
		`CREATE INDEX IF NOT EXISTS insights_published_at_idx ON insights (published_at)`,
	}
}
