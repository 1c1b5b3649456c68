package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Timestamps are TEXT in a fixed-width UTC layout (see TimeLayout) so that
// string ordering is chronological on every dialect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS offers (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL,
		merchant     TEXT NOT NULL,
		category     TEXT NOT NULL,
		coupon_code  TEXT,
		is_bug_deal  BOOLEAN NOT NULL DEFAULT FALSE,
		published_at TEXT NOT NULL,
		published_by TEXT NOT NULL,
		search_text  TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_published_at ON offers(published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_created_at ON offers(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_category ON offers(category)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_merchant ON offers(merchant)`,

	`CREATE TABLE IF NOT EXISTS links (
		offer_id   TEXT PRIMARY KEY REFERENCES offers(id) ON DELETE CASCADE,
		offer_url  TEXT,
		thread_url TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS images (
		offer_id TEXT NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url      TEXT NOT NULL,
		PRIMARY KEY (offer_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS validity_windows (
		offer_id  TEXT PRIMARY KEY REFERENCES offers(id) ON DELETE CASCADE,
		starts_at TEXT,
		ends_at   TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_validity_windows_ends_at ON validity_windows(ends_at)`,

	`CREATE TABLE IF NOT EXISTS community_tips (
		offer_id    TEXT NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		kind        TEXT NOT NULL CHECK (kind IN ('Improvement', 'Warning', 'Context')),
		description TEXT NOT NULL,
		author      TEXT NOT NULL,
		PRIMARY KEY (offer_id, position)
	)`,
}

// TimeLayout is the storage format for every timestamp column.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Migrate creates any missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
