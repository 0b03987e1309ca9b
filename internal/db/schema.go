package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Items keep their public millisecond-timestamp id as a TEXT primary key;
// the implicit rowid preserves insertion order for unfiltered listings.
// Badge records are one row per contact, with the earned badge list stored
// as a JSON array so insertion order survives round-trips.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id                TEXT PRIMARY KEY,
    title             TEXT NOT NULL,
    description       TEXT NOT NULL,
    category          TEXT NOT NULL,
    location          TEXT NOT NULL,
    date              TEXT NOT NULL,
    status            TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'claimed', 'pending')),
    type              TEXT NOT NULL CHECK (type IN ('lost', 'found')),
    image             TEXT NOT NULL DEFAULT '',
    image_fingerprint TEXT NOT NULL DEFAULT '',
    contact_name      TEXT NOT NULL,
    contact_info      TEXT NOT NULL,
    created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_fingerprint
    ON items(image_fingerprint) WHERE image_fingerprint != '';

CREATE TABLE IF NOT EXISTS badges (
    contact_info   TEXT PRIMARY KEY,
    reported_count INTEGER NOT NULL DEFAULT 0,
    claimed_count  INTEGER NOT NULL DEFAULT 0,
    match_count    INTEGER NOT NULL DEFAULT 0,
    badges         TEXT NOT NULL DEFAULT '[]'
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
