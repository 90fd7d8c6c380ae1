package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as decimal TEXT: SQLite integers are signed 64-bit and
// cannot hold the full uint64 range.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    address TEXT PRIMARY KEY,
    added_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL CHECK (kind IN ('deposit', 'withdrawal', 'member_added')),
    address TEXT NOT NULL,
    amount TEXT NOT NULL,
    time INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    address TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_address ON events(address);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
