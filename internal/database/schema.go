package database

import (
	"database/sql"
	"fmt"
)

// PostgresSchema is applied by migrations on the hosted store. Row-level
// security policies live with the migrations, not here.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS ledgers (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_id TEXT NOT NULL,
    name TEXT NOT NULL CHECK (length(trim(name)) > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledgers_account_name
    ON ledgers(account_id, lower(name));

CREATE TABLE IF NOT EXISTS entries (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_id TEXT NOT NULL,
    ledger_id UUID NOT NULL REFERENCES ledgers(id),
    type TEXT NOT NULL CHECK (type IN ('in', 'out')),
    date_time TIMESTAMPTZ NOT NULL,
    details TEXT,
    amount NUMERIC(18, 2) NOT NULL CHECK (amount >= 0),
    category TEXT,
    mode TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_ledger ON entries(ledger_id, date_time);

CREATE TABLE IF NOT EXISTS attachments (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    account_id TEXT NOT NULL,
    entry_id UUID NOT NULL REFERENCES entries(id),
    file_path TEXT NOT NULL UNIQUE,
    file_name TEXT NOT NULL,
    file_type TEXT NOT NULL,
    checksum TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// SQLiteSchema mirrors PostgresSchema for the embedded local store.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS ledgers (
    id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
    account_id TEXT NOT NULL,
    name TEXT NOT NULL CHECK (length(trim(name)) > 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledgers_account_name
    ON ledgers(account_id, lower(name));

CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
    account_id TEXT NOT NULL,
    ledger_id TEXT NOT NULL REFERENCES ledgers(id),
    type TEXT NOT NULL CHECK (type IN ('in', 'out')),
    date_time TIMESTAMP NOT NULL,
    details TEXT,
    amount NUMERIC NOT NULL CHECK (amount >= 0),
    category TEXT,
    mode TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_ledger ON entries(ledger_id, date_time);

CREATE TABLE IF NOT EXISTS attachments (
    id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
    account_id TEXT NOT NULL,
    entry_id TEXT NOT NULL REFERENCES entries(id),
    file_path TEXT NOT NULL UNIQUE,
    file_name TEXT NOT NULL,
    file_type TEXT NOT NULL,
    checksum TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates the tables for the given driver if missing.
func InitializeSchema(db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case "sqlite3":
		schema = SQLiteSchema
	case "postgres":
		schema = PostgresSchema
	default:
		return fmt.Errorf("no schema for driver %q", driver)
	}
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}
