package database

import (
	"database/sql"
	"fmt"
)

// usersSchema is the directory's single table. The points CHECK backs the
// invariant that totals never go negative, even if a caller slips past the
// ledger's own validation.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	full_name  TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL CHECK (role IN ('student', 'teacher')),
	prompt     TEXT,
	points     INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
`

// EnsureSchema creates the directory tables if they do not exist. Bootstrap
// runs at every startup; IF NOT EXISTS keeps it idempotent.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(usersSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
