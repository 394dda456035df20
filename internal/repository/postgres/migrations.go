package postgres

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema on first run. Statements are idempotent so the
// server can apply them on every start.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS titles (
			id             TEXT PRIMARY KEY,
			classification TEXT NOT NULL,
			title          TEXT NOT NULL,
			author         TEXT NOT NULL DEFAULT '',
			isbn           TEXT NOT NULL DEFAULT '',
			publisher      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS copies (
			id         TEXT PRIMARY KEY,
			title_id   TEXT NOT NULL REFERENCES titles(id),
			status     TEXT NOT NULL,
			borrowable BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			sex         TEXT NOT NULL DEFAULT '',
			nic         TEXT NOT NULL DEFAULT '',
			address     TEXT NOT NULL DEFAULT '',
			email       TEXT NOT NULL DEFAULT '',
			member_type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id          BIGSERIAL PRIMARY KEY,
			copy_id     TEXT NOT NULL REFERENCES copies(id),
			member_id   TEXT NOT NULL REFERENCES members(id),
			loan_date   DATE NOT NULL,
			due_date    DATE NOT NULL,
			return_date DATE
		)`,
		// At most one active loan per copy, enforced by the store itself.
		`CREATE UNIQUE INDEX IF NOT EXISTS loans_active_copy_idx
			ON loans (copy_id) WHERE return_date IS NULL`,
		`CREATE INDEX IF NOT EXISTS loans_member_active_idx
			ON loans (member_id) WHERE return_date IS NULL`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id            BIGSERIAL PRIMARY KEY,
			title_id      TEXT NOT NULL REFERENCES titles(id),
			member_id     TEXT NOT NULL REFERENCES members(id),
			reserved_date DATE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS reservations_title_idx
			ON reservations (title_id, reserved_date, id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
