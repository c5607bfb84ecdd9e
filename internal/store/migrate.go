package store

import "fmt"

// Migrate creates the schema if it does not exist. Statements are
// idempotent so the migration can run on every start.
func (s *Store) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			member BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS phone_numbers (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			number TEXT NOT NULL,
			cellphone BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS credentials (
			user_id INTEGER PRIMARY KEY REFERENCES users(id),
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS gsm_numbers (
			number TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS badge_numbers (
			number TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS logs (
			id SERIAL PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			system TEXT NOT NULL,
			attribute TEXT NOT NULL,
			message TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS bank_transactions (
			id SERIAL PRIMARY KEY,
			valuta_date TEXT NOT NULL,
			reference TEXT NOT NULL,
			type TEXT NOT NULL,
			amount TEXT NOT NULL,
			currency TEXT NOT NULL,
			date TEXT NOT NULL,
			source_account TEXT NOT NULL,
			name TEXT NOT NULL,
			message1 TEXT NOT NULL,
			message2 TEXT NOT NULL DEFAULT '',
			batch_id TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
