package database

import (
	"context"
	"database/sql"
	"fmt"
)

// UNIQUE (name, user_id) does not collapse duplicate global rows in
// Postgres because NULLs compare unequal; cmd/seed guards against that
// when inserting global flags.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id SERIAL PRIMARY KEY,
		date DATE NOT NULL,
		business VARCHAR(255),
		category VARCHAR(100) NOT NULL,
		amount NUMERIC(12, 2) NOT NULL,
		account VARCHAR(100) NOT NULL,
		currency VARCHAR(10) NOT NULL,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS incomes (
		id SERIAL PRIMARY KEY,
		date DATE NOT NULL,
		category VARCHAR(100) NOT NULL,
		amount NUMERIC(12, 2) NOT NULL,
		account VARCHAR(100) NOT NULL,
		currency VARCHAR(10) NOT NULL,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS feature_flags (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT FALSE,
		user_id INTEGER,
		description TEXT,
		CONSTRAINT uq_feature_flag_name_user UNIQUE (name, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_feature_flags_name ON feature_flags (name)`,
	`CREATE INDEX IF NOT EXISTS ix_feature_flags_user_id ON feature_flags (user_id)`,
}

// Migrate creates the schema if it does not exist yet. Every statement is
// idempotent, so running this at each startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	return nil
}
