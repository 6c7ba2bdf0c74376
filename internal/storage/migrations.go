package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// expectedSchemaVersion is the latest schema version the application
// expects. Failing to migrate to it is fatal.
const expectedSchemaVersion = 1

// migration represents a database schema migration.
type migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

// Monetary columns are TEXT: amounts are decimals and must round-trip
// exactly.
var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					status TEXT NOT NULL,
					color TEXT NOT NULL,
					opening_balance TEXT NOT NULL,
					image_path TEXT NOT NULL DEFAULT '',
					purchase_amount TEXT NOT NULL DEFAULT '0',
					cash_holding TEXT NOT NULL DEFAULT '0',
					evaluated_amount TEXT NOT NULL DEFAULT '0',
					last_valuation_date TEXT NOT NULL DEFAULT '',
					position INTEGER NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL REFERENCES accounts(id),
					type TEXT NOT NULL,
					amount TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					memo TEXT NOT NULL DEFAULT '',
					date TEXT NOT NULL,
					item TEXT NOT NULL DEFAULT '',
					position INTEGER NOT NULL
				)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,

				`CREATE TABLE IF NOT EXISTS valuations (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL REFERENCES accounts(id),
					evaluated_amount TEXT NOT NULL,
					evaluation_date TEXT NOT NULL,
					memo TEXT NOT NULL DEFAULT '',
					transaction_type TEXT NOT NULL,
					position INTEGER NOT NULL
				)`,
				`CREATE INDEX idx_valuations_account ON valuations(account_id)`,

				`CREATE TABLE IF NOT EXISTS salaries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					amount TEXT NOT NULL,
					month TEXT NOT NULL,
					person TEXT NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Debug("applied migration", "version", m.Version, "description", m.Description)
	}

	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version != expectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", version, expectedSchemaVersion)
	}
	return nil
}
