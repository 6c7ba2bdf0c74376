package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/daehan/moneybook/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists the ledger snapshot in a SQLite database. Save
// rewrites the whole snapshot inside one transaction, matching the
// wholesale-rewrite contract of the JSON store.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// migrates it to the current schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reassembles the ledger state, accounts and owned records in their
// persisted insertion order. Query failures load as the empty state, same as
// an unreadable JSON file.
func (s *SQLiteStore) Load(ctx context.Context) (model.LedgerState, error) {
	if err := validateContext(ctx); err != nil {
		return model.LedgerState{}, err
	}

	state, err := s.load(ctx)
	if err != nil {
		slog.Warn("failed to load ledger database, starting empty", "path", s.dbPath, "error", err)
		return model.EmptyState(), nil
	}

	migrateState(&state)
	return state, nil
}

func (s *SQLiteStore) load(ctx context.Context) (model.LedgerState, error) {
	state := model.EmptyState()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, status, color, opening_balance, image_path,
		       purchase_amount, cash_holding, evaluated_amount, last_valuation_date
		FROM accounts ORDER BY position`)
	if err != nil {
		return state, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var acc model.Account
		var opening, purchase, cash, evaluated string
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Type, &acc.Status, &acc.Color,
			&opening, &acc.ImagePath, &purchase, &cash, &evaluated, &acc.LastValuationDate); err != nil {
			return state, fmt.Errorf("failed to scan account: %w", err)
		}
		if acc.OpeningBalance, err = decimal.NewFromString(opening); err != nil {
			return state, fmt.Errorf("account %s: bad opening balance: %w", acc.ID, err)
		}
		if acc.PurchaseAmount, err = decimal.NewFromString(purchase); err != nil {
			return state, fmt.Errorf("account %s: bad purchase amount: %w", acc.ID, err)
		}
		if acc.CashHolding, err = decimal.NewFromString(cash); err != nil {
			return state, fmt.Errorf("account %s: bad cash holding: %w", acc.ID, err)
		}
		if acc.EvaluatedAmount, err = decimal.NewFromString(evaluated); err != nil {
			return state, fmt.Errorf("account %s: bad evaluated amount: %w", acc.ID, err)
		}
		acc.Transactions = []model.Transaction{}
		acc.Valuations = []model.ValuationRecord{}
		state.Accounts = append(state.Accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return state, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	for i := range state.Accounts {
		if state.Accounts[i].Transactions, err = s.loadTransactions(ctx, state.Accounts[i].ID); err != nil {
			return state, err
		}
		if state.Accounts[i].Valuations, err = s.loadValuations(ctx, state.Accounts[i].ID); err != nil {
			return state, err
		}
	}

	if state.Salaries, err = s.loadSalaries(ctx); err != nil {
		return state, err
	}
	return state, nil
}

func (s *SQLiteStore) loadTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, type, amount, category, memo, date, item
		FROM transactions WHERE account_id = ? ORDER BY position`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txns := []model.Transaction{}
	for rows.Next() {
		var txn model.Transaction
		var amount string
		if err := rows.Scan(&txn.ID, &txn.AccountID, &txn.Kind, &amount,
			&txn.Category, &txn.Memo, &txn.Date, &txn.Item); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s: bad amount: %w", txn.ID, err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (s *SQLiteStore) loadValuations(ctx context.Context, accountID string) ([]model.ValuationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, evaluated_amount, evaluation_date, memo, transaction_type
		FROM valuations WHERE account_id = ? ORDER BY position`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	vals := []model.ValuationRecord{}
	for rows.Next() {
		var rec model.ValuationRecord
		var amount string
		if err := rows.Scan(&rec.ID, &rec.AccountID, &amount,
			&rec.EvaluationDate, &rec.Memo, &rec.TransactionType); err != nil {
			return nil, fmt.Errorf("failed to scan valuation: %w", err)
		}
		if rec.EvaluatedAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("valuation %s: bad amount: %w", rec.ID, err)
		}
		vals = append(vals, rec)
	}
	return vals, rows.Err()
}

func (s *SQLiteStore) loadSalaries(ctx context.Context) ([]model.SalaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT amount, month, person FROM salaries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query salaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	salaries := []model.SalaryEntry{}
	for rows.Next() {
		var entry model.SalaryEntry
		var amount string
		if err := rows.Scan(&amount, &entry.Month, &entry.Person); err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("salary entry: bad amount: %w", err)
		}
		salaries = append(salaries, entry)
	}
	return salaries, rows.Err()
}

// Save rewrites the full snapshot in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, state model.LedgerState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"transactions", "valuations", "accounts", "salaries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pos, acc := range state.Accounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (
				id, name, type, status, color, opening_balance, image_path,
				purchase_amount, cash_holding, evaluated_amount, last_valuation_date, position
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			acc.ID, acc.Name, string(acc.Type), string(acc.Status), acc.Color,
			acc.OpeningBalance.String(), acc.ImagePath, acc.PurchaseAmount.String(),
			acc.CashHolding.String(), acc.EvaluatedAmount.String(), acc.LastValuationDate, pos,
		); err != nil {
			return fmt.Errorf("failed to insert account %s: %w", acc.ID, err)
		}

		for i, txn := range acc.Transactions {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO transactions (id, account_id, type, amount, category, memo, date, item, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				txn.ID, txn.AccountID, string(txn.Kind), txn.Amount.String(),
				txn.Category, txn.Memo, txn.Date, txn.Item, i,
			); err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
			}
		}

		for i, rec := range acc.Valuations {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO valuations (id, account_id, evaluated_amount, evaluation_date, memo, transaction_type, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				rec.ID, rec.AccountID, rec.EvaluatedAmount.String(),
				rec.EvaluationDate, rec.Memo, string(rec.TransactionType), i,
			); err != nil {
				return fmt.Errorf("failed to insert valuation %s: %w", rec.ID, err)
			}
		}
	}

	for _, entry := range state.Salaries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO salaries (amount, month, person) VALUES (?, ?, ?)`,
			entry.Amount.String(), entry.Month, entry.Person,
		); err != nil {
			return fmt.Errorf("failed to insert salary entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}
