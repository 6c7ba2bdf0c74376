// Package service defines the contracts between the ledger core and its
// collaborators, plus the shared report types queries return.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/daehan/moneybook/internal/model"
)

// Store is the persistence collaborator: a snapshot of the whole ledger,
// read once at startup and rewritten wholesale after every mutation.
type Store interface {
	// Load returns the last persisted state. Missing or unreadable data
	// loads as an empty state; Load never reports it as an error.
	Load(ctx context.Context) (model.LedgerState, error)
	// Save rewrites the whole persisted state. A failure is reported to the
	// caller but is not retried and does not roll back in-memory state.
	Save(ctx context.Context, state model.LedgerState) error
	Close() error
}

// MonthSummary totals one account's transactions for one month.
type MonthSummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// IncomeBreakdown buckets one month of cash-account activity.
type IncomeBreakdown struct {
	Month    string
	Savings  decimal.Decimal
	Interest decimal.Decimal
	Expense  decimal.Decimal
}

// SalarySummary aggregates salary entries for one year.
type SalarySummary struct {
	Total   decimal.Decimal
	Average decimal.Decimal
	Count   int
}
