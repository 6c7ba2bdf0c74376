// Package model defines the ledger's domain entities and their derived-value
// rules. Entities are plain data: validation and computation never touch
// storage.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind classifies the direction of a money movement.
type TransactionKind string

const (
	// KindIncome represents money flowing into an account.
	KindIncome TransactionKind = "income"
	// KindExpense represents money flowing out of an account.
	KindExpense TransactionKind = "expense"
)

// Transaction records a single money movement on one account. It is
// immutable after validation except through an explicit edit that rewrites
// all fields.
type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Kind      TransactionKind `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Memo      string          `json:"memo"`
	Date      string          `json:"date"`
	Item      string          `json:"item"`
}

// NewID generates a unique entity id.
func NewID() string {
	return uuid.NewString()
}

// Dates are stored as ISO-8601 strings; month bucketing and ordering are
// defined on the textual form, so parsing is used for validation only.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date string, accepting a trailing Z as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Validate checks the transaction's own invariants.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, t.Amount)
	}
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	return nil
}
