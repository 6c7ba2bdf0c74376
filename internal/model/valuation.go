package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValuationType classifies a valuation record: a real trade leg or a
// mark-to-market event between trades.
type ValuationType string

const (
	// ValuationBuy opens a position.
	ValuationBuy ValuationType = "buy"
	// ValuationSell closes the oldest open position.
	ValuationSell ValuationType = "sell"
	// ValuationMark is a periodic mark-to-market of the open position.
	ValuationMark ValuationType = "valuation"
)

// ValuationRecord is a timestamped trade or mark-to-market event on an
// investment account.
type ValuationRecord struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	EvaluatedAmount decimal.Decimal `json:"evaluated_amount"`
	EvaluationDate  string          `json:"evaluation_date"`
	Memo            string          `json:"memo"`
	TransactionType ValuationType   `json:"transaction_type"`
}

// Validate checks the record's own invariants. A zero amount is legal: a
// position can be marked worthless.
func (v *ValuationRecord) Validate() error {
	if v.EvaluatedAmount.IsNegative() {
		return fmt.Errorf("%w: evaluated amount %s is negative", ErrInvalidAmount, v.EvaluatedAmount)
	}
	if _, err := ParseDate(v.EvaluationDate); err != nil {
		return err
	}
	return nil
}
