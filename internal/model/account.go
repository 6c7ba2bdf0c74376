package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType is one of the three kinds of account.
type AccountType string

const (
	// AccountCash holds spendable money; its value is its balance.
	AccountCash AccountType = "cash"
	// AccountInvestment holds a position valued by valuation records.
	AccountInvestment AccountType = "investment"
	// AccountConsumption tracks spending and is excluded from asset totals.
	AccountConsumption AccountType = "consumption"
)

// AccountStatus tracks whether an account is in use.
type AccountStatus string

const (
	// StatusActive marks an account in use.
	StatusActive AccountStatus = "active"
	// StatusDead marks a closed account kept for history.
	StatusDead AccountStatus = "dead"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Real-estate accounts get special return-rate treatment. The data files
// this app grew up with used the Korean marker, so both spellings match.
var realEstateMarkers = []string{"real estate", "부동산"}

// IsRealEstateName reports whether an account name (or image path stem)
// marks a real-estate holding.
func IsRealEstateName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range realEstateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Account is a named store of value. It exclusively owns its transactions
// and valuations; every owned record's AccountID must equal the account's
// ID (the caller maintains this, Validate does not re-check it).
//
// PurchaseAmount, CashHolding, EvaluatedAmount and LastValuationDate are
// legacy mirror fields: they cache the current valuation for display without
// rescanning the valuation list and can go stale relative to the true
// latest-by-date record.
type Account struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Type              AccountType       `json:"type"`
	Color             string            `json:"color"`
	OpeningBalance    decimal.Decimal   `json:"opening_balance"`
	Status            AccountStatus     `json:"status"`
	ImagePath         string            `json:"image_path"`
	PurchaseAmount    decimal.Decimal   `json:"purchase_amount"`
	CashHolding       decimal.Decimal   `json:"cash_holding"`
	EvaluatedAmount   decimal.Decimal   `json:"evaluated_amount"`
	LastValuationDate string            `json:"last_valuation_date"`
	Transactions      []Transaction     `json:"transactions"`
	Valuations        []ValuationRecord `json:"valuations"`
}

// Validate checks the account's own invariants, then every owned record,
// propagating the first failure.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	switch a.Type {
	case AccountCash, AccountInvestment, AccountConsumption:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, a.Type)
	}
	if !colorPattern.MatchString(a.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, a.Color)
	}
	for i := range a.Transactions {
		if err := a.Transactions[i].Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", a.Transactions[i].ID, err)
		}
	}
	for i := range a.Valuations {
		if err := a.Valuations[i].Validate(); err != nil {
			return fmt.Errorf("valuation %s: %w", a.Valuations[i].ID, err)
		}
	}
	return nil
}

// Balance is the opening balance plus income minus expense, always computed
// fresh from the transaction list.
func (a *Account) Balance() decimal.Decimal {
	total := a.OpeningBalance
	for i := range a.Transactions {
		switch a.Transactions[i].Kind {
		case KindIncome:
			total = total.Add(a.Transactions[i].Amount)
		case KindExpense:
			total = total.Sub(a.Transactions[i].Amount)
		}
	}
	return total
}

// LatestValuation returns the valuation with the maximum evaluation date, or
// nil when the list is empty. Records sharing the maximum date tie-break to
// the first one in stored order.
func (a *Account) LatestValuation() *ValuationRecord {
	var latest *ValuationRecord
	for i := range a.Valuations {
		if latest == nil || a.Valuations[i].EvaluationDate > latest.EvaluationDate {
			latest = &a.Valuations[i]
		}
	}
	return latest
}

// AssetValue is the account's contribution to total assets: for investment
// accounts the latest valuation (falling back to the mirror field when no
// records exist) plus cash holding, otherwise the balance.
func (a *Account) AssetValue() decimal.Decimal {
	if a.Type != AccountInvestment {
		return a.Balance()
	}
	current := a.EvaluatedAmount
	if latest := a.LatestValuation(); latest != nil {
		current = latest.EvaluatedAmount
	}
	return current.Add(a.CashHolding)
}

// ReturnRate computes the account's percentage return.
//
// Real-estate accounts holding both a buy and a sell are measured from the
// earliest buy to the latest sell, ignoring everything in between. All other
// investment accounts are measured from the manually tracked PurchaseAmount
// to the latest valuation (or the mirror field when no records exist).
func (a *Account) ReturnRate() float64 {
	if a.Type != AccountInvestment || len(a.Valuations) == 0 {
		return 0
	}
	if IsRealEstateName(a.Name) {
		if buy, sell := a.earliestBuy(), a.latestSell(); buy != nil && sell != nil {
			return TradePair{Buy: *buy, Sell: *sell}.ReturnRate()
		}
	}
	if a.PurchaseAmount.IsZero() {
		return 0
	}
	current := a.EvaluatedAmount
	if latest := a.LatestValuation(); latest != nil {
		current = latest.EvaluatedAmount
	}
	rate := current.Sub(a.PurchaseAmount).Div(a.PurchaseAmount).Mul(decimal.NewFromInt(100))
	return rate.InexactFloat64()
}

func (a *Account) earliestBuy() *ValuationRecord {
	var earliest *ValuationRecord
	for i := range a.Valuations {
		if a.Valuations[i].TransactionType != ValuationBuy {
			continue
		}
		if earliest == nil || a.Valuations[i].EvaluationDate < earliest.EvaluationDate {
			earliest = &a.Valuations[i]
		}
	}
	return earliest
}

func (a *Account) latestSell() *ValuationRecord {
	var latest *ValuationRecord
	for i := range a.Valuations {
		if a.Valuations[i].TransactionType != ValuationSell {
			continue
		}
		if latest == nil || a.Valuations[i].EvaluationDate > latest.EvaluationDate {
			latest = &a.Valuations[i]
		}
	}
	return latest
}

// Clone returns a deep copy so callers never hold a mutable alias to stored
// state.
func (a *Account) Clone() Account {
	dup := *a
	dup.Transactions = make([]Transaction, len(a.Transactions))
	copy(dup.Transactions, a.Transactions)
	dup.Valuations = make([]ValuationRecord, len(a.Valuations))
	copy(dup.Valuations, a.Valuations)
	return dup
}
