package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daehan/moneybook/internal/common"
	"github.com/daehan/moneybook/internal/model"
)

// Service orchestrates all ledger operations: it validates requests, applies
// them to the repository, and exposes the derived queries. Every mutating
// operation persists synchronously before returning.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a service over the given repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// AddAccount creates a new active account.
func (s *Service) AddAccount(ctx context.Context, name string, typ model.AccountType, color string, openingBalance decimal.Decimal, imagePath string) (model.Account, error) {
	if strings.TrimSpace(name) == "" {
		return model.Account{}, fmt.Errorf("add account: %w", model.ErrEmptyName)
	}

	acc := model.Account{
		ID:             model.NewID(),
		Name:           name,
		Type:           typ,
		Color:          color,
		OpeningBalance: openingBalance,
		Status:         model.StatusActive,
		ImagePath:      imagePath,
		Transactions:   []model.Transaction{},
		Valuations:     []model.ValuationRecord{},
	}
	return acc, s.repo.PutAccount(ctx, acc)
}

// UpdateAccount replaces the stored account wholesale; there is no merge.
func (s *Service) UpdateAccount(ctx context.Context, acc model.Account) error {
	return s.repo.PutAccount(ctx, acc)
}

// DeleteAccount removes an account; unknown ids are a no-op.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.repo.DeleteAccount(ctx, id)
}

// ToggleAccountStatus flips an account between active and dead. Unknown ids
// are a no-op.
func (s *Service) ToggleAccountStatus(ctx context.Context, id string) error {
	_, err := s.repo.mutateAccount(ctx, id, func(acc *model.Account) {
		if acc.Status == model.StatusActive {
			acc.Status = model.StatusDead
		} else {
			acc.Status = model.StatusActive
		}
	})
	return err
}

// ListAccounts returns every account in insertion order.
func (s *Service) ListAccounts() []model.Account {
	return s.repo.Accounts()
}

// GetAccount returns one account by id.
func (s *Service) GetAccount(id string) (model.Account, bool) {
	return s.repo.Account(id)
}

// AddTransaction appends a transaction to the named account.
//
// The guard here is looser than Transaction.Validate: a zero amount passes,
// only negative amounts are rejected. Balance math is indifferent to zero
// entries, so the looser guard stands until a product decision says
// otherwise. An unknown account id appends nothing and is not an error;
// callers are expected to have checked existence first.
func (s *Service) AddTransaction(ctx context.Context, accountID string, kind model.TransactionKind, amount decimal.Decimal, category, memo, date string) (model.Transaction, error) {
	if amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("add transaction: %w", common.ErrNegativeAmount)
	}
	if kind != model.KindIncome && kind != model.KindExpense {
		return model.Transaction{}, fmt.Errorf("add transaction: %w", model.ErrInvalidKind)
	}

	txn := model.Transaction{
		ID:        model.NewID(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Category:  category,
		Memo:      memo,
		Date:      date,
	}
	_, err := s.repo.mutateAccount(ctx, accountID, func(acc *model.Account) {
		acc.Transactions = append(acc.Transactions, txn)
	})
	return txn, err
}

// ListTransactions returns the account's transactions sorted by date,
// descending unless ascending is set. An unknown account yields an empty
// list.
func (s *Service) ListTransactions(accountID string, ascending bool) []model.Transaction {
	acc, ok := s.repo.Account(accountID)
	if !ok {
		return []model.Transaction{}
	}
	txns := acc.Transactions
	sort.SliceStable(txns, func(i, j int) bool {
		if ascending {
			return txns[i].Date < txns[j].Date
		}
		return txns[i].Date > txns[j].Date
	})
	return txns
}

// AddSalary records one month's salary for a household member.
func (s *Service) AddSalary(ctx context.Context, amount decimal.Decimal, month, person string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("add salary: %w", common.ErrNonPositiveAmount)
	}
	return s.repo.AddSalary(ctx, model.SalaryEntry{Amount: amount, Month: month, Person: person})
}

// GetSalaries returns all salary entries, optionally filtered to a year
// prefix.
func (s *Service) GetSalaries(year string) []model.SalaryEntry {
	all := s.repo.Salaries()
	if year == "" {
		return all
	}
	filtered := []model.SalaryEntry{}
	for _, entry := range all {
		if strings.HasPrefix(entry.Month, year) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// AddValuation appends a buy/sell/mark record to an investment account.
//
// The legacy mirror fields are set from the just-added record. When records
// arrive out of chronological order this leaves them tracking the most
// recently added record rather than the latest-dated one; DeleteValuation
// re-mirrors from the true latest.
func (s *Service) AddValuation(ctx context.Context, accountID string, amount decimal.Decimal, date, memo string, typ model.ValuationType) (model.ValuationRecord, error) {
	acc, ok := s.repo.Account(accountID)
	if !ok {
		return model.ValuationRecord{}, fmt.Errorf("add valuation: %w", common.ErrAccountNotFound)
	}
	if acc.Type != model.AccountInvestment {
		return model.ValuationRecord{}, fmt.Errorf("add valuation: %w", common.ErrWrongAccountType)
	}

	rec := model.ValuationRecord{
		ID:              model.NewID(),
		AccountID:       accountID,
		EvaluatedAmount: amount,
		EvaluationDate:  date,
		Memo:            memo,
		TransactionType: typ,
	}
	_, err := s.repo.mutateAccount(ctx, accountID, func(acc *model.Account) {
		acc.Valuations = append(acc.Valuations, rec)
		acc.EvaluatedAmount = rec.EvaluatedAmount
		acc.LastValuationDate = dayOf(rec.EvaluationDate)
	})
	return rec, err
}

// GetValuations returns the account's valuations sorted ascending by date,
// stable so same-day records keep their insertion order. An unknown account
// yields an empty list.
func (s *Service) GetValuations(accountID string) []model.ValuationRecord {
	acc, ok := s.repo.Account(accountID)
	if !ok {
		return []model.ValuationRecord{}
	}
	vals := acc.Valuations
	sort.SliceStable(vals, func(i, j int) bool {
		return vals[i].EvaluationDate < vals[j].EvaluationDate
	})
	return vals
}

// DeleteValuation removes one record by id. The mirror fields are reset from
// the remaining true latest-by-date record, or zeroed when none remain.
func (s *Service) DeleteValuation(ctx context.Context, accountID, valuationID string) error {
	if _, ok := s.repo.Account(accountID); !ok {
		return fmt.Errorf("delete valuation: %w", common.ErrAccountNotFound)
	}

	_, err := s.repo.mutateAccount(ctx, accountID, func(acc *model.Account) {
		kept := acc.Valuations[:0]
		for _, rec := range acc.Valuations {
			if rec.ID != valuationID {
				kept = append(kept, rec)
			}
		}
		acc.Valuations = kept

		if latest := acc.LatestValuation(); latest != nil {
			acc.EvaluatedAmount = latest.EvaluatedAmount
			acc.LastValuationDate = dayOf(latest.EvaluationDate)
		} else {
			acc.EvaluatedAmount = decimal.Zero
			acc.LastValuationDate = ""
		}
	})
	return err
}

// GetTradePairs reconstructs the account's buy-to-close legs from its
// valuations in chronological order.
func (s *Service) GetTradePairs(accountID string) []model.TradePair {
	return tradePairs(s.GetValuations(accountID))
}

// AutoValuation re-marks the account at its latest recorded amount, dated
// now. Fails when the account has no prior valuation to carry forward.
func (s *Service) AutoValuation(ctx context.Context, accountID string) (model.ValuationRecord, error) {
	acc, ok := s.repo.Account(accountID)
	if !ok {
		return model.ValuationRecord{}, fmt.Errorf("auto valuation: %w", common.ErrAccountNotFound)
	}
	latest := acc.LatestValuation()
	if latest == nil {
		return model.ValuationRecord{}, fmt.Errorf("auto valuation: %w", common.ErrNoValuations)
	}

	date := s.now().UTC().Format("2006-01-02T15:04:05Z")
	return s.AddValuation(ctx, accountID, latest.EvaluatedAmount, date, "auto valuation", model.ValuationMark)
}

// dayOf truncates an ISO-8601 timestamp to its date part.
func dayOf(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
