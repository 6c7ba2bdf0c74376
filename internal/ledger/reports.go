package ledger

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/daehan/moneybook/internal/model"
	"github.com/daehan/moneybook/internal/service"
)

// Categories the income breakdown recognizes on cash accounts. Category is
// an open string everywhere else; only these three are bucketed.
const (
	CategorySavings  = "savings"
	CategoryInterest = "interest"
	CategorySpending = "expense"
)

// Asset-allocation buckets.
const (
	BucketCash       = "cash"
	BucketRealEstate = "real estate"
	BucketBitcoin    = "bitcoin"
	BucketStocks     = "stocks"
	BucketOther      = "other"
)

var bitcoinKeywords = []string{"bitcoin", "비트코인"}
var stockKeywords = []string{"stock", "securities", "주식", "증권"}

// MonthSummary totals one account's income and expense for transactions
// whose date starts with the given "YYYY-MM" prefix.
func (s *Service) MonthSummary(accountID, yearMonth string) service.MonthSummary {
	summary := service.MonthSummary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, txn := range s.ListTransactions(accountID, false) {
		if !strings.HasPrefix(txn.Date, yearMonth) {
			continue
		}
		switch txn.Kind {
		case model.KindIncome:
			summary.Income = summary.Income.Add(txn.Amount)
		case model.KindExpense:
			summary.Expense = summary.Expense.Add(txn.Amount)
		}
	}
	return summary
}

// TotalAssets sums every non-consumption account: investment accounts
// contribute their asset value, the rest their balance.
func (s *Service) TotalAssets() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range s.repo.Accounts() {
		switch acc.Type {
		case model.AccountConsumption:
		case model.AccountInvestment:
			total = total.Add(acc.AssetValue())
		default:
			total = total.Add(acc.Balance())
		}
	}
	return total
}

// TotalCash sums the balance of cash accounts only.
func (s *Service) TotalCash() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range s.repo.Accounts() {
		if acc.Type == model.AccountCash {
			total = total.Add(acc.Balance())
		}
	}
	return total
}

// MonthlyIncomeBreakdown buckets cash-account activity by month: savings and
// interest income, and categorized spending. Other category/kind
// combinations are ignored. Results come back sorted by month key ascending,
// optionally restricted to a year prefix.
func (s *Service) MonthlyIncomeBreakdown(year string) []service.IncomeBreakdown {
	months := map[string]*service.IncomeBreakdown{}

	for _, acc := range s.repo.Accounts() {
		if acc.Type != model.AccountCash {
			continue
		}
		for _, txn := range acc.Transactions {
			if len(txn.Date) < 7 {
				continue
			}
			yearMonth := txn.Date[:7]
			if year != "" && !strings.HasPrefix(yearMonth, year) {
				continue
			}

			bucket, ok := months[yearMonth]
			if !ok {
				bucket = &service.IncomeBreakdown{
					Month:    yearMonth,
					Savings:  decimal.Zero,
					Interest: decimal.Zero,
					Expense:  decimal.Zero,
				}
				months[yearMonth] = bucket
			}

			switch {
			case txn.Kind == model.KindIncome && txn.Category == CategorySavings:
				bucket.Savings = bucket.Savings.Add(txn.Amount)
			case txn.Kind == model.KindIncome && txn.Category == CategoryInterest:
				bucket.Interest = bucket.Interest.Add(txn.Amount)
			case txn.Kind == model.KindExpense && txn.Category == CategorySpending:
				bucket.Expense = bucket.Expense.Add(txn.Amount)
			}
		}
	}

	result := make([]service.IncomeBreakdown, 0, len(months))
	for _, bucket := range months {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// SalarySummary aggregates one year's salary entries.
func (s *Service) SalarySummary(year string) service.SalarySummary {
	summary := service.SalarySummary{Total: decimal.Zero, Average: decimal.Zero}
	for _, entry := range s.GetSalaries(year) {
		summary.Total = summary.Total.Add(entry.Amount)
		summary.Count++
	}
	if summary.Count > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count)))
	}
	return summary
}

// AssetAllocation buckets live accounts' positive values for the portfolio
// view. Investment accounts route by name or image keywords; everything else
// counts as cash. Empty buckets are omitted.
func (s *Service) AssetAllocation() map[string]decimal.Decimal {
	allocation := map[string]decimal.Decimal{}

	add := func(bucket string, value decimal.Decimal) {
		existing, ok := allocation[bucket]
		if !ok {
			existing = decimal.Zero
		}
		allocation[bucket] = existing.Add(value)
	}

	for _, acc := range s.repo.Accounts() {
		if acc.Status == model.StatusDead {
			continue
		}

		var value decimal.Decimal
		if acc.Type == model.AccountInvestment {
			value = acc.AssetValue()
		} else {
			value = acc.Balance()
		}
		if !value.IsPositive() {
			continue
		}

		if acc.Type != model.AccountInvestment {
			add(BucketCash, value)
			continue
		}

		name := strings.ToLower(acc.Name)
		stem := ""
		if acc.ImagePath != "" {
			stem = strings.ToLower(strings.TrimSuffix(filepath.Base(acc.ImagePath), filepath.Ext(acc.ImagePath)))
		}

		switch {
		case model.IsRealEstateName(acc.Name) || model.IsRealEstateName(stem):
			add(BucketRealEstate, value)
		case containsAny(name, bitcoinKeywords) || containsAny(stem, bitcoinKeywords):
			add(BucketBitcoin, value)
		case containsAny(name, stockKeywords) || containsAny(stem, stockKeywords):
			add(BucketStocks, value)
		default:
			add(BucketOther, value)
		}
	}
	return allocation
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
