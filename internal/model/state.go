package model

import "github.com/shopspring/decimal"

// SalaryEntry records one month's salary for one household member.
type SalaryEntry struct {
	Amount decimal.Decimal `json:"amount"`
	Month  string          `json:"month"`
	Person string          `json:"person"`
}

// LedgerState is the whole persisted ledger: every account with its owned
// records, plus the salary history. The persistence collaborator reads and
// rewrites it wholesale.
type LedgerState struct {
	Accounts []Account     `json:"accounts"`
	Salaries []SalaryEntry `json:"salaries"`
}

// EmptyState is what a missing or unreadable data file loads as.
func EmptyState() LedgerState {
	return LedgerState{
		Accounts: []Account{},
		Salaries: []SalaryEntry{},
	}
}
