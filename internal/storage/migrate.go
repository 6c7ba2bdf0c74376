package storage

import "github.com/daehan/moneybook/internal/model"

// InferValuationType resolves the type of a valuation record persisted
// before records carried one. It is a pure function run once at load time so
// the core never sees a missing type.
//
// Records without a stored type default to mark-to-market. The exception is
// legacy real-estate accounts, which predate typed records and always
// started with a purchase: their first type-less record with no buy before
// it becomes the buy.
func InferValuationType(rec model.ValuationRecord, prior []model.ValuationRecord, accountName string) model.ValuationType {
	if rec.TransactionType != "" {
		return rec.TransactionType
	}
	if model.IsRealEstateName(accountName) {
		for i := range prior {
			if prior[i].TransactionType == model.ValuationBuy {
				return model.ValuationMark
			}
		}
		return model.ValuationBuy
	}
	return model.ValuationMark
}

// migrateState fills the defaults older data files omit. Both collaborators
// run it on every load.
func migrateState(state *model.LedgerState) {
	if state.Accounts == nil {
		state.Accounts = []model.Account{}
	}
	if state.Salaries == nil {
		state.Salaries = []model.SalaryEntry{}
	}
	for i := range state.Accounts {
		acc := &state.Accounts[i]
		if acc.Type == "" {
			acc.Type = model.AccountCash
		}
		if acc.Status == "" {
			acc.Status = model.StatusActive
		}
		if acc.Transactions == nil {
			acc.Transactions = []model.Transaction{}
		}
		if acc.Valuations == nil {
			acc.Valuations = []model.ValuationRecord{}
		}
		for j := range acc.Valuations {
			acc.Valuations[j].TransactionType = InferValuationType(
				acc.Valuations[j], acc.Valuations[:j], acc.Name)
		}
	}
}
