// Package ledger implements the in-memory ledger store and the service that
// orchestrates it: account/transaction/valuation CRUD, trade-pair
// reconstruction, and the reporting queries.
package ledger

import (
	"context"
	"fmt"

	"github.com/daehan/moneybook/internal/model"
	"github.com/daehan/moneybook/internal/service"
)

// Repository holds the whole ledger in memory, keyed by account id with
// insertion order preserved, and rewrites the persisted snapshot after every
// mutation. Reads hand out deep copies: no caller holds a mutable alias to
// stored state, and all mutation flows back through the service.
type Repository struct {
	store    service.Store
	accounts map[string]*model.Account
	order    []string
	salaries []model.SalaryEntry
}

// NewRepository loads the persisted state through the collaborator. Missing
// or unreadable data loads as an empty ledger, never as an error.
func NewRepository(ctx context.Context, store service.Store) (*Repository, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}

	r := &Repository{
		store:    store,
		accounts: make(map[string]*model.Account, len(state.Accounts)),
		salaries: state.Salaries,
	}
	for i := range state.Accounts {
		acc := state.Accounts[i]
		r.accounts[acc.ID] = &acc
		r.order = append(r.order, acc.ID)
	}
	if r.salaries == nil {
		r.salaries = []model.SalaryEntry{}
	}
	return r, nil
}

// state snapshots the full ledger for persistence.
func (r *Repository) state() model.LedgerState {
	state := model.LedgerState{
		Accounts: make([]model.Account, 0, len(r.order)),
		Salaries: make([]model.SalaryEntry, len(r.salaries)),
	}
	for _, id := range r.order {
		state.Accounts = append(state.Accounts, r.accounts[id].Clone())
	}
	copy(state.Salaries, r.salaries)
	return state
}

// save rewrites the whole persisted snapshot. A save failure propagates to
// the caller but the in-memory mutation stays applied; memory and disk may
// diverge until the next successful save.
func (r *Repository) save(ctx context.Context) error {
	return r.store.Save(ctx, r.state())
}

// PutAccount inserts or replaces an account wholesale and persists.
func (r *Repository) PutAccount(ctx context.Context, acc model.Account) error {
	stored := acc.Clone()
	if _, ok := r.accounts[acc.ID]; !ok {
		r.order = append(r.order, acc.ID)
	}
	r.accounts[acc.ID] = &stored
	return r.save(ctx)
}

// DeleteAccount removes an account if present and persists. Deleting an
// unknown id is a no-op, not an error.
func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return nil
	}
	delete(r.accounts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return r.save(ctx)
}

// Accounts returns deep copies of every account in insertion order.
func (r *Repository) Accounts() []model.Account {
	accounts := make([]model.Account, 0, len(r.order))
	for _, id := range r.order {
		accounts = append(accounts, r.accounts[id].Clone())
	}
	return accounts
}

// Account returns a deep copy of one account.
func (r *Repository) Account(id string) (model.Account, bool) {
	acc, ok := r.accounts[id]
	if !ok {
		return model.Account{}, false
	}
	return acc.Clone(), true
}

// mutateAccount applies fn to the stored account and persists. It reports
// whether the account existed; an unknown id mutates nothing and does not
// save.
func (r *Repository) mutateAccount(ctx context.Context, id string, fn func(*model.Account)) (bool, error) {
	acc, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	fn(acc)
	return true, r.save(ctx)
}

// AddSalary appends a salary entry and persists.
func (r *Repository) AddSalary(ctx context.Context, entry model.SalaryEntry) error {
	r.salaries = append(r.salaries, entry)
	return r.save(ctx)
}

// Salaries returns a copy of the salary history in insertion order.
func (r *Repository) Salaries() []model.SalaryEntry {
	salaries := make([]model.SalaryEntry, len(r.salaries))
	copy(salaries, r.salaries)
	return salaries
}
