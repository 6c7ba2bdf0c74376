package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehan/moneybook/internal/common"
	"github.com/daehan/moneybook/internal/model"
)

// memStore is an in-memory persistence collaborator for tests.
type memStore struct {
	state    model.LedgerState
	saves    int
	failSave bool
}

func (m *memStore) Load(_ context.Context) (model.LedgerState, error) {
	return m.state, nil
}

func (m *memStore) Save(_ context.Context, state model.LedgerState) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.state = state
	m.saves++
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := &memStore{state: model.EmptyState()}
	repo, err := NewRepository(context.Background(), store)
	require.NoError(t, err)
	return NewService(repo), store
}

func addInvestmentAccount(t *testing.T, svc *Service, name string) model.Account {
	t.Helper()
	acc, err := svc.AddAccount(context.Background(), name, model.AccountInvestment, "#2196F3", decimal.Zero, "")
	require.NoError(t, err)
	return acc
}

func TestService_AddAccount(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.NewFromInt(1000), "")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, model.StatusActive, acc.Status)
	assert.Equal(t, 1, store.saves, "adding an account persists")

	_, err = svc.AddAccount(ctx, "   ", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.ErrorIs(t, err, model.ErrEmptyName)
	assert.Equal(t, 1, store.saves, "a rejected add does not persist")
}

func TestService_ToggleAccountStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)

	require.NoError(t, svc.ToggleAccountStatus(ctx, acc.ID))
	got, ok := svc.GetAccount(acc.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusDead, got.Status)

	require.NoError(t, svc.ToggleAccountStatus(ctx, acc.ID))
	got, _ = svc.GetAccount(acc.ID)
	assert.Equal(t, model.StatusActive, got.Status)

	// Unknown id is a no-op, not an error.
	require.NoError(t, svc.ToggleAccountStatus(ctx, "missing"))
}

func TestService_DeleteAccount(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)
	savesBefore := store.saves

	require.NoError(t, svc.DeleteAccount(ctx, acc.ID))
	_, ok := svc.GetAccount(acc.ID)
	assert.False(t, ok)
	assert.Equal(t, savesBefore+1, store.saves)

	// Deleting an absent id neither errors nor persists.
	require.NoError(t, svc.DeleteAccount(ctx, acc.ID))
	assert.Equal(t, savesBefore+1, store.saves)
}

func TestService_AddTransaction(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.NewFromInt(100), "")
	require.NoError(t, err)

	_, err = svc.AddTransaction(ctx, acc.ID, model.KindIncome, decimal.NewFromInt(50), "savings", "", "2024-01-05T00:00:00Z")
	require.NoError(t, err)

	got, _ := svc.GetAccount(acc.ID)
	assert.True(t, got.Balance().Equal(decimal.NewFromInt(150)))
}

func TestService_AddTransaction_NegativeRejectedWithoutMutation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)
	savesBefore := store.saves

	_, err = svc.AddTransaction(ctx, acc.ID, model.KindIncome, decimal.NewFromInt(-1), "", "", "2024-01-05T00:00:00Z")
	require.ErrorIs(t, err, common.ErrNegativeAmount)

	got, _ := svc.GetAccount(acc.ID)
	assert.Empty(t, got.Transactions, "rejected transaction must not mutate the account")
	assert.Equal(t, savesBefore, store.saves)
}

func TestService_AddTransaction_ZeroAllowed(t *testing.T) {
	// The service guard is deliberately looser than Transaction.Validate:
	// zero passes here even though the entity's own invariant requires > 0.
	svc, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)

	_, err = svc.AddTransaction(ctx, acc.ID, model.KindExpense, decimal.Zero, "", "", "2024-01-05T00:00:00Z")
	require.NoError(t, err)

	got, _ := svc.GetAccount(acc.ID)
	assert.Len(t, got.Transactions, 1)
}

func TestService_AddTransaction_InvalidKind(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AddTransaction(context.Background(), "any", "transfer", decimal.NewFromInt(5), "", "", "2024-01-05")
	require.ErrorIs(t, err, model.ErrInvalidKind)
}

func TestService_AddTransaction_UnknownAccountIsSilent(t *testing.T) {
	svc, store := newTestService(t)
	savesBefore := store.saves

	_, err := svc.AddTransaction(context.Background(), "missing", model.KindIncome, decimal.NewFromInt(5), "", "", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, savesBefore, store.saves)
}

func TestService_ListTransactions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)

	for _, date := range []string{"2024-02-01T00:00:00Z", "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z"} {
		_, err = svc.AddTransaction(ctx, acc.ID, model.KindIncome, decimal.NewFromInt(1), "", "", date)
		require.NoError(t, err)
	}

	desc := svc.ListTransactions(acc.ID, false)
	require.Len(t, desc, 3)
	assert.Equal(t, "2024-03-01T00:00:00Z", desc[0].Date, "most recent first by default")

	asc := svc.ListTransactions(acc.ID, true)
	assert.Equal(t, "2024-01-01T00:00:00Z", asc[0].Date)

	assert.Empty(t, svc.ListTransactions("missing", false))
}

func TestService_AddSalary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddSalary(ctx, decimal.NewFromInt(3000000), "2024-03", "A"))
	require.NoError(t, svc.AddSalary(ctx, decimal.NewFromInt(2800000), "2023-12", "B"))

	err := svc.AddSalary(ctx, decimal.Zero, "2024-04", "A")
	require.ErrorIs(t, err, common.ErrNonPositiveAmount)

	assert.Len(t, svc.GetSalaries(""), 2)
	filtered := svc.GetSalaries("2024")
	require.Len(t, filtered, 1)
	assert.Equal(t, "2024-03", filtered[0].Month)
}

func TestService_AddValuation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	acc := addInvestmentAccount(t, svc, "fund")

	rec, err := svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(1000), "2024-02-15T09:00:00Z", "", model.ValuationBuy)
	require.NoError(t, err)
	assert.Equal(t, model.ValuationBuy, rec.TransactionType)

	got, _ := svc.GetAccount(acc.ID)
	require.Len(t, got.Valuations, 1)
	assert.True(t, got.EvaluatedAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "2024-02-15", got.LastValuationDate, "mirror date is truncated to the day")
}

func TestService_AddValuation_Guards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddValuation(ctx, "missing", decimal.NewFromInt(1), "2024-01-01", "", model.ValuationMark)
	require.ErrorIs(t, err, common.ErrAccountNotFound)

	cash, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)
	_, err = svc.AddValuation(ctx, cash.ID, decimal.NewFromInt(1), "2024-01-01", "", model.ValuationMark)
	require.ErrorIs(t, err, common.ErrWrongAccountType)
}

func TestService_AddValuation_MirrorsMostRecentlyAdded(t *testing.T) {
	// Records added out of chronological order leave the mirror fields on
	// the most recently added record, not the latest-dated one.
	svc, _ := newTestService(t)
	ctx := context.Background()
	acc := addInvestmentAccount(t, svc, "fund")

	_, err := svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(500), "2024-06-01T00:00:00Z", "", model.ValuationMark)
	require.NoError(t, err)
	_, err = svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(400), "2024-01-01T00:00:00Z", "backfill", model.ValuationMark)
	require.NoError(t, err)

	got, _ := svc.GetAccount(acc.ID)
	assert.True(t, got.EvaluatedAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "2024-01-01", got.LastValuationDate)
}

func TestService_GetValuations_SortedAscending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	acc := addInvestmentAccount(t, svc, "fund")

	_, err := svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(2), "2024-03-01", "", model.ValuationMark)
	require.NoError(t, err)
	_, err = svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(1), "2024-01-01", "", model.ValuationBuy)
	require.NoError(t, err)

	vals := svc.GetValuations(acc.ID)
	require.Len(t, vals, 2)
	assert.Equal(t, "2024-01-01", vals[0].EvaluationDate)

	assert.Empty(t, svc.GetValuations("missing"))
}

func TestService_DeleteValuation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	acc := addInvestmentAccount(t, svc, "fund")

	first, err := svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(500), "2024-06-01T00:00:00Z", "", model.ValuationMark)
	require.NoError(t, err)
	second, err := svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(400), "2024-01-01T00:00:00Z", "", model.ValuationMark)
	require.NoError(t, err)

	// Deleting re-mirrors from the true latest-by-date record, unlike add.
	require.NoError(t, svc.DeleteValuation(ctx, acc.ID, second.ID))
	got, _ := svc.GetAccount(acc.ID)
	assert.True(t, got.EvaluatedAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "2024-06-01", got.LastValuationDate)

	// Deleting the last record zeroes the mirrors.
	require.NoError(t, svc.DeleteValuation(ctx, acc.ID, first.ID))
	got, _ = svc.GetAccount(acc.ID)
	assert.True(t, got.EvaluatedAmount.IsZero())
	assert.Empty(t, got.LastValuationDate)

	require.ErrorIs(t, svc.DeleteValuation(ctx, "missing", first.ID), common.ErrAccountNotFound)
}

func TestService_GetTradePairs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	acc := addInvestmentAccount(t, svc, "fund")

	_, err := svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(100), "2024-01-01", "", model.ValuationBuy)
	require.NoError(t, err)
	_, err = svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(150), "2024-02-01", "", model.ValuationSell)
	require.NoError(t, err)

	pairs := svc.GetTradePairs(acc.ID)
	require.Len(t, pairs, 1)
	assert.Equal(t, 50.0, pairs[0].ReturnRate())
}

func TestService_AutoValuation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	acc := addInvestmentAccount(t, svc, "fund")

	_, err := svc.AutoValuation(ctx, acc.ID)
	require.ErrorIs(t, err, common.ErrNoValuations)

	_, err = svc.AddValuation(ctx, acc.ID, decimal.NewFromInt(800), "2024-05-01T00:00:00Z", "", model.ValuationMark)
	require.NoError(t, err)

	rec, err := svc.AutoValuation(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, rec.EvaluatedAmount.Equal(decimal.NewFromInt(800)), "carries the latest amount forward")
	assert.Equal(t, model.ValuationMark, rec.TransactionType)

	_, err = svc.AutoValuation(ctx, "missing")
	require.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestService_SaveFailureKeepsMemoryState(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	store.failSave = true
	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.Error(t, err, "save failure propagates")

	// The in-memory mutation is not rolled back; memory and disk diverge
	// until the next successful save.
	_, ok := svc.GetAccount(acc.ID)
	assert.True(t, ok)
}

func TestService_ReadsAreSnapshots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.AddAccount(ctx, "checking", model.AccountCash, "#4CAF50", decimal.Zero, "")
	require.NoError(t, err)

	got, _ := svc.GetAccount(acc.ID)
	got.Name = "tampered"
	got.Transactions = append(got.Transactions, model.Transaction{ID: "x"})

	fresh, _ := svc.GetAccount(acc.ID)
	assert.Equal(t, "checking", fresh.Name)
	assert.Empty(t, fresh.Transactions)
}
