package model

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func txn(kind TransactionKind, amount int64, date string) Transaction {
	return Transaction{
		ID:        NewID(),
		AccountID: "acc1",
		Kind:      kind,
		Amount:    decimal.NewFromInt(amount),
		Date:      date,
	}
}

func val(typ ValuationType, amount int64, date string) ValuationRecord {
	return ValuationRecord{
		ID:              NewID(),
		AccountID:       "acc1",
		EvaluatedAmount: decimal.NewFromInt(amount),
		EvaluationDate:  date,
		TransactionType: typ,
	}
}

func TestAccount_Balance(t *testing.T) {
	acc := Account{
		ID:             "acc1",
		Name:           "checking",
		Type:           AccountCash,
		Color:          "#4CAF50",
		OpeningBalance: decimal.NewFromInt(1000),
		Transactions: []Transaction{
			txn(KindIncome, 500, "2024-01-01T00:00:00Z"),
			txn(KindExpense, 200, "2024-01-02T00:00:00Z"),
			txn(KindIncome, 300, "2024-01-03T00:00:00Z"),
		},
	}
	if got := acc.Balance(); !got.Equal(decimal.NewFromInt(1600)) {
		t.Fatalf("Balance() = %s, want 1600", got)
	}

	// Same transactions in a different insertion order give the same balance.
	acc.Transactions[0], acc.Transactions[2] = acc.Transactions[2], acc.Transactions[0]
	if got := acc.Balance(); !got.Equal(decimal.NewFromInt(1600)) {
		t.Fatalf("Balance() after reorder = %s, want 1600", got)
	}
}

func TestAccount_Validate(t *testing.T) {
	valid := Account{
		ID:    "acc1",
		Name:  "savings",
		Type:  AccountCash,
		Color: "#112233",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid account: got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Account)
		wantErr error
	}{
		{"blank name", func(a *Account) { a.Name = "   " }, ErrEmptyName},
		{"unknown type", func(a *Account) { a.Type = "crypto" }, ErrInvalidType},
		{"short color", func(a *Account) { a.Color = "#FFF" }, ErrInvalidColor},
		{"missing hash", func(a *Account) { a.Color = "4CAF50A" }, ErrInvalidColor},
		{"bad owned transaction", func(a *Account) {
			a.Transactions = []Transaction{txn(KindIncome, 0, "2024-01-01")}
		}, ErrInvalidAmount},
		{"bad owned valuation", func(a *Account) {
			a.Valuations = []ValuationRecord{val(ValuationBuy, 100, "nope")}
		}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := valid
			tt.mutate(&acc)
			if err := acc.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccount_LatestValuation_TieKeepsFirst(t *testing.T) {
	first := val(ValuationMark, 100, "2024-06-01T00:00:00Z")
	second := val(ValuationMark, 200, "2024-06-01T00:00:00Z")
	acc := Account{
		ID:         "acc1",
		Name:       "fund",
		Type:       AccountInvestment,
		Color:      "#112233",
		Valuations: []ValuationRecord{first, second},
	}

	latest := acc.LatestValuation()
	if latest == nil {
		t.Fatal("LatestValuation() = nil")
	}
	if latest.ID != first.ID {
		t.Fatalf("tie should keep first stored record, got %s", latest.ID)
	}
}

func TestAccount_AssetValue(t *testing.T) {
	acc := Account{
		ID:              "acc1",
		Name:            "fund",
		Type:            AccountInvestment,
		Color:           "#112233",
		CashHolding:     decimal.NewFromInt(50),
		EvaluatedAmount: decimal.NewFromInt(900),
	}

	// No valuation records: the legacy mirror field carries the value.
	if got := acc.AssetValue(); !got.Equal(decimal.NewFromInt(950)) {
		t.Fatalf("AssetValue() = %s, want 950", got)
	}

	acc.Valuations = []ValuationRecord{
		val(ValuationMark, 1200, "2024-02-01T00:00:00Z"),
		val(ValuationMark, 1100, "2024-01-01T00:00:00Z"),
	}
	if got := acc.AssetValue(); !got.Equal(decimal.NewFromInt(1250)) {
		t.Fatalf("AssetValue() with records = %s, want 1250 (latest 1200 + cash 50)", got)
	}

	cash := Account{
		ID:             "acc2",
		Name:           "checking",
		Type:           AccountCash,
		Color:          "#112233",
		OpeningBalance: decimal.NewFromInt(77),
	}
	if got := cash.AssetValue(); !got.Equal(decimal.NewFromInt(77)) {
		t.Fatalf("cash AssetValue() = %s, want balance 77", got)
	}
}

func TestAccount_ReturnRate_Generic(t *testing.T) {
	acc := Account{
		ID:             "acc1",
		Name:           "index fund",
		Type:           AccountInvestment,
		Color:          "#112233",
		PurchaseAmount: decimal.NewFromInt(1000),
		Valuations: []ValuationRecord{
			val(ValuationMark, 1100, "2024-01-01T00:00:00Z"),
			val(ValuationMark, 1250, "2024-02-01T00:00:00Z"),
		},
	}
	if got := acc.ReturnRate(); math.Abs(got-25.0) > 1e-9 {
		t.Fatalf("ReturnRate() = %v, want 25.0 (latest 1250 vs basis 1000)", got)
	}
}

func TestAccount_ReturnRate_NoValuations(t *testing.T) {
	acc := Account{
		ID:             "acc1",
		Name:           "index fund",
		Type:           AccountInvestment,
		Color:          "#112233",
		PurchaseAmount: decimal.NewFromInt(1000),
	}
	if got := acc.ReturnRate(); got != 0 {
		t.Fatalf("ReturnRate() without valuations = %v, want 0", got)
	}
}

func TestAccount_ReturnRate_ZeroBasis(t *testing.T) {
	acc := Account{
		ID:    "acc1",
		Name:  "index fund",
		Type:  AccountInvestment,
		Color: "#112233",
		Valuations: []ValuationRecord{
			val(ValuationMark, 1100, "2024-01-01T00:00:00Z"),
		},
	}
	if got := acc.ReturnRate(); got != 0 {
		t.Fatalf("ReturnRate() with zero basis = %v, want 0", got)
	}
}

func TestAccount_ReturnRate_RealEstate(t *testing.T) {
	// Earliest buy vs latest sell; the trailing buy is ignored entirely.
	acc := Account{
		ID:    "acc1",
		Name:  "Gangnam real estate",
		Type:  AccountInvestment,
		Color: "#112233",
		Valuations: []ValuationRecord{
			val(ValuationBuy, 1000, "2020-01-01T00:00:00Z"),
			val(ValuationSell, 1200, "2022-01-01T00:00:00Z"),
			val(ValuationBuy, 1300, "2023-01-01T00:00:00Z"),
		},
	}
	if got := acc.ReturnRate(); math.Abs(got-20.0) > 1e-9 {
		t.Fatalf("ReturnRate() = %v, want 20.0", got)
	}
}

func TestAccount_ReturnRate_RealEstateKoreanMarker(t *testing.T) {
	acc := Account{
		ID:    "acc1",
		Name:  "서울 부동산",
		Type:  AccountInvestment,
		Color: "#112233",
		Valuations: []ValuationRecord{
			val(ValuationBuy, 500, "2020-01-01T00:00:00Z"),
			val(ValuationSell, 750, "2021-01-01T00:00:00Z"),
		},
	}
	if got := acc.ReturnRate(); math.Abs(got-50.0) > 1e-9 {
		t.Fatalf("ReturnRate() = %v, want 50.0", got)
	}
}

func TestAccount_ReturnRate_RealEstateWithoutSellFallsBack(t *testing.T) {
	// A real-estate account missing a sell leg uses the generic basis rule.
	acc := Account{
		ID:             "acc1",
		Name:           "real estate fund",
		Type:           AccountInvestment,
		Color:          "#112233",
		PurchaseAmount: decimal.NewFromInt(200),
		Valuations: []ValuationRecord{
			val(ValuationBuy, 200, "2020-01-01T00:00:00Z"),
			val(ValuationMark, 300, "2021-01-01T00:00:00Z"),
		},
	}
	if got := acc.ReturnRate(); math.Abs(got-50.0) > 1e-9 {
		t.Fatalf("ReturnRate() = %v, want 50.0 via generic branch", got)
	}
}

func TestTradePair_Derived(t *testing.T) {
	pair := TradePair{
		Buy:  val(ValuationBuy, 100, "2024-01-01T00:00:00Z"),
		Sell: val(ValuationSell, 150, "2024-02-01T00:00:00Z"),
	}
	if got := pair.ReturnRate(); math.Abs(got-50.0) > 1e-9 {
		t.Fatalf("ReturnRate() = %v, want 50.0", got)
	}
	if got := pair.ProfitAmount(); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("ProfitAmount() = %s, want 50", got)
	}

	pair.Buy.EvaluatedAmount = decimal.Zero
	if got := pair.ReturnRate(); got != 0 {
		t.Fatalf("ReturnRate() with zero buy = %v, want 0", got)
	}
}

func TestAccount_Clone_NoSharedState(t *testing.T) {
	acc := Account{
		ID:           "acc1",
		Name:         "checking",
		Type:         AccountCash,
		Color:        "#112233",
		Transactions: []Transaction{txn(KindIncome, 10, "2024-01-01")},
	}
	dup := acc.Clone()
	dup.Transactions[0].Amount = decimal.NewFromInt(999)
	if !acc.Transactions[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatal("Clone() shares transaction backing array with original")
	}
}
