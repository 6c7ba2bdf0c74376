package main

import (
	"context"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/daehan/moneybook/internal/common"
	"github.com/daehan/moneybook/internal/config"
	"github.com/daehan/moneybook/internal/ledger"
	"github.com/daehan/moneybook/internal/service"
	"github.com/daehan/moneybook/internal/storage"
)

// openService builds the configured store, loads the ledger through it, and
// returns the service plus a cleanup func.
func openService(ctx context.Context) (*ledger.Service, func() error, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	repo, err := ledger.NewRepository(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, common.NewUserError("failed to open ledger", err)
	}
	return ledger.NewService(repo), store.Close, nil
}

func openStore() (service.Store, error) {
	backend := viper.GetString("storage.backend")
	path := config.ExpandPath(viper.GetString("storage.path"))

	switch backend {
	case "json":
		if path == "" {
			var err error
			if path, err = config.DefaultDataPath("ledger.json"); err != nil {
				return nil, fmt.Errorf("failed to resolve data path: %w", err)
			}
		}
		return storage.NewJSONStore(path)
	case "sqlite":
		if path == "" {
			var err error
			if path, err = config.DefaultDataPath("ledger.db"); err != nil {
				return nil, fmt.Errorf("failed to resolve data path: %w", err)
			}
		}
		return storage.NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// formatMoney renders an amount the way the ledger always displayed money:
// whole won, grouped, with the currency symbol.
func formatMoney(amount decimal.Decimal) string {
	return money.New(amount.Round(0).IntPart(), money.KRW).Display()
}

// parseAmount parses a decimal CLI argument.
func parseAmount(arg string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return amount, nil
}
