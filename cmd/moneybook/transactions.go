package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/daehan/moneybook/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txSummaryCmd())
	return cmd
}

func txAddCmd() *cobra.Command {
	var (
		kind     string
		category string
		memo     string
		date     string
	)
	cmd := &cobra.Command{
		Use:   "add <account-id> <amount>",
		Short: "Record a transaction on an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if date == "" {
				date = time.Now().UTC().Format("2006-01-02T15:04:05Z")
			}
			if _, ok := svc.GetAccount(args[0]); !ok {
				return fmt.Errorf("no account with id %s", args[0])
			}

			txn, err := svc.AddTransaction(cmd.Context(), args[0], model.TransactionKind(kind), amount, category, memo, date)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s of %s (%s)\n", txn.Kind, formatMoney(txn.Amount), txn.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.KindExpense), "transaction kind (income, expense)")
	cmd.Flags().StringVar(&category, "category", "", "free-text category")
	cmd.Flags().StringVar(&memo, "memo", "", "memo")
	cmd.Flags().StringVar(&date, "date", "", "ISO-8601 date (default: now)")
	return cmd
}

func txListCmd() *cobra.Command {
	var ascending bool
	cmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List an account's transactions by date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tKIND\tAMOUNT\tCATEGORY\tMEMO")
			for _, txn := range svc.ListTransactions(args[0], ascending) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					txn.Date, txn.Kind, formatMoney(txn.Amount), txn.Category, txn.Memo)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&ascending, "ascending", false, "oldest first")
	return cmd
}

func txSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <account-id> <year-month>",
		Short: "Income and expense totals for one month (YYYY-MM)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			summary := svc.MonthSummary(args[0], args[1])
			fmt.Printf("income: %s\nexpense: %s\n",
				formatMoney(summary.Income), formatMoney(summary.Expense))
			return nil
		},
	}
}
