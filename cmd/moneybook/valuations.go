package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daehan/moneybook/internal/ledger"
	"github.com/daehan/moneybook/internal/model"
)

func valuationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "valuation",
		Aliases: []string{"val"},
		Short:   "Manage investment valuations",
	}
	cmd.AddCommand(valuationAddCmd())
	cmd.AddCommand(valuationListCmd())
	cmd.AddCommand(valuationDeleteCmd())
	cmd.AddCommand(valuationPairsCmd())
	cmd.AddCommand(valuationAutoCmd())
	cmd.AddCommand(valuationSeriesCmd())
	return cmd
}

func valuationAddCmd() *cobra.Command {
	var (
		valType string
		date    string
		memo    string
	)
	cmd := &cobra.Command{
		Use:   "add <account-id> <amount>",
		Short: "Record a buy, sell, or mark-to-market valuation",
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

			rec, err := svc.AddValuation(cmd.Context(), args[0], amount, date, memo, model.ValuationType(valType))
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s valuation of %s (%s)\n",
				rec.TransactionType, formatMoney(rec.EvaluatedAmount), rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&valType, "type", string(model.ValuationMark), "record type (buy, sell, valuation)")
	cmd.Flags().StringVar(&date, "date", "", "ISO-8601 evaluation date")
	cmd.Flags().StringVar(&memo, "memo", "", "memo")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func valuationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <account-id>",
		Short: "List an account's valuations oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tMEMO")
			for _, rec := range svc.GetValuations(args[0]) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID, rec.EvaluationDate, rec.TransactionType,
					formatMoney(rec.EvaluatedAmount), rec.Memo)
			}
			return w.Flush()
		},
	}
}

func valuationDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id> <valuation-id>",
		Short: "Delete a valuation record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()
			return svc.DeleteValuation(cmd.Context(), args[0], args[1])
		},
	}
}

func valuationPairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs <account-id>",
		Short: "Show reconstructed buy/close trade pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BUY DATE\tBUY\tCLOSE DATE\tCLOSE\tPROFIT\tRETURN")
			for _, pair := range svc.GetTradePairs(args[0]) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f%%\n",
					pair.Buy.EvaluationDate, formatMoney(pair.Buy.EvaluatedAmount),
					pair.Sell.EvaluationDate, formatMoney(pair.Sell.EvaluatedAmount),
					formatMoney(pair.ProfitAmount()), pair.ReturnRate())
			}
			return w.Flush()
		},
	}
}

func valuationAutoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto <account-id>",
		Short: "Re-mark the account today at its latest recorded amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			rec, err := svc.AutoValuation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Marked %s at %s\n", rec.EvaluationDate, formatMoney(rec.EvaluatedAmount))
			return nil
		},
	}
}

func valuationSeriesCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "series <account-id>",
		Short: "Show the valuation series a chart would render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT")
			for _, rec := range svc.ValuationSeries(args[0], ledger.Period(period)) {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					rec.EvaluationDate, rec.TransactionType, formatMoney(rec.EvaluatedAmount))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&period, "period", string(ledger.PeriodAll), "trailing window (all, 1m, 3m, 6m, 1y)")
	return cmd
}
