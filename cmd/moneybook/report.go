package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Derived reports over the whole ledger",
	}
	cmd.AddCommand(reportAssetsCmd())
	cmd.AddCommand(reportBreakdownCmd())
	cmd.AddCommand(reportAllocationCmd())
	return cmd
}

func reportAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "Total assets and total cash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			fmt.Printf("total assets: %s\ntotal cash: %s\n",
				formatMoney(svc.TotalAssets()), formatMoney(svc.TotalCash()))
			return nil
		},
	}
}

func reportBreakdownCmd() *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Monthly savings/interest/expense breakdown of cash accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tSAVINGS\tINTEREST\tEXPENSE")
			for _, bucket := range svc.MonthlyIncomeBreakdown(year) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", bucket.Month,
					formatMoney(bucket.Savings), formatMoney(bucket.Interest), formatMoney(bucket.Expense))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "filter to a year (YYYY)")
	return cmd
}

func reportAllocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allocation",
		Short: "Asset allocation across cash, real estate, bitcoin, stocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			allocation := svc.AssetAllocation()
			buckets := make([]string, 0, len(allocation))
			for bucket := range allocation {
				buckets = append(buckets, bucket)
			}
			sort.Strings(buckets)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, bucket := range buckets {
				fmt.Fprintf(w, "%s\t%s\n", bucket, formatMoney(allocation[bucket]))
			}
			return w.Flush()
		},
	}
}
