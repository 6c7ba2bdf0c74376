package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func salaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Manage salary records",
	}
	cmd.AddCommand(salaryAddCmd())
	cmd.AddCommand(salaryListCmd())
	cmd.AddCommand(salarySummaryCmd())
	return cmd
}

func salaryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <amount> <month> <person>",
		Short: "Record one month's salary (month as YYYY-MM)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return svc.AddSalary(cmd.Context(), amount, args[1], args[2])
		},
	}
}

func salaryListCmd() *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List salary records, optionally for one year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tPERSON\tAMOUNT")
			for _, entry := range svc.GetSalaries(year) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Month, entry.Person, formatMoney(entry.Amount))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "filter to a year (YYYY)")
	return cmd
}

func salarySummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <year>",
		Short: "Total, count, and average salary for one year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			summary := svc.SalarySummary(args[0])
			fmt.Printf("total: %s\ncount: %d\n", formatMoney(summary.Total), summary.Count)
			if summary.Count > 0 {
				fmt.Printf("average: %s\n", formatMoney(summary.Average))
			}
			return nil
		},
	}
}
