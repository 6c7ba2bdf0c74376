package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daehan/moneybook/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsDeleteCmd())
	cmd.AddCommand(accountsToggleCmd())
	return cmd
}

func accountsAddCmd() *cobra.Command {
	var (
		accType   string
		color     string
		opening   string
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			balance, err := parseAmount(opening)
			if err != nil {
				return err
			}

			acc, err := svc.AddAccount(cmd.Context(), args[0], model.AccountType(accType), color, balance, imagePath)
			if err != nil {
				return err
			}
			fmt.Printf("Added account %s (%s)\n", acc.Name, acc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&accType, "type", string(model.AccountCash), "account type (cash, investment, consumption)")
	cmd.Flags().StringVar(&color, "color", "#4CAF50", "display color (#RRGGBB)")
	cmd.Flags().StringVar(&opening, "opening-balance", "0", "opening balance")
	cmd.Flags().StringVar(&imagePath, "image", "", "optional image path")
	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances and returns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tVALUE\tRETURN")
			for _, acc := range svc.ListAccounts() {
				value := acc.Balance()
				if acc.Type == model.AccountInvestment {
					value = acc.AssetValue()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f%%\n",
					acc.ID, acc.Name, acc.Type, acc.Status, formatMoney(value), acc.ReturnRate())
			}
			return w.Flush()
		},
	}
}

func accountsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()
			return svc.DeleteAccount(cmd.Context(), args[0])
		},
	}
}

func accountsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <account-id>",
		Short: "Toggle an account between active and dead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()
			return svc.ToggleAccountStatus(cmd.Context(), args[0])
		},
	}
}
