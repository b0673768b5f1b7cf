package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/sample"
	"github.com/spf13/cobra"
)

func sampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Load or remove demo transactions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "load",
		Short: "Add a month of sample transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			inserted, err := store.SaveTransactions(ctx, sample.Transactions(time.Now()))
			if err != nil {
				return fmt.Errorf("failed to load sample data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Loaded %d sample transactions", inserted)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all sample transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			removed, err := store.DeleteSampleTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear sample data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d sample transactions", removed)))
			return nil
		},
	})

	return cmd
}
