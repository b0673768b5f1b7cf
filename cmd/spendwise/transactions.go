package main

import (
	"fmt"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/engine"
	"github.com/Veraticus/spendwise/internal/matcher"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn"},
		Short:   "List and categorize transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(assignTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		startDate     string
		endDate       string
		categoryID    string
		limit         int
		uncategorized bool
		noSample      bool
		suggest       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			start, err := parseDateFlag(startDate, false)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(endDate, true)
			if err != nil {
				return err
			}

			filter := service.TransactionFilter{
				CategoryID:    categoryID,
				Limit:         limit,
				Uncategorized: uncategorized,
				ExcludeSample: noSample,
			}
			if !start.IsZero() {
				filter.StartDate = &start
			}
			if !end.IsZero() {
				filter.EndDate = &end
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			transactions, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}
			if len(transactions) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No transactions found. Use 'spendwise import' or 'spendwise sample load' to add some."))
				return nil
			}

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			headers := []string{"ID", "Date", "Description", "Amount", "Category"}
			if suggest {
				headers = append(headers, "Suggestion")
			}

			rows := make([][]string, 0, len(transactions))
			for i := range transactions {
				txn := &transactions[i]
				category := txn.CategoryID
				if category == "" {
					category = cli.SubtleStyle.Render("-")
				}
				row := []string{
					txn.ID,
					txn.Date.Format(dateLayout),
					truncate(txn.Description, 40),
					cli.FormatSignedMoney(txn.Amount),
					category,
				}
				if suggest {
					row = append(row, formatSuggestion(matcher.SuggestCategory(txn, categories)))
				}
				rows = append(rows, row)
			}

			fmt.Fprintln(out, cli.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "Only transactions on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "Only transactions in this category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of transactions (0 for all)")
	cmd.Flags().BoolVarP(&uncategorized, "uncategorized", "u", false, "Only uncategorized transactions")
	cmd.Flags().BoolVar(&noSample, "no-sample", false, "Hide sample transactions")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Show the best category suggestion for each transaction")

	return cmd
}

func formatSuggestion(s *matcher.Suggestion) string {
	if s == nil {
		return cli.SubtleStyle.Render("none")
	}
	return fmt.Sprintf("%s (%s)", s.Category.ID, cli.FormatPercent(s.Confidence*100))
}

func assignTransactionCmd() *cobra.Command {
	var noLearn bool

	cmd := &cobra.Command{
		Use:   "assign <transaction-id> <category-id>",
		Short: "Set a transaction's category",
		Long: `Set a transaction's category. The transaction's merchant is remembered
for the category so future transactions from it are matched exactly,
unless --no-learn is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := engine.New(store).Assign(ctx, args[0], args[1], !noLearn); err != nil {
				return fmt.Errorf("failed to assign category: %w", err)
			}

			msg := fmt.Sprintf("Assigned %s to %s", args[0], args[1])
			if !noLearn {
				msg += " and learned its merchant"
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLearn, "no-learn", false, "Do not remember the merchant for this category")

	return cmd
}
