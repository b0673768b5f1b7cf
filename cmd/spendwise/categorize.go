package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Assign categories to uncategorized transactions",
		Long: `Match every uncategorized transaction against category keywords and
learned merchants. Suggestions at or above the confidence threshold are
assigned; credit card payments are skipped. Large or mixed-merchant
purchases are listed as candidates for splitting.`,
		RunE: runCategorize,
	}

	cmd.Flags().Float64("min-confidence", 0, "Minimum confidence to assign automatically (default from config, 0.6)")
	cmd.Flags().Bool("dry-run", false, "Show what would be assigned without saving")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")

	_ = viper.BindPFlag("categorize.min_confidence", cmd.Flags().Lookup("min-confidence"))

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Categorization")
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	categorizer := engine.NewWithConfig(store, engine.Config{
		MinConfidence: viper.GetFloat64("categorize.min_confidence"),
		DryRun:        dryRun,
	})
	if !noProgress {
		categorizer.SetProgress(cli.NewProgressBar(cmd.ErrOrStderr(), "Categorizing transactions..."))
	}

	stats, err := categorizer.CategorizeAll(ctx)
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return err
	}

	summary := fmt.Sprintf("  • Transactions checked: %d\n", stats.Total) +
		fmt.Sprintf("  • Auto-categorized: %d\n", stats.AutoCategorized) +
		fmt.Sprintf("  • Low confidence: %d\n", stats.LowConfidence) +
		fmt.Sprintf("  • No match: %d\n", stats.NoMatch) +
		fmt.Sprintf("  • Credit card payments skipped: %d\n", stats.CardPayments) +
		fmt.Sprintf("  • Time taken: %s", stats.Duration.Round(time.Millisecond))

	title := "Categorization Complete"
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, cli.RenderBox(title, summary))

	if len(stats.SplitCandidates) > 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s %d transactions may be worth splitting:", cli.SplitIcon, len(stats.SplitCandidates))))
		for _, txn := range stats.SplitCandidates {
			fmt.Fprintf(out, "    %s  %-40s %12s\n", txn.Date.Format(dateLayout), truncate(txn.Description, 40), cli.FormatMoney(txn.Amount))
		}
	}

	if left := stats.LowConfidence + stats.NoMatch; left > 0 {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d transactions need a manual category: spendwise transactions list --uncategorized", left)))
	}
	return nil
}
